package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BorrowingService 负责借入/借出记录的生命周期。
// 每条记录的状态机：未还 -> 已还 -> 未还 -> ...（可反复切换）。
// 余额冲正一律以借贷记录自身的 type/amount 为准，镜像流水只是账面记录。
type BorrowingService struct {
	DB *gorm.DB
}

func NewBorrowingService(db *gorm.DB) *BorrowingService {
	return &BorrowingService{DB: db}
}

type CreateBorrowingInput struct {
	PersonName      string
	Type            string // borrowed / lent
	Amount          decimal.Decimal
	AccountID       uint
	Description     string
	TransactionDate time.Time
	DueDate         *time.Time
}

// Create 新建借贷记录：落库 + 创建镜像流水 + 直接作用余额。
// 镜像流水（borrowed 记收入 / lent 记支出）只做账面展示，
// 它的金额以后不会被用来反推余额。
func (b *BorrowingService) Create(userID uint, in CreateBorrowingInput) (*models.Borrowing, error) {
	var acct models.Account
	if err := b.DB.Where("id = ? AND user_id = ?", in.AccountID, userID).
		First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec := models.Borrowing{
		UserID:          userID,
		AccountID:       in.AccountID,
		PersonName:      in.PersonName,
		Type:            in.Type,
		Amount:          in.Amount,
		Description:     in.Description,
		TransactionDate: in.TransactionDate,
		DueDate:         in.DueDate,
		IsPaid:          false,
		IsActive:        true,
	}
	if err := b.DB.Create(&rec).Error; err != nil {
		return nil, err
	}

	mirrorType := models.TxIncome
	mirrorCategory := models.CategoryBorrowedMoney
	if in.Type == models.BorrowingLent {
		mirrorType = models.TxExpense
		mirrorCategory = models.CategoryLentMoney
	}
	mirror := models.Transaction{
		UserID:      userID,
		AccountID:   in.AccountID,
		Reference:   uuid.NewString(),
		Type:        mirrorType,
		Amount:      in.Amount,
		Description: fmt.Sprintf("%s - %s", mirrorCategory, in.PersonName),
		Category:    mirrorCategory,
		Date:        in.TransactionDate,
	}
	if err := b.DB.Create(&mirror).Error; err != nil {
		return nil, err
	}

	if _, err := ApplyBalanceDelta(b.DB, in.AccountID, BorrowingEffect(in.Type, in.Amount)); err != nil {
		return nil, err
	}
	return &rec, nil
}

type UpdateBorrowingInput struct {
	PersonName      *string
	Type            *string
	Amount          *decimal.Decimal
	Description     *string
	TransactionDate *time.Time
	DueDate         *time.Time
}

// Update 修改借贷记录。金额或方向变化时采用"先冲销旧影响、
// 再施加新影响"的两步冲正（与流水修改的净差额方式殊途同归，
// 两者共用同一套 effect 计算，结果余额必然一致）。
func (b *BorrowingService) Update(userID, id uint, in UpdateBorrowingInput) (*models.Borrowing, error) {
	rec, err := b.fetch(userID, id)
	if err != nil {
		return nil, err
	}

	newType := rec.Type
	if in.Type != nil {
		newType = *in.Type
	}
	newAmount := rec.Amount
	if in.Amount != nil {
		newAmount = *in.Amount
	}

	if newType != rec.Type || !newAmount.Equal(rec.Amount) {
		// 已还的记录余额影响已被结算冲掉，无需再动
		if !rec.IsPaid {
			if err := b.applyOrWarn(rec, BorrowingEffect(rec.Type, rec.Amount).Neg()); err != nil {
				return nil, err
			}
			if err := b.applyOrWarn(rec, BorrowingEffect(newType, newAmount)); err != nil {
				return nil, err
			}
		}
		rec.Type = newType
		rec.Amount = newAmount
	}

	if in.PersonName != nil {
		rec.PersonName = *in.PersonName
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.TransactionDate != nil {
		rec.TransactionDate = *in.TransactionDate
	}
	if in.DueDate != nil {
		rec.DueDate = in.DueDate
	}
	if err := b.DB.Save(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// TogglePaid 切换已还状态。
// 标记已还：创建结算流水（borrowed -> Loan Repayment 支出，
// lent -> Loan Collection 收入），施加与借贷时相反的余额影响，
// 在记录上保存结算流水 ID。已存在结算流水时幂等跳过。
// 取消已还：删除结算流水并恢复借贷时的余额影响，清空引用。
func (b *BorrowingService) TogglePaid(userID, id uint, isPaid bool) (*models.Borrowing, error) {
	rec, err := b.fetch(userID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if isPaid {
		if rec.RepaymentTransactionID != nil {
			return rec, nil // 已经结算过，幂等
		}
		settleType := models.TxExpense
		settleCategory := models.CategoryLoanRepayment
		if rec.Type == models.BorrowingLent {
			settleType = models.TxIncome
			settleCategory = models.CategoryLoanCollection
		}
		settlement := models.Transaction{
			UserID:      userID,
			AccountID:   rec.AccountID,
			Reference:   uuid.NewString(),
			Type:        settleType,
			Amount:      rec.Amount,
			Description: fmt.Sprintf("%s - %s", settleCategory, rec.PersonName),
			Category:    settleCategory,
			Date:        now,
		}
		if err := b.DB.Create(&settlement).Error; err != nil {
			return nil, err
		}
		if err := b.applyOrWarn(rec, BorrowingEffect(rec.Type, rec.Amount).Neg()); err != nil {
			return nil, err
		}
		rec.RepaymentTransactionID = &settlement.ID
		rec.IsPaid = true
		rec.PaidDate = &now
	} else {
		if rec.RepaymentTransactionID != nil {
			if err := b.DB.Delete(&models.Transaction{}, *rec.RepaymentTransactionID).Error; err != nil {
				return nil, err
			}
			if err := b.applyOrWarn(rec, BorrowingEffect(rec.Type, rec.Amount)); err != nil {
				return nil, err
			}
			rec.RepaymentTransactionID = nil
		}
		rec.IsPaid = false
		rec.PaidDate = nil
	}

	// Save 不会把归零的指针字段写成 NULL，用 Updates 指定列
	if err := b.DB.Model(rec).Select("is_paid", "paid_date", "repayment_transaction_id").
		Updates(map[string]interface{}{
			"is_paid":                  rec.IsPaid,
			"paid_date":                rec.PaidDate,
			"repayment_transaction_id": rec.RepaymentTransactionID,
		}).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete 软删除借贷记录：未还的先冲销借贷时的余额影响，
// 然后统一置 IsActive=false，不做物理删除。
func (b *BorrowingService) Delete(userID, id uint) error {
	rec, err := b.fetch(userID, id)
	if err != nil {
		return err
	}
	if !rec.IsPaid {
		if err := b.applyOrWarn(rec, BorrowingEffect(rec.Type, rec.Amount).Neg()); err != nil {
			return err
		}
	}
	return b.DB.Model(rec).Update("is_active", false).Error
}

// BorrowingRow 查询结果：借贷记录 + 关联账户名。
type BorrowingRow struct {
	models.Borrowing
	AccountName string `json:"account_name"`
}

// List 查询用户的有效借贷记录，最近创建的在前。
func (b *BorrowingService) List(userID uint) ([]BorrowingRow, error) {
	var rows []BorrowingRow
	if err := b.DB.Table("borrowings").
		Select("borrowings.*, accounts.name AS account_name").
		Joins("LEFT JOIN accounts ON accounts.id = borrowings.account_id").
		Where("borrowings.user_id = ? AND borrowings.is_active = ?", userID, true).
		Order("borrowings.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].AccountName == "" {
			rows[i].AccountName = DeletedAccountName
		}
	}
	return rows, nil
}

// fetch 按 ID 取记录；存在但不属于当前用户时返回 ErrForbidden
// （借贷流程区分"不存在"和"不是你的"）。
func (b *BorrowingService) fetch(userID, id uint) (*models.Borrowing, error) {
	var rec models.Borrowing
	if err := b.DB.Where("id = ? AND is_active = ?", id, true).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrForbidden
	}
	return &rec, nil
}

func (b *BorrowingService) applyOrWarn(rec *models.Borrowing, delta decimal.Decimal) error {
	if _, err := ApplyBalanceDelta(b.DB, rec.AccountID, delta); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			log.Printf("[borrowing] record %d: account %d gone, balance delta skipped", rec.ID, rec.AccountID)
			return nil
		}
		return err
	}
	return nil
}
