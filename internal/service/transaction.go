package service

import (
	"errors"
	"log"
	"time"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeletedAccountName 账户被硬删除后，流水上显示的占位名称。
const DeletedAccountName = "已删除账户"

// TransactionService 负责流水的创建/修改/删除/查询和账户间转账，
// 并保证账户余额与流水集合始终一致。
type TransactionService struct {
	DB      *gorm.DB
	Savings *SavingsService
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{DB: db, Savings: NewSavingsService(db)}
}

type CreateTransactionInput struct {
	AccountID   uint
	Type        string // income / expense
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        time.Time
	TimeOfDay   string
}

// Create 创建一条流水并把金额按符号规则作用到账户余额上。
// 支出会同步触发储蓄副作用（超支扣减 + 进度累加），其结果通过
// SavingsEffect 返回，调用方只记录日志，不影响本次请求的成败。
func (s *TransactionService) Create(userID uint, in CreateTransactionInput) (*models.Transaction, *SavingsEffect, error) {
	var acct models.Account
	if err := s.DB.Where("id = ? AND user_id = ?", in.AccountID, userID).
		First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	txn := models.Transaction{
		UserID:      userID,
		AccountID:   in.AccountID,
		Reference:   uuid.NewString(),
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
		Date:        in.Date,
		TimeOfDay:   in.TimeOfDay,
	}
	if err := s.DB.Create(&txn).Error; err != nil {
		return nil, nil, err
	}

	// 各步骤顺序执行，失败不回滚已提交的步骤
	if effect := TransactionEffect(in.Type, in.Amount); !effect.IsZero() {
		if _, err := ApplyBalanceDelta(s.DB, in.AccountID, effect); err != nil {
			return nil, nil, err
		}
	}

	var eff *SavingsEffect
	if in.Type == models.TxExpense {
		eff = s.Savings.RunExpenseSideEffects(userID, in.Amount)
	}
	return &txn, eff, nil
}

type UpdateTransactionInput struct {
	Amount      *decimal.Decimal
	Type        *string
	Description *string
	Category    *string
	Date        *time.Time
	TimeOfDay   *string
}

// Update 修改流水。金额或类型变化时按"净差额"一次性调整余额：
// delta = 新影响 - 旧影响。修改不重跑储蓄副作用（与创建路径不对称，
// 这是沿用的行为）。
func (s *TransactionService) Update(userID, id uint, in UpdateTransactionInput) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	newType := txn.Type
	if in.Type != nil {
		newType = *in.Type
	}
	newAmount := txn.Amount
	if in.Amount != nil {
		newAmount = *in.Amount
	}

	oldEffect := TransactionEffect(txn.Type, txn.Amount)
	newEffect := TransactionEffect(newType, newAmount)
	if delta := newEffect.Sub(oldEffect); !delta.IsZero() {
		if _, err := ApplyBalanceDelta(s.DB, txn.AccountID, delta); err != nil {
			if !errors.Is(err, ErrAccountNotFound) {
				return nil, err
			}
			// 账户已被删除：余额无处可调，按无操作处理
			log.Printf("[transaction] update %d: account %d gone, balance delta skipped", txn.ID, txn.AccountID)
		}
	}

	txn.Type = newType
	txn.Amount = newAmount
	if in.Description != nil {
		txn.Description = *in.Description
	}
	if in.Category != nil {
		txn.Category = *in.Category
	}
	if in.Date != nil {
		txn.Date = *in.Date
	}
	if in.TimeOfDay != nil {
		txn.TimeOfDay = *in.TimeOfDay
	}
	if err := s.DB.Save(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// Delete 删除流水，先冲正它对余额的影响再删记录。
// 不回滚储蓄目标的历史变动。
func (s *TransactionService) Delete(userID, id uint) error {
	var txn models.Transaction
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if effect := TransactionEffect(txn.Type, txn.Amount); !effect.IsZero() {
		if _, err := ApplyBalanceDelta(s.DB, txn.AccountID, effect.Neg()); err != nil {
			if !errors.Is(err, ErrAccountNotFound) {
				return err
			}
			log.Printf("[transaction] delete %d: account %d gone, reversal skipped", txn.ID, txn.AccountID)
		}
	}
	return s.DB.Delete(&txn).Error
}

// Transfer 在同一用户的两个账户之间转账：
// 出账户 -amount，入账户 +amount，只产生一条 transfer 类型流水。
func (s *TransactionService) Transfer(userID, fromID, toID uint, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error) {
	if fromID == toID {
		return nil, ErrValidation
	}
	var from, to models.Account
	if err := s.DB.Where("id = ? AND user_id = ?", fromID, userID).
		First(&from).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.DB.Where("id = ? AND user_id = ?", toID, userID).
		First(&to).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	txn := models.Transaction{
		UserID:      userID,
		AccountID:   fromID,
		ToAccountID: &toID,
		Reference:   uuid.NewString(),
		Type:        models.TxTransfer,
		Amount:      amount,
		Description: description,
		Category:    "Transfer",
		Date:        date,
	}
	if err := s.DB.Create(&txn).Error; err != nil {
		return nil, err
	}
	if _, err := ApplyBalanceDelta(s.DB, fromID, amount.Neg()); err != nil {
		return nil, err
	}
	if _, err := ApplyBalanceDelta(s.DB, toID, amount); err != nil {
		return nil, err
	}
	return &txn, nil
}

type ListTransactionsFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      string
	Category  string
	AccountID uint
	Limit     int
}

// TransactionRow 查询结果：流水 + 关联账户名。
type TransactionRow struct {
	models.Transaction
	AccountName string `json:"account_name"`
}

// List 查询流水，按交易日期倒序、创建时间倒序，附带账户名。
// 账户已被硬删除时用占位名称兜底。
func (s *TransactionService) List(userID uint, f ListTransactionsFilter) ([]TransactionRow, error) {
	q := s.DB.Table("transactions").
		Select("transactions.*, accounts.name AS account_name").
		Joins("LEFT JOIN accounts ON accounts.id = transactions.account_id").
		Where("transactions.user_id = ?", userID)

	if f.StartDate != nil {
		q = q.Where("transactions.date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("transactions.date < ?", *f.EndDate)
	}
	if f.Type != "" {
		q = q.Where("transactions.type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("transactions.category = ?", f.Category)
	}
	if f.AccountID != 0 {
		q = q.Where("transactions.account_id = ?", f.AccountID)
	}
	q = q.Order("transactions.date DESC, transactions.created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []TransactionRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].AccountName == "" {
			rows[i].AccountName = DeletedAccountName
		}
	}
	return rows, nil
}
