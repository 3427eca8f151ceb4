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

// PossibleExpenseService 负责"计划支出"的转实。
type PossibleExpenseService struct {
	DB *gorm.DB
}

func NewPossibleExpenseService(db *gorm.DB) *PossibleExpenseService {
	return &PossibleExpenseService{DB: db}
}

type ConvertInput struct {
	Amount      *decimal.Decimal // 不传则用计划的预期金额
	Description *string          // 不传则用计划标题
	Date        *time.Time       // 不传则用当前时间
}

// Convert 把一条计划支出转成真实的支出流水：
// 在计划关联的账户上创建 expense 流水、冲减余额、物理删除计划。
// 注意：转实不触发储蓄副作用（与直接记支出不对称，沿用的行为）。
func (p *PossibleExpenseService) Convert(userID, id uint, in ConvertInput) (*models.Transaction, error) {
	var plan models.PossibleExpense
	if err := p.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	amount := plan.ExpectedAmount
	if in.Amount != nil {
		amount = *in.Amount
	}
	description := plan.Title
	if in.Description != nil {
		description = *in.Description
	}
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	txn := models.Transaction{
		UserID:      userID,
		AccountID:   plan.AccountID,
		Reference:   uuid.NewString(),
		Type:        models.TxExpense,
		Amount:      amount,
		Description: description,
		Category:    plan.Category,
		Date:        date,
	}
	if err := p.DB.Create(&txn).Error; err != nil {
		return nil, err
	}

	if _, err := ApplyBalanceDelta(p.DB, plan.AccountID, amount.Neg()); err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
		log.Printf("[possible-expense] convert %d: account %d gone, balance delta skipped", plan.ID, plan.AccountID)
	}

	if err := p.DB.Delete(&plan).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}
