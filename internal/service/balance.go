package service

import (
	"errors"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApplyBalanceDelta 给指定账户的余额加上一个有符号增量并落库。
// 所有余额变更（流水、借贷、计划转实、转账）都必须走这里，
// 以保证冲正算术集中在一处。账户不存在时返回 ErrAccountNotFound。
func ApplyBalanceDelta(db *gorm.DB, accountID uint, delta decimal.Decimal) (decimal.Decimal, error) {
	var acct models.Account
	if err := db.First(&acct, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrAccountNotFound
		}
		return decimal.Zero, err
	}

	acct.Balance = acct.Balance.Add(delta)
	if err := db.Model(&acct).Update("balance", acct.Balance).Error; err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

// TransactionEffect 返回一条流水对账户余额的有符号影响。
// income=+amount，expense=-amount；transfer 的两端由转账逻辑单独记账，
// 这里视为 0。符号规则只存在于这一处和 BorrowingEffect。
func TransactionEffect(txType string, amount decimal.Decimal) decimal.Decimal {
	switch txType {
	case models.TxIncome:
		return amount
	case models.TxExpense:
		return amount.Neg()
	default:
		return decimal.Zero
	}
}

// BorrowingEffect 返回一条借贷记录对关联账户余额的有符号影响。
// borrowed=+amount（钱进来），lent=-amount（钱出去）。
func BorrowingEffect(bType string, amount decimal.Decimal) decimal.Decimal {
	if bType == models.BorrowingBorrowed {
		return amount
	}
	return amount.Neg()
}
