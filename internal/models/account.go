package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 账户类型
const (
	AccountBank   = "bank"
	AccountCash   = "cash"
	AccountCredit = "credit"
	AccountMobile = "mobile"
)

// Account represents one of the user's money accounts.
// 余额只能通过 service.ApplyBalanceDelta 修改，handler 不允许直接写。
type Account struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"index;not null"`
	Name      string          `gorm:"size:64;not null"`
	Type      string          `gorm:"size:16;not null"` // bank / cash / credit / mobile
	Balance   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Currency  string          `gorm:"size:8;default:BDT"`
	IsActive  bool            `gorm:"index;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
