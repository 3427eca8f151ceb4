package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedExpense is a recurring monthly obligation (rent, subscription, ...).
// 只用于展示和提醒，不自动产生流水。
type FixedExpense struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"index;not null"`
	AccountID uint            `gorm:"index;not null"`
	Title     string          `gorm:"size:64;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Category  string          `gorm:"size:32"`
	DueDay    int             `gorm:"default:1"` // 每月扣款日（1-28）
	IsActive  bool            `gorm:"index;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
