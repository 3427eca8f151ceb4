package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PossibleExpense is a planned expense; converting it creates a real
// expense transaction and removes the plan.
type PossibleExpense struct {
	ID             uint            `gorm:"primaryKey"`
	UserID         uint            `gorm:"index;not null"`
	AccountID      uint            `gorm:"index;not null"`
	Title          string          `gorm:"size:64;not null"`
	ExpectedAmount decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Category       string          `gorm:"size:32"`
	Notes          string          `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
