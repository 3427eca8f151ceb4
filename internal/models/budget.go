package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a monthly spending cap per category, pure reporting entity.
// 实际花费在读取时根据当月支出流水聚合计算。
type Budget struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"uniqueIndex:idx_budget_owner;not null"`
	Category  string          `gorm:"size:32;uniqueIndex:idx_budget_owner;not null"`
	Month     string          `gorm:"size:7;uniqueIndex:idx_budget_owner;not null"` // YYYY-MM
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
