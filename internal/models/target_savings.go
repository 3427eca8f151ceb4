package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TargetSavings represents a savings goal.
// CurrentAmount 只由储蓄引擎（超支扣减 + 支出进度累加）驱动，不变式：>= 0。
type TargetSavings struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"index;not null"`
	AccountID     uint            `gorm:"index;not null"` // 关联账户（只读关系，不拥有）
	Title         string          `gorm:"size:64;not null"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null"` // 目标金额，创建后不变
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Color         string          `gorm:"size:16"`
	IsActive      bool            `gorm:"index;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
