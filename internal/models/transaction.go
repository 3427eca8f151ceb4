package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 交易类型
const (
	TxIncome   = "income"
	TxExpense  = "expense"
	TxTransfer = "transfer"
)

// Transaction represents a single income / expense / transfer record.
// 不变式：每条 income/expense 记录存在期间，其金额恰好已按符号规则
// （income=+，expense=-）作用到所属账户余额上一次。
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	AccountID   uint            `gorm:"index;not null"`
	ToAccountID *uint           `gorm:"index"` // 仅 transfer 使用：转入账户
	Reference   string          `gorm:"size:36;uniqueIndex;not null"` // 对外引用号（UUID）
	Type        string          `gorm:"size:16;index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Description string          `gorm:"size:255"`
	Category    string          `gorm:"size:32;index"`
	Date        time.Time       `gorm:"index;not null"` // 交易日期（按天）
	TimeOfDay   string          `gorm:"size:16"`        // 可选的本地时间，如 "14:30"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
