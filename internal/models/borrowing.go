package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 借贷方向
const (
	BorrowingBorrowed = "borrowed" // 借入
	BorrowingLent     = "lent"     // 借出
)

// 借贷相关的镜像/结算流水类别
const (
	CategoryBorrowedMoney  = "Borrowed Money"
	CategoryLentMoney      = "Lent Money"
	CategoryLoanRepayment  = "Loan Repayment"
	CategoryLoanCollection = "Loan Collection"
)

// Borrowing represents a borrow/lend record against a counterparty.
// 不变式：IsPaid=true 时恰好存在一条结算流水（RepaymentTransactionID 指向它），
// IsPaid=false 时不存在。
type Borrowing struct {
	ID              uint            `gorm:"primaryKey"`
	UserID          uint            `gorm:"index;not null"`
	AccountID       uint            `gorm:"index;not null"`
	PersonName      string          `gorm:"size:64;not null"`
	Type            string          `gorm:"size:16;not null"` // borrowed / lent
	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Description     string          `gorm:"size:255"`
	TransactionDate time.Time       `gorm:"not null"`
	DueDate         *time.Time
	IsPaid          bool       `gorm:"index;default:false"`
	PaidDate        *time.Time
	// 结算流水 ID，标记已还时写入，取消时清空
	RepaymentTransactionID *uint
	IsActive               bool `gorm:"index;default:true"` // 软删除标记
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
