package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"
	"github.com/Siam456/flowtrance-finance-backend/internal/service"
	"github.com/Siam456/flowtrance-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardHandler 聚合看板接口。
// 各项统计互相独立，没有顺序依赖，用 goroutine 并发读出后合并返回。
type DashboardHandler struct {
	DB           *gorm.DB
	Transactions *service.TransactionService
	Savings      *service.SavingsService
	Borrowings   *service.BorrowingService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		DB:           db,
		Transactions: service.NewTransactionService(db),
		Savings:      service.NewSavingsService(db),
		Borrowings:   service.NewBorrowingService(db),
	}
}

// monthTotals 当月收支合计
type monthTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Get 返回聚合看板数据
func (h *DashboardHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var (
		wg sync.WaitGroup
		mu sync.Mutex

		accounts     []models.Account
		totalBalance decimal.Decimal
		month        monthTotals
		recent       []service.TransactionRow
		targets      []models.TargetSavings
		available    decimal.Decimal
		unpaid       []service.BorrowingRow
		firstErr     error
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(5)

	// 账户与总余额
	go func() {
		defer wg.Done()
		var list []models.Account
		if err := h.DB.Where("user_id = ?", user.ID).
			Order("created_at ASC").Find(&list).Error; err != nil {
			fail(err)
			return
		}
		total := decimal.Zero
		for _, a := range list {
			if a.IsActive {
				total = total.Add(a.Balance)
			}
		}
		mu.Lock()
		accounts, totalBalance = list, total
		mu.Unlock()
	}()

	// 当月收支
	go func() {
		defer wg.Done()
		var txns []models.Transaction
		if err := h.DB.Where(
			"user_id = ? AND date >= ? AND date < ? AND type IN ?",
			user.ID, monthStart, monthEnd, []string{models.TxIncome, models.TxExpense},
		).Find(&txns).Error; err != nil {
			fail(err)
			return
		}
		var m monthTotals
		m.Income, m.Expense = decimal.Zero, decimal.Zero
		for _, t := range txns {
			if t.Type == models.TxIncome {
				m.Income = m.Income.Add(t.Amount)
			} else {
				m.Expense = m.Expense.Add(t.Amount)
			}
		}
		m.Net = m.Income.Sub(m.Expense)
		mu.Lock()
		month = m
		mu.Unlock()
	}()

	// 最近流水
	go func() {
		defer wg.Done()
		rows, err := h.Transactions.List(user.ID, service.ListTransactionsFilter{Limit: 5})
		if err != nil {
			fail(err)
			return
		}
		mu.Lock()
		recent = rows
		mu.Unlock()
	}()

	// 储蓄目标与可支配金额
	go func() {
		defer wg.Done()
		var list []models.TargetSavings
		if err := h.DB.Where("user_id = ? AND is_active = ?", user.ID, true).
			Order("created_at ASC").Find(&list).Error; err != nil {
			fail(err)
			return
		}
		avail, err := h.Savings.AvailableForSpending(user.ID)
		if err != nil {
			fail(err)
			return
		}
		mu.Lock()
		targets, available = list, avail
		mu.Unlock()
	}()

	// 未还借贷
	go func() {
		defer wg.Done()
		rows, err := h.Borrowings.List(user.ID)
		if err != nil {
			fail(err)
			return
		}
		open := make([]service.BorrowingRow, 0, len(rows))
		for _, r := range rows {
			if !r.IsPaid {
				open = append(open, r)
			}
		}
		mu.Lock()
		unpaid = open
		mu.Unlock()
	}()

	wg.Wait()

	if firstErr != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}

	util.Success(c, http.StatusOK, "ok", gin.H{
		"accounts":      accounts,
		"total_balance": totalBalance,
		"month":         month,
		"recent_transactions": recent,
		"savings": gin.H{
			"targets":                targets,
			"available_for_spending": available,
		},
		"unpaid_borrowings": unpaid,
	})
}
