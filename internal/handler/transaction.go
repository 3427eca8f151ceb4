package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"
	"github.com/Siam456/flowtrance-finance-backend/internal/service"
	"github.com/Siam456/flowtrance-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// serviceError 把业务层错误映射为 HTTP 响应（404/403/400/500）
func serviceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		util.Error(c, http.StatusNotFound, "记录不存在")
	case errors.Is(err, service.ErrForbidden):
		util.Error(c, http.StatusForbidden, "无权操作该记录")
	case errors.Is(err, service.ErrValidation):
		util.Error(c, http.StatusBadRequest, "参数错误")
	default:
		util.Error(c, http.StatusInternalServerError, fallback)
	}
}

// parseID 解析路径参数里的记录 ID
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "ID 不合法")
		return 0, false
	}
	return uint(id), true
}

// TransactionHandler 负责流水相关接口
type TransactionHandler struct {
	DB      *gorm.DB
	Service *service.TransactionService
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{
		DB:      db,
		Service: service.NewTransactionService(db),
	}
}

// ---------- 请求结构 ----------

type createTransactionReq struct {
	AccountID   uint            `json:"account_id" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
	Category    string          `json:"category" binding:"required,max=32"`
	Date        string          `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string          `json:"time" binding:"max=16"`   // 可选，如 "14:30"
}

type updateTransactionReq struct {
	Amount      *decimal.Decimal `json:"amount"`
	Type        *string          `json:"type" binding:"omitempty,oneof=income expense"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Category    *string          `json:"category" binding:"omitempty,max=32"`
	Date        *string          `json:"date"`
	Time        *string          `json:"time" binding:"omitempty,max=16"`
}

type transferReq struct {
	FromAccountID uint            `json:"from_account_id" binding:"required"`
	ToAccountID   uint            `json:"to_account_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"max=255"`
	Date          string          `json:"date"`
}

// ---------- 记一笔 ----------

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, "请输入有效金额")
		return
	}
	date, err := util.ValidateDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "日期格式错误，应为 YYYY-MM-DD")
		return
	}

	txn, savings, err := h.Service.Create(user.ID, service.CreateTransactionInput{
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
		TimeOfDay:   req.Time,
	})
	if err != nil {
		serviceError(c, err, "保存失败，请重试")
		return
	}

	// 储蓄副作用失败只记日志，不影响本次请求
	if savings != nil && savings.Err != nil {
		log.Printf("[transaction] savings side effect degraded for user %d: %v", user.ID, savings.Err)
	}

	util.Success(c, http.StatusCreated, "记账成功", gin.H{
		"transaction":  txn,
		"account_name": h.accountName(txn.AccountID),
	})
}

// ---------- 流水列表 ----------

func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var f service.ListTransactionsFilter
	if s := c.Query("start"); s != "" {
		t, err := util.ValidateDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "开始日期格式错误，应为 YYYY-MM-DD")
			return
		}
		f.StartDate = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := util.ValidateDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "结束日期格式错误，应为 YYYY-MM-DD")
			return
		}
		// 结束日期按"当天结束"处理：< end+1 天
		t = t.Add(24 * time.Hour)
		f.EndDate = &t
	}
	if s := c.Query("type"); s == models.TxIncome || s == models.TxExpense || s == models.TxTransfer {
		f.Type = s
	}
	f.Category = c.Query("category")
	if s := c.Query("account_id"); s != "" {
		if id, err := strconv.Atoi(s); err == nil && id > 0 {
			f.AccountID = uint(id)
		}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	f.Limit = limit

	rows, err := h.Service.List(user.ID, f)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}

	util.Success(c, http.StatusOK, "ok", gin.H{
		"items": rows,
		"count": len(rows),
	})
}

// ---------- 修改 ----------

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	in := service.UpdateTransactionInput{
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
		Category:    req.Category,
		TimeOfDay:   req.Time,
	}
	if req.Amount != nil {
		if err := util.ValidateAmount(*req.Amount); err != nil {
			util.Error(c, http.StatusBadRequest, "请输入有效金额")
			return
		}
	}
	if req.Date != nil {
		date, err := util.ValidateDate(*req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		in.Date = &date
	}

	txn, err := h.Service.Update(user.ID, id, in)
	if err != nil {
		serviceError(c, err, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusOK, "修改成功", gin.H{
		"transaction": txn,
	})
}

// ---------- 删除 ----------

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(user.ID, id); err != nil {
		serviceError(c, err, "删除失败")
		return
	}

	util.Success(c, http.StatusOK, "删除成功", nil)
}

// ---------- 转账 ----------

func (h *TransactionHandler) Transfer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req transferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, "请输入有效金额")
		return
	}
	date := time.Now()
	if req.Date != "" {
		t, err := util.ValidateDate(req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		date = t
	}

	txn, err := h.Service.Transfer(user.ID, req.FromAccountID, req.ToAccountID, req.Amount, req.Description, date)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			util.Error(c, http.StatusBadRequest, "转出和转入账户不能相同")
			return
		}
		serviceError(c, err, "转账失败，请重试")
		return
	}

	util.Success(c, http.StatusCreated, "转账成功", gin.H{
		"transaction": txn,
	})
}

func (h *TransactionHandler) accountName(accountID uint) string {
	var acct models.Account
	if err := h.DB.Select("name").First(&acct, accountID).Error; err != nil {
		return service.DeletedAccountName
	}
	return acct.Name
}
