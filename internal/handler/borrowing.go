package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/Siam456/flowtrance-finance-backend/internal/service"
	"github.com/Siam456/flowtrance-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BorrowingHandler 负责借入/借出相关接口
type BorrowingHandler struct {
	DB      *gorm.DB
	Service *service.BorrowingService
}

func NewBorrowingHandler(db *gorm.DB) *BorrowingHandler {
	return &BorrowingHandler{
		DB:      db,
		Service: service.NewBorrowingService(db),
	}
}

type createBorrowingReq struct {
	PersonName      string          `json:"person_name" binding:"required,max=64"`
	Type            string          `json:"type" binding:"required,oneof=borrowed lent"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	AccountID       uint            `json:"account_id" binding:"required"`
	Description     string          `json:"description" binding:"max=255"`
	TransactionDate string          `json:"transaction_date" binding:"required"` // YYYY-MM-DD
	DueDate         string          `json:"due_date"`                            // 可选
}

type updateBorrowingReq struct {
	PersonName      *string          `json:"person_name" binding:"omitempty,max=64"`
	Type            *string          `json:"type" binding:"omitempty,oneof=borrowed lent"`
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description" binding:"omitempty,max=255"`
	TransactionDate *string          `json:"transaction_date"`
	DueDate         *string          `json:"due_date"`
}

type togglePaidReq struct {
	IsPaid *bool `json:"is_paid" binding:"required"`
}

// Create 新建借贷记录
func (h *BorrowingHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createBorrowingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	req.PersonName = strings.TrimSpace(req.PersonName)
	if req.PersonName == "" {
		util.Error(c, http.StatusBadRequest, "请输入对方姓名")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, "请输入有效金额")
		return
	}
	txnDate, err := util.ValidateDate(req.TransactionDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "交易日期格式错误，应为 YYYY-MM-DD")
		return
	}
	var dueDate *time.Time
	if req.DueDate != "" {
		t, err := util.ValidateDate(req.DueDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "到期日期格式错误，应为 YYYY-MM-DD")
			return
		}
		dueDate = &t
	}

	rec, err := h.Service.Create(user.ID, service.CreateBorrowingInput{
		PersonName:      req.PersonName,
		Type:            req.Type,
		Amount:          req.Amount,
		AccountID:       req.AccountID,
		Description:     req.Description,
		TransactionDate: txnDate,
		DueDate:         dueDate,
	})
	if err != nil {
		serviceError(c, err, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusCreated, "借贷记录创建成功", gin.H{
		"borrowing": rec,
	})
}

// List 借贷记录列表
func (h *BorrowingHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := h.Service.List(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}

	util.Success(c, http.StatusOK, "ok", gin.H{
		"items": rows,
		"count": len(rows),
	})
}

// Update 修改借贷记录
func (h *BorrowingHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateBorrowingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	in := service.UpdateBorrowingInput{
		PersonName:  req.PersonName,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Amount != nil {
		if err := util.ValidateAmount(*req.Amount); err != nil {
			util.Error(c, http.StatusBadRequest, "请输入有效金额")
			return
		}
	}
	if req.TransactionDate != nil {
		t, err := util.ValidateDate(*req.TransactionDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "交易日期格式错误，应为 YYYY-MM-DD")
			return
		}
		in.TransactionDate = &t
	}
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := util.ValidateDate(*req.DueDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "到期日期格式错误，应为 YYYY-MM-DD")
			return
		}
		in.DueDate = &t
	}

	rec, err := h.Service.Update(user.ID, id, in)
	if err != nil {
		serviceError(c, err, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusOK, "修改成功", gin.H{
		"borrowing": rec,
	})
}

// TogglePaid 标记已还 / 取消已还
func (h *BorrowingHandler) TogglePaid(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req togglePaidReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IsPaid == nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	rec, err := h.Service.TogglePaid(user.ID, id, *req.IsPaid)
	if err != nil {
		serviceError(c, err, "操作失败，请重试")
		return
	}

	msg := "已标记为未还"
	if rec.IsPaid {
		msg = "已标记为已还"
	}
	util.Success(c, http.StatusOK, msg, gin.H{
		"borrowing": rec,
	})
}

// Delete 删除借贷记录（软删除）
func (h *BorrowingHandler) Delete(c *gin.Context) {
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
