package handler

import (
	"net/http"
	"strings"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"
	"github.com/Siam456/flowtrance-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FixedExpenseHandler 负责固定支出相关接口（房租、订阅等）。
// 固定支出只用于展示，不会自动产生流水。
type FixedExpenseHandler struct {
	DB *gorm.DB
}

func NewFixedExpenseHandler(db *gorm.DB) *FixedExpenseHandler {
	return &FixedExpenseHandler{DB: db}
}

type createFixedExpenseReq struct {
	AccountID uint            `json:"account_id" binding:"required"`
	Title     string          `json:"title" binding:"required,max=64"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Category  string          `json:"category" binding:"max=32"`
	DueDay    int             `json:"due_day" binding:"omitempty,min=1,max=28"`
}

type updateFixedExpenseReq struct {
	Title    *string          `json:"title" binding:"omitempty,max=64"`
	Amount   *decimal.Decimal `json:"amount"`
	Category *string          `json:"category" binding:"omitempty,max=32"`
	DueDay   *int             `json:"due_day" binding:"omitempty,min=1,max=28"`
	IsActive *bool            `json:"is_active"`
}

// Create 新建固定支出
func (h *FixedExpenseHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createFixedExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		util.Error(c, http.StatusBadRequest, "请输入名称")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, "请输入有效金额")
		return
	}

	var acct models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", req.AccountID, user.ID).
		First(&acct).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "账户不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询失败")
		}
		return
	}

	dueDay := req.DueDay
	if dueDay == 0 {
		dueDay = 1
	}

	fe := models.FixedExpense{
		UserID:    user.ID,
		AccountID: req.AccountID,
		Title:     req.Title,
		Amount:    req.Amount,
		Category:  req.Category,
		DueDay:    dueDay,
		IsActive:  true,
	}
	if err := h.DB.Create(&fe).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusCreated, "固定支出创建成功", gin.H{
		"fixed_expense": fe,
	})
}

// List 固定支出列表，附带每月合计
func (h *FixedExpenseHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var items []models.FixedExpense
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("due_day ASC, created_at ASC").
		Find(&items).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}

	monthlyTotal := decimal.Zero
	for _, fe := range items {
		if fe.IsActive {
			monthlyTotal = monthlyTotal.Add(fe.Amount)
		}
	}

	util.Success(c, http.StatusOK, "ok", gin.H{
		"items":         items,
		"monthly_total": monthlyTotal,
	})
}

// Update 修改固定支出
func (h *FixedExpenseHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateFixedExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	var fe models.FixedExpense
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&fe).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "记录不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询失败")
		}
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			util.Error(c, http.StatusBadRequest, "请输入名称")
			return
		}
		fe.Title = title
	}
	if req.Amount != nil {
		if err := util.ValidateAmount(*req.Amount); err != nil {
			util.Error(c, http.StatusBadRequest, "请输入有效金额")
			return
		}
		fe.Amount = *req.Amount
	}
	if req.Category != nil {
		fe.Category = *req.Category
	}
	if req.DueDay != nil {
		fe.DueDay = *req.DueDay
	}
	if req.IsActive != nil {
		fe.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&fe).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusOK, "修改成功", gin.H{
		"fixed_expense": fe,
	})
}

// Delete 删除固定支出
func (h *FixedExpenseHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&models.FixedExpense{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "删除失败")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "记录不存在")
		return
	}

	util.Success(c, http.StatusOK, "删除成功", nil)
}
