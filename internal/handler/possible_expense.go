package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"
	"github.com/Siam456/flowtrance-finance-backend/internal/service"
	"github.com/Siam456/flowtrance-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PossibleExpenseHandler 负责计划支出相关接口
type PossibleExpenseHandler struct {
	DB      *gorm.DB
	Service *service.PossibleExpenseService
}

func NewPossibleExpenseHandler(db *gorm.DB) *PossibleExpenseHandler {
	return &PossibleExpenseHandler{
		DB:      db,
		Service: service.NewPossibleExpenseService(db),
	}
}

type createPossibleExpenseReq struct {
	AccountID      uint            `json:"account_id" binding:"required"`
	Title          string          `json:"title" binding:"required,max=64"`
	ExpectedAmount decimal.Decimal `json:"expected_amount" binding:"required"`
	Category       string          `json:"category" binding:"max=32"`
	Notes          string          `json:"notes" binding:"max=255"`
}

type updatePossibleExpenseReq struct {
	Title          *string          `json:"title" binding:"omitempty,max=64"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount"`
	Category       *string          `json:"category" binding:"omitempty,max=32"`
	Notes          *string          `json:"notes" binding:"omitempty,max=255"`
}

type convertPossibleExpenseReq struct {
	Amount      *decimal.Decimal `json:"amount"`      // 不传用预期金额
	Description *string          `json:"description"` // 不传用计划标题
	Date        *string          `json:"date"`        // 不传用当前时间
}

// Create 新建计划支出
func (h *PossibleExpenseHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createPossibleExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		util.Error(c, http.StatusBadRequest, "请输入名称")
		return
	}
	if err := util.ValidateAmount(req.ExpectedAmount); err != nil {
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

	plan := models.PossibleExpense{
		UserID:         user.ID,
		AccountID:      req.AccountID,
		Title:          req.Title,
		ExpectedAmount: req.ExpectedAmount,
		Category:       req.Category,
		Notes:          req.Notes,
	}
	if err := h.DB.Create(&plan).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusCreated, "计划支出创建成功", gin.H{
		"possible_expense": plan,
	})
}

// List 计划支出列表
func (h *PossibleExpenseHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var items []models.PossibleExpense
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}

	util.Success(c, http.StatusOK, "ok", gin.H{
		"items": items,
		"count": len(items),
	})
}

// Update 修改计划支出
func (h *PossibleExpenseHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updatePossibleExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	var plan models.PossibleExpense
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&plan).Error; err != nil {
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
		plan.Title = title
	}
	if req.ExpectedAmount != nil {
		if err := util.ValidateAmount(*req.ExpectedAmount); err != nil {
			util.Error(c, http.StatusBadRequest, "请输入有效金额")
			return
		}
		plan.ExpectedAmount = *req.ExpectedAmount
	}
	if req.Category != nil {
		plan.Category = *req.Category
	}
	if req.Notes != nil {
		plan.Notes = *req.Notes
	}

	if err := h.DB.Save(&plan).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusOK, "修改成功", gin.H{
		"possible_expense": plan,
	})
}

// Delete 删除计划支出（未转实的直接物理删除）
func (h *PossibleExpenseHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&models.PossibleExpense{})
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

// Convert 把计划支出转成真实支出流水，计划随之消失
func (h *PossibleExpenseHandler) Convert(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	// 允许空请求体，直接按计划内容转换
	var req convertPossibleExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	in := service.ConvertInput{
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Amount != nil {
		if err := util.ValidateAmount(*req.Amount); err != nil {
			util.Error(c, http.StatusBadRequest, "请输入有效金额")
			return
		}
	}
	if req.Date != nil && *req.Date != "" {
		t, err := util.ValidateDate(*req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		in.Date = &t
	}

	txn, err := h.Service.Convert(user.ID, id, in)
	if err != nil {
		serviceError(c, err, "转换失败，请重试")
		return
	}

	util.Success(c, http.StatusCreated, "已转为支出流水", gin.H{
		"transaction": txn,
	})
}
