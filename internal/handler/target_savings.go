package handler

import (
	"net/http"
	"strings"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"
	"github.com/Siam456/flowtrance-finance-backend/internal/service"
	"github.com/Siam456/flowtrance-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TargetSavingsHandler 负责储蓄目标相关接口。
// CurrentAmount 只由储蓄引擎驱动，这里只允许编辑配置字段。
type TargetSavingsHandler struct {
	DB      *gorm.DB
	Savings *service.SavingsService
}

func NewTargetSavingsHandler(db *gorm.DB) *TargetSavingsHandler {
	return &TargetSavingsHandler{
		DB:      db,
		Savings: service.NewSavingsService(db),
	}
}

type createTargetReq struct {
	AccountID    uint            `json:"account_id" binding:"required"`
	Title        string          `json:"title" binding:"required,max=64"`
	TargetAmount decimal.Decimal `json:"target_amount" binding:"required"`
	Color        string          `json:"color" binding:"max=16"`
}

type updateTargetReq struct {
	Title    *string `json:"title" binding:"omitempty,max=64"`
	Color    *string `json:"color" binding:"omitempty,max=16"`
	IsActive *bool   `json:"is_active"`
}

// Create 新建储蓄目标，进度从 0 开始
func (h *TargetSavingsHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTargetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		util.Error(c, http.StatusBadRequest, "请输入目标名称")
		return
	}
	if err := util.ValidateAmount(req.TargetAmount); err != nil {
		util.Error(c, http.StatusBadRequest, "请输入有效的目标金额")
		return
	}

	// 关联账户必须属于当前用户
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

	target := models.TargetSavings{
		UserID:        user.ID,
		AccountID:     req.AccountID,
		Title:         req.Title,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: decimal.Zero,
		Color:         req.Color,
		IsActive:      true,
	}
	if err := h.DB.Create(&target).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusCreated, "目标创建成功", gin.H{
		"target": target,
	})
}

// List 储蓄目标列表 + 可支配金额总览
func (h *TargetSavingsHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var targets []models.TargetSavings
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&targets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}

	available, err := h.Savings.AvailableForSpending(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "统计失败")
		return
	}

	util.Success(c, http.StatusOK, "ok", gin.H{
		"targets":                targets,
		"available_for_spending": available,
	})
}

// Update 修改目标的配置字段（标题/颜色/启停）。
// 目标金额建目标时定下后不再修改，进度由引擎维护。
func (h *TargetSavingsHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateTargetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	var target models.TargetSavings
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&target).Error; err != nil {
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
			util.Error(c, http.StatusBadRequest, "请输入目标名称")
			return
		}
		target.Title = title
	}
	if req.Color != nil {
		target.Color = *req.Color
	}
	if req.IsActive != nil {
		target.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&target).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusOK, "修改成功", gin.H{
		"target": target,
	})
}

// Delete 停用目标（软删除），退出扣减/进度更新的作用范围
func (h *TargetSavingsHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	res := h.DB.Model(&models.TargetSavings{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Update("is_active", false)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "删除失败")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "记录不存在")
		return
	}

	util.Success(c, http.StatusOK, "目标已停用", nil)
}
