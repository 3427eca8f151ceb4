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

// AccountHandler 负责账户相关接口。
// 注意：余额字段不接受直接修改，只能由流水/借贷/转账驱动。
type AccountHandler struct {
	DB              *gorm.DB
	DefaultCurrency string
}

func NewAccountHandler(db *gorm.DB, defaultCurrency string) *AccountHandler {
	if defaultCurrency == "" {
		defaultCurrency = "BDT"
	}
	return &AccountHandler{DB: db, DefaultCurrency: defaultCurrency}
}

type createAccountReq struct {
	Name     string          `json:"name" binding:"required,max=64"`
	Type     string          `json:"type" binding:"required"`
	Balance  decimal.Decimal `json:"balance"` // 初始余额，可为 0
	Currency string          `json:"currency" binding:"max=8"`
}

type updateAccountReq struct {
	Name     *string `json:"name" binding:"omitempty,max=64"`
	Type     *string `json:"type"`
	Currency *string `json:"currency" binding:"omitempty,max=8"`
	IsActive *bool   `json:"is_active"`
}

// Create 新建账户
func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, "请输入账户名称")
		return
	}
	if err := util.ValidateAccountType(req.Type); err != nil {
		util.Error(c, http.StatusBadRequest, "账户类型必须为 bank/cash/credit/mobile")
		return
	}
	if req.Balance.IsNegative() {
		util.Error(c, http.StatusBadRequest, "初始余额不能为负数")
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = h.DefaultCurrency
	}

	acct := models.Account{
		UserID:   user.ID,
		Name:     req.Name,
		Type:     req.Type,
		Balance:  req.Balance,
		Currency: currency,
		IsActive: true,
	}
	if err := h.DB.Create(&acct).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusCreated, "账户创建成功", gin.H{
		"account": acct,
	})
}

// List 账户列表，附带总余额
func (h *AccountHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}

	total := decimal.Zero
	for _, a := range accounts {
		if a.IsActive {
			total = total.Add(a.Balance)
		}
	}

	util.Success(c, http.StatusOK, "ok", gin.H{
		"accounts":      accounts,
		"total_balance": total,
	})
}

// Update 修改账户资料（不含余额）
func (h *AccountHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	var acct models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&acct).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "记录不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询失败")
		}
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			util.Error(c, http.StatusBadRequest, "请输入账户名称")
			return
		}
		acct.Name = name
	}
	if req.Type != nil {
		if err := util.ValidateAccountType(*req.Type); err != nil {
			util.Error(c, http.StatusBadRequest, "账户类型必须为 bank/cash/credit/mobile")
			return
		}
		acct.Type = *req.Type
	}
	if req.Currency != nil && *req.Currency != "" {
		acct.Currency = *req.Currency
	}
	if req.IsActive != nil {
		acct.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&acct).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusOK, "修改成功", gin.H{
		"account": acct,
	})
}

// Delete 硬删除账户。允许在仍有流水/借贷引用时删除，
// 读取侧用占位名称兜底（见 service.DeletedAccountName）。
func (h *AccountHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&models.Account{})
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
