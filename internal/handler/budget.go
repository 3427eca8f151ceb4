package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"
	"github.com/Siam456/flowtrance-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetHandler 负责预算相关接口。预算是纯报表实体：
// 实际花费在读取时根据当月支出流水聚合，不参与余额一致性。
type BudgetHandler struct {
	DB *gorm.DB
}

func NewBudgetHandler(db *gorm.DB) *BudgetHandler {
	return &BudgetHandler{DB: db}
}

type createBudgetReq struct {
	Category string          `json:"category" binding:"required,max=32"`
	Month    string          `json:"month" binding:"required"` // YYYY-MM
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

type updateBudgetReq struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// budgetResp 预算 + 当月实际花费
type budgetResp struct {
	models.Budget
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Create 新建预算，同一 (类别, 月份) 只能有一条
func (h *BudgetHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		util.Error(c, http.StatusBadRequest, "请选择类别")
		return
	}
	if err := util.ValidateMonth(req.Month); err != nil {
		util.Error(c, http.StatusBadRequest, "月份格式错误，应为 YYYY-MM")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, "请输入有效金额")
		return
	}

	var count int64
	if err := h.DB.Model(&models.Budget{}).
		Where("user_id = ? AND category = ? AND month = ?", user.ID, req.Category, req.Month).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, "该类别本月已有预算")
		return
	}

	budget := models.Budget{
		UserID:   user.ID,
		Category: req.Category,
		Month:    req.Month,
		Amount:   req.Amount,
	}
	if err := h.DB.Create(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusCreated, "预算创建成功", gin.H{
		"budget": budget,
	})
}

// List 预算列表（带当月实际花费），默认当前月份
func (h *BudgetHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	month := c.DefaultQuery("month", time.Now().Format("2006-01"))
	if err := util.ValidateMonth(month); err != nil {
		util.Error(c, http.StatusBadRequest, "月份格式错误，应为 YYYY-MM")
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ? AND month = ?", user.ID, month).
		Order("category ASC").
		Find(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}

	items := make([]budgetResp, 0, len(budgets))
	for _, b := range budgets {
		spent, err := h.spentForBudget(user.ID, b.Category, b.Month)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "统计失败")
			return
		}
		items = append(items, budgetResp{
			Budget:    b,
			Spent:     spent,
			Remaining: b.Amount.Sub(spent),
		})
	}

	util.Success(c, http.StatusOK, "ok", gin.H{
		"month":   month,
		"budgets": items,
	})
}

// Update 修改预算金额
func (h *BudgetHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, "请输入有效金额")
		return
	}

	var budget models.Budget
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&budget).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "记录不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询失败")
		}
		return
	}

	budget.Amount = req.Amount
	if err := h.DB.Save(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "保存失败，请重试")
		return
	}

	util.Success(c, http.StatusOK, "修改成功", gin.H{
		"budget": budget,
	})
}

// Delete 删除预算
func (h *BudgetHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&models.Budget{})
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

// spentForBudget 汇总某类别在某月的支出总额
func (h *BudgetHandler) spentForBudget(userID uint, category, month string) (decimal.Decimal, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return decimal.Zero, err
	}
	end := start.AddDate(0, 1, 0)

	var txns []models.Transaction
	if err := h.DB.Where(
		"user_id = ? AND type = ? AND category = ? AND date >= ? AND date < ?",
		userID, models.TxExpense, category, start, end,
	).Find(&txns).Error; err != nil {
		return decimal.Zero, err
	}

	spent := decimal.Zero
	for _, t := range txns {
		spent = spent.Add(t.Amount)
	}
	return spent, nil
}
