package service

import (
	"log"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SavingsService 维护储蓄目标的进度：超支扣减 + 支出进度累加。
// 这两个副作用都是尽力而为的，失败只记录日志，绝不影响主流水的结果。
type SavingsService struct {
	DB *gorm.DB
}

func NewSavingsService(db *gorm.DB) *SavingsService {
	return &SavingsService{DB: db}
}

// SavingsEffect 描述一次支出触发的储蓄副作用结果。
// handler 只记录日志，不据此返回失败；测试据此断言副作用确实执行过。
type SavingsEffect struct {
	Attempted bool
	Deficit   decimal.Decimal // 超支缺口（<=0 表示没有超支）
	Deducted  decimal.Decimal // 实际从目标里扣掉的总额
	Err       error
}

// RunExpenseSideEffects 在一笔支出创建后同步执行：
// 1) 超支检查，有缺口就按策略扣减目标进度；
// 2) 无条件把支出金额累加到所有活跃目标的进度上。
// 第 2 步与第 1 步叠加是沿用的历史行为，为兼容性保留，勿"修复"。
func (s *SavingsService) RunExpenseSideEffects(userID uint, amount decimal.Decimal) *SavingsEffect {
	eff := &SavingsEffect{Attempted: true, Deficit: decimal.Zero, Deducted: decimal.Zero}

	deficit, deducted, err := s.EvaluateOverspend(userID)
	eff.Deficit = deficit
	eff.Deducted = deducted
	if err != nil {
		eff.Err = err
		log.Printf("[savings] overspend check failed for user %d: %v", userID, err)
	}

	if err := s.ApplyExpenseProgress(userID, amount); err != nil {
		eff.Err = err
		log.Printf("[savings] progress update failed for user %d: %v", userID, err)
	}
	return eff
}

// EvaluateOverspend 计算超支缺口：活跃目标的目标金额之和 - 活跃账户余额之和。
// 缺口为正时触发扣减，返回缺口和实际扣减总额。
func (s *SavingsService) EvaluateOverspend(userID uint) (decimal.Decimal, decimal.Decimal, error) {
	var accounts []models.Account
	if err := s.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&accounts).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}

	var targets []models.TargetSavings
	if err := s.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&targets).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	committed := decimal.Zero
	for _, t := range targets {
		committed = committed.Add(t.TargetAmount)
	}

	deficit := committed.Sub(total)
	if !deficit.IsPositive() {
		return deficit, decimal.Zero, nil
	}

	deducted, err := s.DeductFromSavings(userID, deficit)
	return deficit, deducted, err
}

// DeductFromSavings 把缺口从活跃目标的进度里扣掉。
// 顺序：CurrentAmount 从高到低，相同时新建的在前 —— 存得最多的目标先承担，
// 保护刚起步的小目标。每个目标最多扣到 0，目标不够覆盖时剩余缺口直接放弃。
func (s *SavingsService) DeductFromSavings(userID uint, deficit decimal.Decimal) (decimal.Decimal, error) {
	var targets []models.TargetSavings
	if err := s.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("current_amount DESC, created_at DESC").
		Find(&targets).Error; err != nil {
		return decimal.Zero, err
	}

	remaining := deficit
	deducted := decimal.Zero
	for i := range targets {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(targets[i].CurrentAmount, remaining)
		if !take.IsPositive() {
			continue
		}
		targets[i].CurrentAmount = targets[i].CurrentAmount.Sub(take)
		if err := s.DB.Model(&targets[i]).
			Update("current_amount", targets[i].CurrentAmount).Error; err != nil {
			return deducted, err
		}
		remaining = remaining.Sub(take)
		deducted = deducted.Add(take)
	}
	return deducted, nil
}

// ApplyExpenseProgress 把支出金额累加到该用户所有活跃目标的进度上，
// 不设上限，也不检查目标关联的账户。
func (s *SavingsService) ApplyExpenseProgress(userID uint, amount decimal.Decimal) error {
	var targets []models.TargetSavings
	if err := s.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&targets).Error; err != nil {
		return err
	}
	for i := range targets {
		targets[i].CurrentAmount = targets[i].CurrentAmount.Add(amount)
		if err := s.DB.Model(&targets[i]).
			Update("current_amount", targets[i].CurrentAmount).Error; err != nil {
			return err
		}
	}
	return nil
}

// AvailableForSpending 返回"可随意支配"的金额：
// 活跃账户余额之和 - 活跃目标的目标金额之和。
// 与 EvaluateOverspend 用同一口径，保证看板和扣减引擎对"是否超支"口径一致。
func (s *SavingsService) AvailableForSpending(userID uint) (decimal.Decimal, error) {
	var accounts []models.Account
	if err := s.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&accounts).Error; err != nil {
		return decimal.Zero, err
	}
	available := decimal.Zero
	for _, a := range accounts {
		available = available.Add(a.Balance)
	}

	var targets []models.TargetSavings
	if err := s.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&targets).Error; err != nil {
		return decimal.Zero, err
	}
	for _, t := range targets {
		available = available.Sub(t.TargetAmount)
	}
	return available, nil
}
