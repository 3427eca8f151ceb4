package service

import (
	"errors"
	"testing"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"
)

// 收入加余额、支出减余额，删除时原样冲正。
func TestTransactionBalanceRoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acct := seedAccount(t, db, user.ID, "工资卡", "1000")
	svc := NewTransactionService(db)

	income, _, err := svc.Create(user.ID, CreateTransactionInput{
		AccountID: acct.ID,
		Type:      models.TxIncome,
		Amount:    dec(t, "250.50"),
		Category:  "Salary",
		Date:      day(t, "2026-08-01"),
	})
	if err != nil {
		t.Fatalf("创建收入失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "1250.50", "收入后余额")

	expense, _, err := svc.Create(user.ID, CreateTransactionInput{
		AccountID: acct.ID,
		Type:      models.TxExpense,
		Amount:    dec(t, "100.50"),
		Category:  "Food",
		Date:      day(t, "2026-08-02"),
	})
	if err != nil {
		t.Fatalf("创建支出失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "1150", "支出后余额")

	if expense.Reference == "" || expense.Reference == income.Reference {
		t.Errorf("引用号应非空且唯一, got %q / %q", income.Reference, expense.Reference)
	}

	// 删除冲正：删掉支出应把 100.50 加回来
	if err := svc.Delete(user.ID, expense.ID); err != nil {
		t.Fatalf("删除支出失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "1250.50", "冲正后余额")

	if err := svc.Delete(user.ID, income.ID); err != nil {
		t.Fatalf("删除收入失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "1000", "全部冲正后余额")
}

// 修改金额/类型按净差额一次性调整余额。
func TestTransactionUpdateNetDelta(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acct := seedAccount(t, db, user.ID, "现金", "500")
	svc := NewTransactionService(db)

	txn, _, err := svc.Create(user.ID, CreateTransactionInput{
		AccountID: acct.ID,
		Type:      models.TxExpense,
		Amount:    dec(t, "100"),
		Date:      day(t, "2026-08-10"),
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "400", "初始支出后余额")

	// 100 支出 -> 60 支出：净差额 +40
	amount := dec(t, "60")
	if _, err := svc.Update(user.ID, txn.ID, UpdateTransactionInput{Amount: &amount}); err != nil {
		t.Fatalf("改金额失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "440", "改小金额后余额")

	// 60 支出 -> 60 收入：净差额 +120
	newType := models.TxIncome
	if _, err := svc.Update(user.ID, txn.ID, UpdateTransactionInput{Type: &newType}); err != nil {
		t.Fatalf("改类型失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "560", "改类型后余额")
}

// 账户被硬删除后：修改/删除流水跳过余额调整，列表用占位账户名兜底。
func TestTransactionSurvivesDeletedAccount(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acct := seedAccount(t, db, user.ID, "临时卡", "300")
	svc := NewTransactionService(db)

	txn, _, err := svc.Create(user.ID, CreateTransactionInput{
		AccountID: acct.ID,
		Type:      models.TxExpense,
		Amount:    dec(t, "50"),
		Date:      day(t, "2026-08-10"),
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if err := db.Delete(&models.Account{}, acct.ID).Error; err != nil {
		t.Fatalf("硬删账户失败: %v", err)
	}

	amount := dec(t, "80")
	if _, err := svc.Update(user.ID, txn.ID, UpdateTransactionInput{Amount: &amount}); err != nil {
		t.Fatalf("账户没了也应允许改流水: %v", err)
	}
	if err := svc.Delete(user.ID, txn.ID); err != nil {
		t.Fatalf("账户没了也应允许删流水: %v", err)
	}

	// 留一条孤儿流水验证列表兜底
	orphan, _, err := func() (*models.Transaction, *SavingsEffect, error) {
		acct2 := seedAccount(t, db, user.ID, "又一张卡", "100")
		txn2, eff, err := svc.Create(user.ID, CreateTransactionInput{
			AccountID: acct2.ID,
			Type:      models.TxIncome,
			Amount:    dec(t, "10"),
			Date:      day(t, "2026-08-11"),
		})
		if err == nil {
			err = db.Delete(&models.Account{}, acct2.ID).Error
		}
		return txn2, eff, err
	}()
	if err != nil {
		t.Fatalf("准备孤儿流水失败: %v", err)
	}

	rows, err := svc.List(user.ID, ListTransactionsFilter{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	found := false
	for _, r := range rows {
		if r.ID == orphan.ID {
			found = true
			if r.AccountName != DeletedAccountName {
				t.Errorf("孤儿流水账户名 = %q, 期望 %q", r.AccountName, DeletedAccountName)
			}
		}
	}
	if !found {
		t.Error("账户删除后流水应仍可查询")
	}
}

// 支出触发储蓄副作用：先按缺口扣减，再把支出金额累加进度。
// 例：余额 100，目标 80（进度 50），支出 60 -> 余额 40，缺口 40，
// 进度 50 - 40 + 60 = 70。
func TestExpenseTriggersSavingsSideEffects(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acct := seedAccount(t, db, user.ID, "主卡", "100")
	target := seedTarget(t, db, user.ID, acct.ID, "买相机", "80", "50")
	svc := NewTransactionService(db)

	_, eff, err := svc.Create(user.ID, CreateTransactionInput{
		AccountID: acct.ID,
		Type:      models.TxExpense,
		Amount:    dec(t, "60"),
		Date:      day(t, "2026-08-15"),
	})
	if err != nil {
		t.Fatalf("创建支出失败: %v", err)
	}
	if eff == nil || !eff.Attempted {
		t.Fatal("支出应触发储蓄副作用")
	}
	if eff.Err != nil {
		t.Fatalf("副作用不应失败: %v", eff.Err)
	}
	wantDecimal(t, eff.Deficit, "40", "超支缺口")
	wantDecimal(t, eff.Deducted, "40", "实际扣减")
	wantDecimal(t, accountBalance(t, db, acct.ID), "40", "支出后余额")
	wantDecimal(t, targetCurrent(t, db, target.ID), "70", "扣减后再累加的进度")

	// 收入不触发副作用
	_, eff, err = svc.Create(user.ID, CreateTransactionInput{
		AccountID: acct.ID,
		Type:      models.TxIncome,
		Amount:    dec(t, "10"),
		Date:      day(t, "2026-08-16"),
	})
	if err != nil {
		t.Fatalf("创建收入失败: %v", err)
	}
	if eff != nil {
		t.Error("收入不应触发储蓄副作用")
	}
}

// 多个目标时缺口只由进度最高的承担，随后进度累加作用到全部目标。
// 例：余额 1000，目标 500+400（进度 500/200），支出 150 -> 余额 850，
// 缺口 900-850=50，从进度高的扣：500-50+150=600，另一个 200+150=350。
func TestExpenseDeficitHitsRichestTargetFirst(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acct := seedAccount(t, db, user.ID, "主卡", "1000")
	rich := seedTarget(t, db, user.ID, acct.ID, "大目标", "500", "500")
	poor := seedTarget(t, db, user.ID, acct.ID, "小目标", "400", "200")
	svc := NewTransactionService(db)

	_, eff, err := svc.Create(user.ID, CreateTransactionInput{
		AccountID: acct.ID,
		Type:      models.TxExpense,
		Amount:    dec(t, "150"),
		Date:      day(t, "2026-08-15"),
	})
	if err != nil {
		t.Fatalf("创建支出失败: %v", err)
	}
	if eff == nil || eff.Err != nil {
		t.Fatalf("副作用应成功执行, got %+v", eff)
	}
	wantDecimal(t, eff.Deficit, "50", "超支缺口")
	wantDecimal(t, eff.Deducted, "50", "实际扣减")
	wantDecimal(t, accountBalance(t, db, acct.ID), "850", "支出后余额")
	wantDecimal(t, targetCurrent(t, db, rich.ID), "600", "高进度目标")
	wantDecimal(t, targetCurrent(t, db, poor.ID), "350", "低进度目标")
}

// 转账只生成一条 transfer 流水，净效果为零。
func TestTransfer(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	from := seedAccount(t, db, user.ID, "银行卡", "500")
	to := seedAccount(t, db, user.ID, "现金", "100")
	svc := NewTransactionService(db)

	txn, err := svc.Transfer(user.ID, from.ID, to.ID, dec(t, "120"), "取现", day(t, "2026-08-20"))
	if err != nil {
		t.Fatalf("转账失败: %v", err)
	}
	if txn.Type != models.TxTransfer {
		t.Errorf("流水类型 = %q, 期望 transfer", txn.Type)
	}
	if txn.ToAccountID == nil || *txn.ToAccountID != to.ID {
		t.Error("转账流水应记录转入账户")
	}
	wantDecimal(t, accountBalance(t, db, from.ID), "380", "出账余额")
	wantDecimal(t, accountBalance(t, db, to.ID), "220", "入账余额")

	var count int64
	db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("转账应只生成 1 条流水, got %d", count)
	}

	// 同账户转账拒绝
	if _, err := svc.Transfer(user.ID, from.ID, from.ID, dec(t, "10"), "", day(t, "2026-08-20")); !errors.Is(err, ErrValidation) {
		t.Errorf("同账户转账应返回 ErrValidation, got %v", err)
	}
}

// 归属校验：别人的账户/流水一律按不存在处理。
func TestTransactionOwnership(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	acct := seedAccount(t, db, alice.ID, "alice的卡", "100")
	svc := NewTransactionService(db)

	if _, _, err := svc.Create(bob.ID, CreateTransactionInput{
		AccountID: acct.ID,
		Type:      models.TxIncome,
		Amount:    dec(t, "10"),
		Date:      day(t, "2026-08-01"),
	}); !errors.Is(err, ErrNotFound) {
		t.Errorf("用别人的账户记账应返回 ErrNotFound, got %v", err)
	}

	txn, _, err := svc.Create(alice.ID, CreateTransactionInput{
		AccountID: acct.ID,
		Type:      models.TxIncome,
		Amount:    dec(t, "10"),
		Date:      day(t, "2026-08-01"),
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if err := svc.Delete(bob.ID, txn.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("删别人的流水应返回 ErrNotFound, got %v", err)
	}
}
