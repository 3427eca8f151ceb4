package service

import (
	"errors"
	"testing"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"
)

// 借入加余额并生成收入镜像流水；借出减余额并生成支出镜像流水。
func TestBorrowingCreate(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acct := seedAccount(t, db, user.ID, "主卡", "100")
	svc := NewBorrowingService(db)

	borrowed, err := svc.Create(user.ID, CreateBorrowingInput{
		PersonName:      "老王",
		Type:            models.BorrowingBorrowed,
		Amount:          dec(t, "200"),
		AccountID:       acct.ID,
		TransactionDate: day(t, "2026-08-01"),
	})
	if err != nil {
		t.Fatalf("借入失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "300", "借入后余额")

	var mirror models.Transaction
	if err := db.Where("user_id = ? AND category = ?", user.ID, models.CategoryBorrowedMoney).
		First(&mirror).Error; err != nil {
		t.Fatalf("找不到借入镜像流水: %v", err)
	}
	if mirror.Type != models.TxIncome {
		t.Errorf("借入镜像流水类型 = %q, 期望 income", mirror.Type)
	}
	wantDecimal(t, mirror.Amount, "200", "镜像流水金额")

	if _, err := svc.Create(user.ID, CreateBorrowingInput{
		PersonName:      "小李",
		Type:            models.BorrowingLent,
		Amount:          dec(t, "50"),
		AccountID:       acct.ID,
		TransactionDate: day(t, "2026-08-02"),
	}); err != nil {
		t.Fatalf("借出失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "250", "借出后余额")

	var lentMirror models.Transaction
	if err := db.Where("user_id = ? AND category = ?", user.ID, models.CategoryLentMoney).
		First(&lentMirror).Error; err != nil {
		t.Fatalf("找不到借出镜像流水: %v", err)
	}
	if lentMirror.Type != models.TxExpense {
		t.Errorf("借出镜像流水类型 = %q, 期望 expense", lentMirror.Type)
	}

	if borrowed.IsPaid {
		t.Error("新建的借贷记录应为未还")
	}
}

// 标记已还生成结算流水并冲掉余额影响；重复标记幂等；取消已还完整恢复。
func TestBorrowingTogglePaid(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acct := seedAccount(t, db, user.ID, "主卡", "100")
	svc := NewBorrowingService(db)

	rec, err := svc.Create(user.ID, CreateBorrowingInput{
		PersonName:      "老王",
		Type:            models.BorrowingBorrowed,
		Amount:          dec(t, "200"),
		AccountID:       acct.ID,
		TransactionDate: day(t, "2026-08-01"),
	})
	if err != nil {
		t.Fatalf("借入失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "300", "借入后余额")

	// 标记已还：余额回到 100，结算流水为 Loan Repayment 支出
	rec, err = svc.TogglePaid(user.ID, rec.ID, true)
	if err != nil {
		t.Fatalf("标记已还失败: %v", err)
	}
	if !rec.IsPaid || rec.RepaymentTransactionID == nil || rec.PaidDate == nil {
		t.Fatal("已还状态应带结算流水 ID 和还款日期")
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "100", "还款后余额")

	var settlement models.Transaction
	if err := db.First(&settlement, *rec.RepaymentTransactionID).Error; err != nil {
		t.Fatalf("找不到结算流水: %v", err)
	}
	if settlement.Type != models.TxExpense || settlement.Category != models.CategoryLoanRepayment {
		t.Errorf("结算流水 = %s/%s, 期望 expense/%s",
			settlement.Type, settlement.Category, models.CategoryLoanRepayment)
	}

	// 重复标记：幂等，不再生成流水、不再动余额
	firstSettlementID := *rec.RepaymentTransactionID
	rec, err = svc.TogglePaid(user.ID, rec.ID, true)
	if err != nil {
		t.Fatalf("重复标记失败: %v", err)
	}
	if *rec.RepaymentTransactionID != firstSettlementID {
		t.Error("重复标记不应更换结算流水")
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "100", "重复标记后余额")

	// 取消已还：删结算流水、恢复余额、清空引用
	rec, err = svc.TogglePaid(user.ID, rec.ID, false)
	if err != nil {
		t.Fatalf("取消已还失败: %v", err)
	}
	if rec.IsPaid || rec.RepaymentTransactionID != nil || rec.PaidDate != nil {
		t.Error("取消已还后应清空结算引用和还款日期")
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "300", "取消已还后余额")

	var cnt int64
	db.Model(&models.Transaction{}).Where("id = ?", firstSettlementID).Count(&cnt)
	if cnt != 0 {
		t.Error("取消已还后结算流水应被删除")
	}

	// 取消状态再取消：无事发生
	if _, err := svc.TogglePaid(user.ID, rec.ID, false); err != nil {
		t.Fatalf("重复取消失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "300", "重复取消后余额")

	// 数据库里的持久化状态与返回值一致
	var stored models.Borrowing
	if err := db.First(&stored, rec.ID).Error; err != nil {
		t.Fatalf("读取记录失败: %v", err)
	}
	if stored.IsPaid || stored.RepaymentTransactionID != nil || stored.PaidDate != nil {
		t.Error("取消已还的状态应持久化为 NULL")
	}
}

// 修改未还记录的金额/方向时先冲销旧影响再施加新影响。
func TestBorrowingUpdateReverseReapply(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acct := seedAccount(t, db, user.ID, "主卡", "100")
	svc := NewBorrowingService(db)

	rec, err := svc.Create(user.ID, CreateBorrowingInput{
		PersonName:      "小李",
		Type:            models.BorrowingLent,
		Amount:          dec(t, "30"),
		AccountID:       acct.ID,
		TransactionDate: day(t, "2026-08-01"),
	})
	if err != nil {
		t.Fatalf("借出失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "70", "借出后余额")

	// 30 借出 -> 50 借出：+30 再 -50
	amount := dec(t, "50")
	if _, err := svc.Update(user.ID, rec.ID, UpdateBorrowingInput{Amount: &amount}); err != nil {
		t.Fatalf("改金额失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "50", "改金额后余额")

	// 50 借出 -> 50 借入：+50 再 +50
	newType := models.BorrowingBorrowed
	if _, err := svc.Update(user.ID, rec.ID, UpdateBorrowingInput{Type: &newType}); err != nil {
		t.Fatalf("改方向失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "150", "改方向后余额")

	// 已还的记录改金额不动余额
	if _, err := svc.TogglePaid(user.ID, rec.ID, true); err != nil {
		t.Fatalf("标记已还失败: %v", err)
	}
	balancePaid := accountBalance(t, db, acct.ID)
	amount2 := dec(t, "999")
	if _, err := svc.Update(user.ID, rec.ID, UpdateBorrowingInput{Amount: &amount2}); err != nil {
		t.Fatalf("改已还记录失败: %v", err)
	}
	if !accountBalance(t, db, acct.ID).Equal(balancePaid) {
		t.Error("已还记录改金额不应影响余额")
	}
}

// 删除是软删除：未还的先冲销余额影响，记录保留在库里。
func TestBorrowingSoftDelete(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acct := seedAccount(t, db, user.ID, "主卡", "100")
	svc := NewBorrowingService(db)

	rec, err := svc.Create(user.ID, CreateBorrowingInput{
		PersonName:      "老王",
		Type:            models.BorrowingBorrowed,
		Amount:          dec(t, "200"),
		AccountID:       acct.ID,
		TransactionDate: day(t, "2026-08-01"),
	})
	if err != nil {
		t.Fatalf("借入失败: %v", err)
	}

	if err := svc.Delete(user.ID, rec.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	wantDecimal(t, accountBalance(t, db, acct.ID), "100", "删除未还记录后余额")

	// 记录仍在库里，只是不再活跃
	var stored models.Borrowing
	if err := db.First(&stored, rec.ID).Error; err != nil {
		t.Fatalf("软删除后记录应仍在: %v", err)
	}
	if stored.IsActive {
		t.Error("软删除后 is_active 应为 false")
	}

	// 列表不再返回
	rows, err := svc.List(user.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("软删除的记录不应出现在列表, got %d 条", len(rows))
	}

	// 已删除的记录按不存在处理
	if _, err := svc.TogglePaid(user.ID, rec.ID, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("操作已删除记录应返回 ErrNotFound, got %v", err)
	}
}

// 借贷流程区分"不存在"和"不是你的"。
func TestBorrowingForbidden(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	acct := seedAccount(t, db, alice.ID, "alice的卡", "100")
	svc := NewBorrowingService(db)

	rec, err := svc.Create(alice.ID, CreateBorrowingInput{
		PersonName:      "老王",
		Type:            models.BorrowingBorrowed,
		Amount:          dec(t, "10"),
		AccountID:       acct.ID,
		TransactionDate: day(t, "2026-08-01"),
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if _, err := svc.TogglePaid(bob.ID, rec.ID, true); !errors.Is(err, ErrForbidden) {
		t.Errorf("操作别人的记录应返回 ErrForbidden, got %v", err)
	}
	if err := svc.Delete(bob.ID, rec.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("删别人的记录应返回 ErrForbidden, got %v", err)
	}
	if _, err := svc.TogglePaid(bob.ID, 99999, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("不存在的记录应返回 ErrNotFound, got %v", err)
	}
}
