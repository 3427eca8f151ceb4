package service

import (
	"testing"
	"time"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 建一个内存 SQLite 库。
// 限制为单连接：每个 :memory: 连接是独立的库，多连接会互相看不见数据。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Transaction{},
		&models.TargetSavings{},
		&models.Borrowing{},
		&models.Budget{},
		&models.FixedExpense{},
		&models.PossibleExpense{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := models.User{Username: username, PasswordHash: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return &u
}

func seedAccount(t *testing.T, db *gorm.DB, userID uint, name, balance string) *models.Account {
	t.Helper()
	a := models.Account{
		UserID:   userID,
		Name:     name,
		Type:     models.AccountBank,
		Balance:  dec(t, balance),
		IsActive: true,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("创建测试账户失败: %v", err)
	}
	return &a
}

func seedTarget(t *testing.T, db *gorm.DB, userID, accountID uint, title, target, current string) *models.TargetSavings {
	t.Helper()
	ts := models.TargetSavings{
		UserID:        userID,
		AccountID:     accountID,
		Title:         title,
		TargetAmount:  dec(t, target),
		CurrentAmount: dec(t, current),
		IsActive:      true,
	}
	if err := db.Create(&ts).Error; err != nil {
		t.Fatalf("创建测试目标失败: %v", err)
	}
	return &ts
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("非法金额 %q: %v", s, err)
	}
	return d
}

// accountBalance 重新从库里读余额
func accountBalance(t *testing.T, db *gorm.DB, id uint) decimal.Decimal {
	t.Helper()
	var a models.Account
	if err := db.First(&a, id).Error; err != nil {
		t.Fatalf("读取账户 %d 失败: %v", id, err)
	}
	return a.Balance
}

func targetCurrent(t *testing.T, db *gorm.DB, id uint) decimal.Decimal {
	t.Helper()
	var ts models.TargetSavings
	if err := db.First(&ts, id).Error; err != nil {
		t.Fatalf("读取目标 %d 失败: %v", id, err)
	}
	return ts.CurrentAmount
}

func wantDecimal(t *testing.T, got decimal.Decimal, want string, label string) {
	t.Helper()
	if !got.Equal(dec(t, want)) {
		t.Errorf("%s = %s, 期望 %s", label, got.String(), want)
	}
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("非法日期 %q: %v", s, err)
	}
	return d
}
