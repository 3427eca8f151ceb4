package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestValidateAmount_Positive 测试正数金额
func TestValidateAmount_Positive(t *testing.T) {
	testCases := []string{"0.01", "1", "100.50", "9999999.99"}

	for _, s := range testCases {
		amount := decimal.RequireFromString(s)
		err := ValidateAmount(amount)
		if err != nil {
			t.Errorf("ValidateAmount(%s) error = %v, want nil", s, err)
		}
	}
}

// TestValidateAmount_Zero 测试零金额（异常）
func TestValidateAmount_Zero(t *testing.T) {
	err := ValidateAmount(decimal.Zero)

	if err == nil {
		t.Error("ValidateAmount(0) error = nil, want error")
	}
}

// TestValidateAmount_Negative 测试负数金额（异常）
func TestValidateAmount_Negative(t *testing.T) {
	testCases := []string{"-0.01", "-100", "-9999.99"}

	for _, s := range testCases {
		amount := decimal.RequireFromString(s)
		err := ValidateAmount(amount)
		if err == nil {
			t.Errorf("ValidateAmount(%s) error = nil, want error", s)
		}
	}
}

// TestValidateAmount_TooLarge 测试金额过大（异常）
func TestValidateAmount_TooLarge(t *testing.T) {
	err := ValidateAmount(decimal.NewFromInt(100000000)) // 1亿

	if err == nil {
		t.Error("ValidateAmount(100000000) error = nil, want error")
	}
}

// TestValidateDate_Valid 测试有效日期
func TestValidateDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31",
		"2025-06-15",
	}

	for _, date := range testCases {
		if _, err := ValidateDate(date); err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
	}
}

// TestValidateDate_InvalidFormat 测试无效格式（异常）
func TestValidateDate_InvalidFormat(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01", // 月份错误
		"2024-01-32", // 日期错误
	}

	for _, date := range testCases {
		if _, err := ValidateDate(date); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

// TestValidateMonth 测试月份格式
func TestValidateMonth(t *testing.T) {
	valid := []string{"2024-01", "2025-12"}
	for _, m := range valid {
		if err := ValidateMonth(m); err != nil {
			t.Errorf("ValidateMonth(%q) error = %v, want nil", m, err)
		}
	}

	invalid := []string{"", "2024", "2024-13", "01-2024", "2024-1"}
	for _, m := range invalid {
		if err := ValidateMonth(m); err == nil {
			t.Errorf("ValidateMonth(%q) error = nil, want error", m)
		}
	}
}

// TestValidateAccountType 测试账户类型
func TestValidateAccountType(t *testing.T) {
	for _, typ := range []string{"bank", "cash", "credit", "mobile"} {
		if err := ValidateAccountType(typ); err != nil {
			t.Errorf("ValidateAccountType(%q) error = %v, want nil", typ, err)
		}
	}
	for _, typ := range []string{"", "wallet", "BANK"} {
		if err := ValidateAccountType(typ); err == nil {
			t.Errorf("ValidateAccountType(%q) error = nil, want error", typ)
		}
	}
}
