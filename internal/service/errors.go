package service

import "errors"

// 业务层统一错误，handler 据此映射 HTTP 状态码：
// ErrNotFound -> 404，ErrForbidden -> 403，ErrValidation -> 400，其余 -> 500。
var (
	ErrNotFound   = errors.New("record not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")

	// ErrAccountNotFound 余额变更时账户已不存在。
	// 大多数调用方把它当作警告（记录日志后继续），而不是硬失败。
	ErrAccountNotFound = errors.New("account not found")
)
