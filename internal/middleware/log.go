package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// sensitivePath 判断请求体里可能带凭据的路径（登录、改密码等）
func sensitivePath(path string) bool {
	return strings.Contains(path, "/password") || strings.Contains(path, "/auth/")
}

// AuditMiddleware 把登录用户的写操作（POST/PUT/PATCH/DELETE）记录到审计表。
// 写库失败只忽略，不影响请求本身。
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取用户 ID
		var userID uint
		if v, ok := c.Get("currentUser"); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = user.ID
			}
		}

		// 读取请求体
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		// 执行请求
		c.Next()

		// 只记录登录用户的写操作
		if userID == 0 {
			return
		}
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		// 密码等凭据不允许落到审计表里
		if sensitivePath(path) {
			action += " [redacted]"
		} else if len(bodyBytes) > 0 && len(bodyBytes) < 2000 {
			action += " " + string(bodyBytes)
		}

		entry := models.AuditLog{
			UserID:    &userID,
			Path:      path,
			Method:    c.Request.Method,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}
