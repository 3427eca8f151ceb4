package util

import (
	"github.com/gin-gonic/gin"
)

// 统一响应包络：{success, message, data|errors}

// Success 成功返回，创建类接口传 http.StatusCreated，其余传 http.StatusOK
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Error 失败返回
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// ErrorWithDetails 失败返回并附带字段级错误
func ErrorWithDetails(c *gin.Context, status int, message string, errs interface{}) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"errors":  errs,
	})
}
