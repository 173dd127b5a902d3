package app

import (
	stderrors "errors"
	"net/http"

	"verwatch/internal/errors"

	"github.com/gin-gonic/gin"
)

// StandardResponse 统一API响应结构
type StandardResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"` // 机器可读错误码
}

// ResponseHelper 响应辅助函数集合
type ResponseHelper struct{}

// NewResponseHelper 创建响应助手实例
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// Success 返回成功响应
func (h *ResponseHelper) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, StandardResponse[any]{
		Success: true,
		Data:    data,
	})
}

// Error 返回错误响应（沿错误链提取应用级错误码）
func (h *ResponseHelper) Error(c *gin.Context, httpCode int, err error) {
	resp := StandardResponse[any]{
		Success: false,
		Error:   err.Error(),
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		resp.Code = string(appErr.Code)
	}

	c.JSON(httpCode, resp)
}

// ErrorMsg 返回错误响应（仅消息）
func (h *ResponseHelper) ErrorMsg(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, StandardResponse[any]{
		Success: false,
		Error:   message,
	})
}

// NotFound 快捷方法 - 404 错误
func (h *ResponseHelper) NotFound(c *gin.Context, resource string) {
	h.ErrorMsg(c, http.StatusNotFound, resource+" not found")
}

// InternalError 快捷方法 - 500 错误
func (h *ResponseHelper) InternalError(c *gin.Context, err error) {
	h.Error(c, http.StatusInternalServerError, err)
}
