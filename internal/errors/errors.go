package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode 错误代码类型（便于机器识别和日志检索）
type ErrorCode string

const (
	// 构建期错误
	ErrCodeReadMetadata ErrorCode = "READ_METADATA"    // 项目元数据缺失或无法解析
	ErrCodeTransform    ErrorCode = "TRANSFORM"        // 自定义描述生成函数失败
	ErrCodeWrite        ErrorCode = "WRITE_DESCRIPTOR" // 版本描述文件写入失败

	// 运行期错误
	ErrCodeFetch   ErrorCode = "FETCH"   // 拉取版本描述失败（网络错误或非2xx）
	ErrCodeParse   ErrorCode = "PARSE"   // 版本描述JSON格式错误
	ErrCodeStorage ErrorCode = "STORAGE" // 持久化存储读写失败

	// 配置相关错误
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG" // 配置无效
	ErrCodeMissingConfig ErrorCode = "MISSING_CONFIG" // 配置缺失

	// 适配器相关错误
	ErrCodeNotInstalled ErrorCode = "NOT_INSTALLED" // 插件未安装到应用根节点
)

// AppError 应用级错误结构（支持错误链和上下文信息）
type AppError struct {
	Code    ErrorCode      // 错误代码（机器可识别）
	Message string         // 错误消息（人类可读）
	Err     error          // 底层错误（支持错误链）
	Context map[string]any // 错误上下文（便于调试）
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现错误链
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext 添加错误上下文
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ============== 构建期错误工厂函数 ==============

// ReadMetadataError 读取项目元数据失败
func ReadMetadataError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeReadMetadata,
		Message: fmt.Sprintf("failed to read project metadata %s", path),
		Err:     err,
		Context: map[string]any{"path": path},
	}
}

// TransformError 自定义描述生成函数返回错误
func TransformError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeTransform,
		Message: fmt.Sprintf("failed to transform metadata %s", path),
		Err:     err,
		Context: map[string]any{"path": path},
	}
}

// WriteError 写入版本描述文件失败
func WriteError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeWrite,
		Message: fmt.Sprintf("failed to write descriptor %s", path),
		Err:     err,
		Context: map[string]any{"path": path},
	}
}

// ============== 运行期错误工厂函数 ==============

// FetchError 请求版本描述失败（网络层）
func FetchError(url string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeFetch,
		Message: fmt.Sprintf("GET %s failed", url),
		Err:     err,
		Context: map[string]any{"url": url},
	}
}

// FetchStatusError 版本描述返回非2xx状态
func FetchStatusError(url string, status int) *AppError {
	return &AppError{
		Code:    ErrCodeFetch,
		Message: fmt.Sprintf("failed to fetch version: %d", status),
		Context: map[string]any{"url": url, "status": status},
	}
}

// ParseError 版本描述解析失败
func ParseError(url string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeParse,
		Message: fmt.Sprintf("malformed version descriptor from %s", url),
		Err:     err,
		Context: map[string]any{"url": url},
	}
}

// StorageError 持久化存储操作失败
func StorageError(operation, key string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeStorage,
		Message: fmt.Sprintf("storage %s failed for key %s", operation, key),
		Err:     err,
		Context: map[string]any{"operation": operation, "key": key},
	}
}

// ============== 配置错误工厂函数 ==============

// InvalidConfigError 配置无效
func InvalidConfigError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf("invalid config field '%s': %s", field, reason),
		Context: map[string]any{"field": field, "reason": reason},
	}
}

// MissingConfigError 配置缺失
func MissingConfigError(field string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("missing required config field: %s", field),
		Context: map[string]any{"field": field},
	}
}

// NotInstalledError 插件未安装
func NotInstalledError(plugin string) *AppError {
	return &AppError{
		Code:    ErrCodeNotInstalled,
		Message: fmt.Sprintf("%s plugin not installed", plugin),
		Context: map[string]any{"plugin": plugin},
	}
}

// ============== 工具函数 ==============

// IsAppError 判断错误链中是否有AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetErrorCode 获取错误代码（沿错误链查找AppError）
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasErrorCode 判断错误是否为特定错误代码
func HasErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
