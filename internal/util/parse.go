package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseBool 解析常见的布尔字符串表示
// 返回 (value, ok)：ok 表示是否为有效的布尔值
func ParseBool(raw string) (bool, bool) {
	val := strings.TrimSpace(strings.ToLower(raw))
	switch val {
	case "1", "true", "yes", "on", "启用":
		return true, true
	case "0", "false", "no", "off", "禁用":
		return false, true
	default:
		return false, false
	}
}

// ParseBoolDefault 解析布尔字符串，无效值时返回默认值
func ParseBoolDefault(raw string, defaultVal bool) bool {
	if val, ok := ParseBool(raw); ok {
		return val
	}
	return defaultVal
}

// ParseDuration 解析时长：纯数字按毫秒处理（与前端配置习惯一致），否则按 Go duration 解析
func ParseDuration(raw string) (time.Duration, bool) {
	val := strings.TrimSpace(raw)
	if val == "" {
		return 0, false
	}
	if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
		if ms < 0 {
			return 0, false
		}
		return time.Duration(ms) * time.Millisecond, true
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}
