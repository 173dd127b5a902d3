package util

import (
	"log"
	"net/url"
	"strings"
	"unicode"
)

// maxLogValueLength 单个日志参数最大长度（版本号来自远端，可能被篡改）
const maxLogValueLength = 256

// SanitizeLogMessage 消毒日志消息，防止日志注入
// 控制字符转义为可见形式，超长截断
func SanitizeLogMessage(msg string) string {
	if msg == "" {
		return ""
	}

	var builder strings.Builder
	builder.Grow(len(msg))

	for _, r := range msg {
		switch {
		case r == '\n':
			builder.WriteString(`\n`)
		case r == '\r':
			builder.WriteString(`\r`)
		case r == '\t':
			builder.WriteString(`\t`)
		case unicode.IsPrint(r) || r == ' ':
			builder.WriteRune(r)
		default:
			builder.WriteString(`\u`)
			builder.WriteString(hex4(r))
		}
	}

	msg = builder.String()
	if len(msg) > maxLogValueLength {
		msg = msg[:maxLogValueLength] + "...[truncated]"
	}
	return msg
}

// hex4 输出4位小写十六进制
func hex4(r rune) string {
	const digits = "0123456789abcdef"
	b := [4]byte{}
	for i := 3; i >= 0; i-- {
		b[i] = digits[r&0xf]
		r >>= 4
	}
	return string(b[:])
}

// RedactURL 去掉URL中的用户名密码，避免凭据写进日志
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.User("***")
	return u.String()
}

// SafePrintf 安全的日志打印函数（自动消毒字符串与error参数）
func SafePrintf(format string, args ...any) {
	sanitized := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case string:
			sanitized[i] = SanitizeLogMessage(v)
		case error:
			sanitized[i] = SanitizeLogMessage(v.Error())
		default:
			sanitized[i] = v
		}
	}
	log.Printf(format, sanitized...)
}
