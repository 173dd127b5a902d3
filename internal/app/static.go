package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"verwatch/internal/version"

	"github.com/gin-gonic/gin"
)

// resolveWebRoot 解析构建产物目录的真实绝对路径（解析符号链接，用于安全检查）
func resolveWebRoot(dir string) (string, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("无法解析目录路径: %w", err)
	}
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("目录不存在或无法访问: %w", err)
	}
	info, err := os.Stat(realPath)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s 不是目录", realPath)
	}
	return realPath, nil
}

// serveStaticFile 处理构建产物请求
// - 版本描述文件与 HTML：不缓存，保证客户端总能拿到最新版本
// - 其他静态资源：长缓存（dev 版本除外）
func (s *Server) serveStaticFile(c *gin.Context) {
	// Gin wildcard 参数带前导斜杠，如 "/index.html"
	reqPath := strings.TrimPrefix(c.Param("filepath"), "/")

	// Clean 处理 .. 和多余的斜杠
	reqPath = filepath.Clean(reqPath)

	// 防止路径遍历：Clean 后仍以 .. 开头说明试图逃逸
	if reqPath == ".." || strings.HasPrefix(reqPath, ".."+string(filepath.Separator)) {
		c.Status(http.StatusForbidden)
		return
	}

	filePath := filepath.Join(s.webRoot, reqPath)

	info, err := os.Stat(filePath)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	// 目录尝试返回 index.html
	if info.IsDir() {
		filePath = filepath.Join(filePath, "index.html")
		if _, err = os.Stat(filePath); err != nil {
			c.Status(http.StatusNotFound)
			return
		}
	}

	// 最终防线：解析符号链接后验证真实路径在 webRoot 下
	realPath, err := filepath.EvalSymlinks(filePath)
	if err != nil {
		c.Status(http.StatusForbidden)
		return
	}
	if !isPathUnder(realPath, s.webRoot) {
		c.Status(http.StatusForbidden)
		return
	}

	c.Header("Cache-Control", s.cacheControl(realPath))

	// HTML 直接返回内容：http.ServeFile 会把 /index.html 重定向到目录
	if strings.ToLower(filepath.Ext(realPath)) == ".html" {
		serveHTML(c, realPath)
		return
	}

	// c.File 自动处理 Content-Type、Content-Length、HEAD、Range、If-Modified-Since/304
	c.File(realPath)
}

// serveHTML 返回 HTML 文件内容
func serveHTML(c *gin.Context, filePath string) {
	content, err := os.ReadFile(filePath) //nolint:gosec // G304: 路径已校验在 webRoot 下
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}

// cacheControl 按文件类型返回缓存策略
func (s *Server) cacheControl(path string) string {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case name == s.descriptorFile || ext == ".html":
		return "no-cache, no-store, must-revalidate"
	case version.Version == "dev":
		return "no-cache, must-revalidate"
	case name == "manifest.json" || ext == ".ico":
		// 无内容哈希的元数据文件：短缓存 + 必须验证
		return "public, max-age=3600, must-revalidate"
	default:
		return "public, max-age=31536000, immutable"
	}
}

// isPathUnder 检查 path 是否在 base 目录下（含 base 自身）
// 使用 filepath.Rel 而非 HasPrefix，正确处理大小写不敏感文件系统
func isPathUnder(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
