// Package app 提供构建产物的HTTP服务，并托管版本监控
package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"verwatch/internal/adapter"
	"verwatch/internal/config"
	"verwatch/internal/errors"
	"verwatch/internal/monitor"
	"verwatch/internal/util"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

// Config 服务配置
type Config struct {
	// WebDir 构建产物目录
	WebDir string
	// DescriptorFile 版本描述文件名，默认 version.json
	DescriptorFile string
	// Monitor 版本监控器
	Monitor *monitor.Monitor
	// Plugin 监控插件配置
	Plugin adapter.Options
}

// Server 构建产物服务
type Server struct {
	webRoot        string
	descriptorFile string

	root *adapter.App
	inst *adapter.Instance
	resp *ResponseHelper

	checkGroup singleflight.Group

	mu       sync.Mutex
	httpSrv  *http.Server
	shutdown sync.Once
}

// NewServer 创建服务并将监控插件安装到服务的应用根节点
func NewServer(cfg Config) (*Server, error) {
	if cfg.Monitor == nil {
		return nil, errors.MissingConfigError("monitor")
	}
	if cfg.DescriptorFile == "" {
		cfg.DescriptorFile = config.DefaultDescriptorFilename
	}

	webRoot, err := resolveWebRoot(cfg.WebDir)
	if err != nil {
		return nil, errors.InvalidConfigError("web_dir", err.Error())
	}

	root := adapter.NewApp(func() {
		log.Print("[INFO] 应用根节点已卸载")
	})
	inst, err := adapter.NewPlugin(cfg.Monitor, cfg.Plugin).Install(root)
	if err != nil {
		return nil, fmt.Errorf("install version check: %w", err)
	}
	root.Mount()

	return &Server{
		webRoot:        webRoot,
		descriptorFile: cfg.DescriptorFile,
		root:           root,
		inst:           inst,
		resp:           NewResponseHelper(),
	}, nil
}

// Instance 返回托管的监控实例
func (s *Server) Instance() *adapter.Instance {
	return s.inst
}

// SetupRoutes 注册路由
func (s *Server) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api/version")
	{
		api.GET("", s.handleVersion)
		api.GET("/status", s.handleStatus)
		api.POST("/check", s.handleCheck)
	}

	// 构建产物
	r.GET("/web/*filepath", s.serveStaticFile)

	// 默认首页重定向
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/web/index.html")
	})
}

// NewEngine 创建带基础中间件的 Gin 引擎
func (s *Server) NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	s.SetupRoutes(r)
	return r
}

// ListenAndServe 启动HTTP服务，直到 Shutdown
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.NewEngine(),
		ReadHeaderTimeout: config.HTTPRequestTimeout,
	}

	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 卸载应用根节点（停止监控），再关闭HTTP服务
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdown.Do(func() {
		util.SafePrintf("🛑 正在关闭Server，等待后台任务完成...")

		s.root.Unmount()

		done := make(chan struct{})
		go func() {
			s.inst.Wait()
			close(done)
		}()

		s.mu.Lock()
		srv := s.httpSrv
		s.mu.Unlock()
		if srv != nil {
			if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
				err = shutdownErr
			}
		}

		select {
		case <-done:
			util.SafePrintf("✅ Server优雅关闭完成")
		case <-ctx.Done():
			util.SafePrintf("⚠️  Server关闭超时，部分后台任务可能未完成")
			if err == nil {
				err = ctx.Err()
			}
		}
	})
	return err
}
