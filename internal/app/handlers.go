package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"verwatch/internal/config"
	"verwatch/internal/errors"
	"verwatch/internal/model"
	"verwatch/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

// StatusResponse 监控状态
type StatusResponse struct {
	Running    bool              `json:"running"`
	StorageKey string            `json:"storageKey"`
	LastUpdate *model.UpdateInfo `json:"lastUpdate"`
}

// handleVersion 返回当前构建产物中的版本描述
func (s *Server) handleVersion(c *gin.Context) {
	data, err := os.ReadFile(filepath.Join(s.webRoot, s.descriptorFile))
	if os.IsNotExist(err) {
		s.resp.NotFound(c, s.descriptorFile)
		return
	}
	if err != nil {
		s.resp.InternalError(c, err)
		return
	}

	var desc model.VersionDescriptor
	if err := util.UnmarshalJSON(data, &desc); err != nil {
		s.resp.InternalError(c, errors.ParseError(s.descriptorFile, err))
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	s.resp.Success(c, desc)
}

// handleStatus 返回监控运行状态
func (s *Server) handleStatus(c *gin.Context) {
	status := StatusResponse{
		Running:    s.inst.Running(),
		StorageKey: s.inst.StorageKey(),
	}
	if info, ok := s.inst.LastUpdate(); ok {
		status.LastUpdate = &info
	}
	s.resp.Success(c, status)
}

// handleCheck 立即检测一次；并发请求合并为一次拉取
// 共享的拉取不绑定任何一个调用方的取消信号，每个调用方只等待自己的 ctx
func (s *Server) handleCheck(c *gin.Context) {
	reqCtx := c.Request.Context()
	ch := s.checkGroup.DoChan("check", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), config.HTTPRequestTimeout)
		defer cancel()
		return s.inst.CheckNow(ctx)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-reqCtx.Done():
		// 客户端已断开，无需响应
		c.Abort()
		return
	}

	v, err := res.Val, res.Err
	if err != nil {
		code := http.StatusInternalServerError
		if errors.HasErrorCode(err, errors.ErrCodeFetch) {
			code = http.StatusBadGateway
		}
		s.resp.Error(c, code, err)
		return
	}
	s.resp.Success(c, v.(*model.CheckResult))
}
