package monitor

import (
	"crypto/tls"
	"log"
	"net"
	"net/http"

	"golang.org/x/net/http2"

	"verwatch/internal/config"
)

// NewHTTPClient 创建拉取版本描述的HTTP客户端（HTTP/1.1 + h2 协商）
func NewHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   config.HTTPDialTimeout,
		KeepAlive: config.HTTPKeepAliveInterval,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        config.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: config.HTTPMaxIdleConnsPerHost,
		IdleConnTimeout:     config.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: config.HTTPTLSHandshakeTimeout,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		log.Printf("[WARN] [VersionCheck] HTTP/2 配置失败，回退到 HTTP/1.1: %v", err)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   config.HTTPRequestTimeout,
	}
}
