// Package testutil 提供测试共用的 TLS 服务器与等待工具
package testutil

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// ProtoHandler 在响应体中写回请求使用的协议（HTTP/2.0 或 HTTP/1.1）
func ProtoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.Proto)
	})
}

// NewH2Server 启动通过 ALPN 提供 h2 的 TLS 服务器，测试结束时关闭
func NewH2Server(t *testing.T, h http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewUnstartedServer(h)
	srv.EnableHTTP2 = true
	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv
}

// NewHTTP11TLSServer 启动只协商 http/1.1 的 TLS 服务器
func NewHTTP11TLSServer(t *testing.T, h http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(h)
	t.Cleanup(srv.Close)
	return srv
}

// NewCleartextServer 启动明文 HTTP/1.1 服务器
func NewCleartextServer(t *testing.T, h http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

// ClientTLSConfig 返回信任测试服务器证书的 TLS 配置副本
func ClientTLSConfig(srv *httptest.Server) *tls.Config {
	return srv.Client().Transport.(*http.Transport).TLSClientConfig.Clone()
}

// WaitForCondition 等待条件满足或超时
//
// 返回条件是否满足（超时返回 false）。
func WaitForCondition(t *testing.T, timeout, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if condition() {
		return true
	}
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}
