package h2pool

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/fx"

	"github.com/dep2p/go-h2pool/config"
	corepool "github.com/dep2p/go-h2pool/internal/core/h2pool"
	"github.com/dep2p/go-h2pool/internal/core/settings"
	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
	"github.com/dep2p/go-h2pool/pkg/lib/log"
	"github.com/dep2p/go-h2pool/pkg/types"
)

var logger = log.Logger("h2pool")

// Stats 连接池统计
type Stats = corepool.Stats

// Client 复用 HTTP/2 连接的 HTTP 客户端
//
// 连接池由 Client 持有，不同 Client 之间不共享连接。
type Client struct {
	app     *fx.App
	config  *config.Config
	manager *corepool.Manager
	builder *settings.Builder

	// fallback HTTP/1.1 传输，不会尝试 h2
	fallback *http.Transport

	push bool

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// New 创建并启动 Client
func New(opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, err
	}

	c := &Client{
		config:   cfg,
		fallback: newFallbackTransport(o.tlsConfig, cfg),
	}
	if o.push != nil {
		c.push = *o.push
	} else {
		c.push = cfg.HTTP2.DefaultPush
	}
	if c.push && o.negotiator == nil {
		logger.Warn("内置协商器不支持服务端推送，已忽略推送设置")
		c.push = false
	}

	app, err := buildFxApp(cfg, o, c)
	if err != nil {
		return nil, err
	}
	if err := app.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, err
	}
	c.app = app

	if c.push && c.builder.PushGloballyDisabled() {
		logger.Info("h2.enablepush 为 0，不请求服务端推送")
		c.push = false
	}

	logger.Debug("客户端已启动", "push", c.push)
	return c, nil
}

// newFallbackTransport HTTP/1.1 回退传输
//
// TLSNextProto 为空 map 时 http.Transport 不会升级到 h2。
func newFallbackTransport(tc *tls.Config, cfg *config.Config) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ForceAttemptHTTP2 = false
	t.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
	if tc != nil {
		t.TLSClientConfig = tc.Clone()
	}
	if cfg.Negotiation.InsecureSkipVerify {
		if t.TLSClientConfig == nil {
			t.TLSClientConfig = &tls.Config{}
		}
		t.TLSClientConfig.InsecureSkipVerify = true
	}
	t.TLSHandshakeTimeout = cfg.Negotiation.Timeout.Duration()
	return t
}

// Do 发送请求
//
// 有可用的 h2 连接时走 h2；目标需要回退（http、或此前 ALPN 失败）时
// 走 HTTP/1.1。首次发现 ALPN 失败的请求同样回退，而不是把错误返回。
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	conn, err := c.manager.Acquire(req.Context(), req, pkgif.ExchangeOptions{Push: c.push})
	if err != nil {
		if errors.Is(err, types.ErrALPNNegotiation) {
			logger.Debug("ALPN 协商失败，回退到 HTTP/1.1", "url", req.URL.Redacted(), "error", err)
			return c.fallback.RoundTrip(req)
		}
		return nil, err
	}
	if conn == nil {
		return c.fallback.RoundTrip(req)
	}

	rt, ok := conn.(http.RoundTripper)
	if !ok {
		return nil, ErrNotRoundTripper
	}
	return rt.RoundTrip(req)
}

// RoundTrip 实现 http.RoundTripper
func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	return c.Do(req)
}

// Acquire 获取连接
//
// 返回 (nil, nil) 表示应回退到 HTTP/1.1。返回的连接已预留一个流。
func (c *Client) Acquire(ctx context.Context, req *http.Request) (pkgif.Connection, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return c.manager.Acquire(ctx, req, pkgif.ExchangeOptions{Push: c.push})
}

// SettingsToken 返回当前配置下的 HTTP2-Settings 升级令牌
func (c *Client) SettingsToken() (string, error) {
	return c.builder.Token(c.push)
}

// Settings 返回当前配置下的 SETTINGS
func (c *Client) Settings() settings.Settings {
	return c.builder.Build(c.push)
}

// Stats 返回连接池统计
func (c *Client) Stats() Stats {
	return c.manager.Stats()
}

// Close 关闭客户端并排空连接池
//
// 重复调用返回第一次的结果。
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		timeout := c.config.Shutdown.GoAwayTimeout.Duration() + fx.DefaultTimeout
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		c.closeErr = c.app.Stop(ctx)
		c.fallback.CloseIdleConnections()
		logger.Debug("客户端已关闭")
	})
	return c.closeErr
}

var _ http.RoundTripper = (*Client)(nil)
