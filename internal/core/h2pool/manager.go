package h2pool

import (
	"context"
	"errors"
	"net/http"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-h2pool/internal/core/failures"
	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
	"github.com/dep2p/go-h2pool/pkg/lib/log"
	"github.com/dep2p/go-h2pool/pkg/types"
)

// Result 一次获取的结果
//
// Conn 和 Err 都为空表示调用方应回退到 HTTP/1.1。
type Result struct {
	Conn pkgif.Connection
	Err  error
}

// Fallback 是否应回退到 HTTP/1.1
func (r Result) Fallback() bool {
	return r.Conn == nil && r.Err == nil
}

// Manager 连接获取编排器
//
// 组合连接池、失败目标集合和外部协商器。Manager 由客户端持有，
// 不存在进程级单例。
type Manager struct {
	pool       *Pool
	failed     *failures.Registry
	negotiator pkgif.Negotiator
	clock      clock.Clock
	metrics    *Metrics
	config     *Config
}

// Option Manager 选项函数
type Option func(*Manager) error

// WithConfig 设置配置
func WithConfig(cfg *Config) Option {
	return func(m *Manager) error {
		if cfg == nil {
			return ErrInvalidConfig
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		m.config = cfg
		return nil
	}
}

// WithMetrics 设置指标
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) error {
		if metrics != nil {
			m.metrics = metrics
		}
		return nil
	}
}

// WithClock 设置时钟（测试时注入 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(m *Manager) error {
		if c != nil {
			m.clock = c
		}
		return nil
	}
}

// WithRegistry 设置失败目标集合
func WithRegistry(r *failures.Registry) Option {
	return func(m *Manager) error {
		if r != nil {
			m.failed = r
		}
		return nil
	}
}

// NewManager 创建 Manager
func NewManager(negotiator pkgif.Negotiator, opts ...Option) (*Manager, error) {
	if negotiator == nil {
		return nil, ErrNilNegotiator
	}

	m := &Manager{
		failed:     failures.NewRegistry(),
		negotiator: negotiator,
		clock:      clock.New(),
		config:     DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.metrics == nil {
		m.metrics = NewMetrics(nil)
	}
	m.pool = NewPool(m.metrics)

	return m, nil
}

// Pool 返回连接池
func (m *Manager) Pool() *Pool {
	return m.pool
}

// Failures 返回失败目标集合
func (m *Manager) Failures() *failures.Registry {
	return m.failed
}

// AcquireAsync 为请求获取连接，结果通过返回的通道送达
//
// 通道带一个缓冲，结果总会被送达且只送达一次，调用方不读取也不会泄漏协程。
// 命中池、需要回退或查找出错时结果在返回前已经就绪；否则在新协程中协商。
func (m *Manager) AcquireAsync(req *http.Request, exch pkgif.Exchange) <-chan Result {
	ch := make(chan Result, 1)

	key, err := types.KeyFor(req)
	if err != nil {
		ch <- Result{Err: err}
		return ch
	}
	wantsPush := exch != nil && exch.PushEnabled()

	lr := m.pool.lookup(key, wantsPush, func() bool {
		return !key.Secure() || m.failed.Contains(key)
	})
	switch {
	case lr.err != nil:
		ch <- Result{Err: lr.err}
		return ch
	case lr.conn != nil:
		ch <- Result{Conn: lr.conn}
		return ch
	case lr.fallback:
		logger.Debug("回退到 HTTP/1.1", "key", key.String())
		ch <- Result{}
		return ch
	}

	go func() {
		ch <- m.negotiate(req, key, exch, wantsPush)
	}()
	return ch
}

// Acquire 阻塞等待 AcquireAsync 的结果
//
// 返回 (nil, nil) 表示应回退到 HTTP/1.1。ctx 只限制等待时间，
// 不会取消已经开始的协商；超时后协商得到的连接照常入池。
func (m *Manager) Acquire(ctx context.Context, req *http.Request, exch pkgif.Exchange) (pkgif.Connection, error) {
	ch := m.AcquireAsync(req, exch)
	select {
	case r := <-ch:
		return r.Conn, r.Err
	case <-ctx.Done():
		go releaseOrphan(ch)
		return nil, ctx.Err()
	}
}

// streamReleaser 可以归还未使用预留的连接
type streamReleaser interface {
	ReleaseStream()
}

// releaseOrphan 归还调用方放弃等待后送达的预留
func releaseOrphan(ch <-chan Result) {
	r := <-ch
	if r.Conn == nil {
		return
	}
	if rel, ok := r.Conn.(streamReleaser); ok {
		rel.ReleaseStream()
	}
}

// negotiate 协商新连接并完成预留与准入
func (m *Manager) negotiate(req *http.Request, key types.ConnKey, exch pkgif.Exchange, wantsPush bool) Result {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(req.Context()), m.config.NegotiateTimeout)
	defer cancel()

	start := m.clock.Now()
	conn, err := m.negotiator.Negotiate(ctx, req, exch)
	m.metrics.NegotiationDuration.Observe(m.clock.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, types.ErrALPNNegotiation) {
			m.failed.Add(key)
			m.metrics.NegotiationFailures.WithLabelValues("alpn").Inc()
		} else {
			m.metrics.NegotiationFailures.WithLabelValues("other").Inc()
		}
		logger.Debug("协商失败", "key", key.String(), "error", err)
		return Result{Err: err}
	}
	if conn == nil {
		return Result{Err: ErrNilConnection}
	}

	// 新连接的首个流必须可用
	res, err := conn.ReserveStream(true, wantsPush)
	if res != pkgif.Reserved {
		if err == nil {
			err = newConnUnusable(res)
		}
		if cerr := conn.Close(); cerr != nil {
			logger.Debug("关闭新连接失败", "conn", log.TruncateID(conn.ID(), 8), "error", cerr)
		}
		return Result{Err: err}
	}

	// 准入结果只影响之后的复用，本次请求总是使用这条连接
	m.pool.Offer(conn)
	return Result{Conn: conn}
}

// Stop 关闭连接池
func (m *Manager) Stop() *ShutdownReport {
	return m.pool.Stop()
}

// Stats 连接池统计
type Stats struct {
	Connections int
	Keys        []types.ConnKey
	FailedKeys  []types.ConnKey
	Stopping    bool
}

// Stats 返回当前统计
func (m *Manager) Stats() Stats {
	return Stats{
		Connections: m.pool.Len(),
		Keys:        m.pool.Keys(),
		FailedKeys:  m.failed.Keys(),
		Stopping:    m.pool.Stopping(),
	}
}
