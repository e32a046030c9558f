package negotiator

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http2"

	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
	"github.com/dep2p/go-h2pool/pkg/lib/log"
	"github.com/dep2p/go-h2pool/pkg/types"
)

// Conn 基于 http2.ClientConn 的池化连接
type Conn struct {
	id            string
	key           types.ConnKey
	cc            *http2.ClientConn
	goAwayTimeout time.Duration

	mu       sync.Mutex
	reserved int
	active   int
	final    bool
	closed   bool
	// cause 非空表示连接已被 Shutdown，之后的交换以它失败
	cause   error
	nextID  uint64
	cancels map[uint64]context.CancelFunc
}

func newConn(key types.ConnKey, cc *http2.ClientConn, goAwayTimeout time.Duration) *Conn {
	return &Conn{
		id:            uuid.NewString(),
		key:           key,
		cc:            cc,
		goAwayTimeout: goAwayTimeout,
		cancels:       make(map[uint64]context.CancelFunc),
	}
}

// ID 返回连接 ID
func (c *Conn) ID() string { return c.id }

// Key 返回连接池键
func (c *Conn) Key() types.ConnKey { return c.key }

// IsOpen 连接是否可以继续发起请求
func (c *Conn) IsOpen() bool {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return false
	}
	st := c.cc.State()
	return !st.Closed && !st.Closing
}

// ReserveStream 预留一个流
//
// 已被 Shutdown 的连接返回 ReserveFailed 和关闭原因。已关闭、已标记最终流、
// 需要推送或 ClientConn 不能再接收请求（GOAWAY、并发上限、流 ID 用尽）时
// 返回 Unusable。x/net 没有独占预留的概念，exclusive 被忽略。
func (c *Conn) ReserveStream(_, wantsPush bool) (pkgif.ReserveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cause != nil {
		return pkgif.ReserveFailed, c.cause
	}
	if c.closed || c.final || wantsPush {
		return pkgif.Unusable, nil
	}
	if !c.cc.ReserveNewRequest() {
		return pkgif.Unusable, nil
	}
	c.reserved++
	return pkgif.Reserved, nil
}

// ReleaseStream 归还没有使用的预留
//
// ClientConn 的预留额度无法撤销，对端的并发名额会少一个。为避免名额
// 逐渐耗尽，连接在此时被标记为最终流：不再接受新的预留，最后一次交换
// 结束后自行关闭，池在下一次查找时将其驱逐。
func (c *Conn) ReleaseStream() {
	c.mu.Lock()
	if c.reserved > 0 {
		c.reserved--
	}
	c.final = true
	closeNow := c.idleFinalLocked()
	c.mu.Unlock()

	if closeNow {
		go c.closeFinal()
	}
}

// ServerPushEnabled x/net 客户端总是拒绝推送
func (c *Conn) ServerPushEnabled() bool { return false }

// IsFinalStream 是否已标记最终流
func (c *Conn) IsFinalStream() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.final
}

// SetFinalStream 标记最终流
//
// 之后 ReserveStream 返回 Unusable，已预留和进行中的交换照常完成，
// 最后一次交换结束后连接自行关闭。标记时已空闲的连接由调用方关闭。
func (c *Conn) SetFinalStream() {
	c.mu.Lock()
	c.final = true
	c.mu.Unlock()
}

// ShouldClose 是否已没有预留和进行中的交换
func (c *Conn) ShouldClose() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reserved == 0 && c.active == 0
}

func (c *Conn) idleFinalLocked() bool {
	return c.final && !c.closed && c.reserved == 0 && c.active == 0
}

// RoundTrip 在连接上执行一次交换
func (c *Conn) RoundTrip(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	if c.cause != nil {
		err := c.cause
		c.mu.Unlock()
		return nil, err
	}
	if c.reserved > 0 {
		c.reserved--
	}
	c.active++
	id := c.nextID
	c.nextID++
	ctx, cancel := context.WithCancel(req.Context())
	c.cancels[id] = cancel
	c.mu.Unlock()

	resp, err := c.cc.RoundTrip(req.WithContext(ctx))
	if err != nil {
		c.finish(id)
		return nil, err
	}
	resp.Body = &trackedBody{ReadCloser: resp.Body, done: func() { c.finish(id) }}
	return resp, nil
}

// finish 结束一次交换，最终流连接在最后一次交换结束后自行关闭
func (c *Conn) finish(id uint64) {
	c.mu.Lock()
	cancel, ok := c.cancels[id]
	if ok {
		delete(c.cancels, id)
		c.active--
	}
	closeNow := c.idleFinalLocked()
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closeNow {
		go c.closeFinal()
	}
}

func (c *Conn) closeFinal() {
	logger.Debug("最终流连接空闲，关闭", "conn", log.TruncateID(c.id, 8), "key", c.key.String())
	if err := c.Close(); err != nil {
		logger.Debug("关闭连接失败", "conn", log.TruncateID(c.id, 8), "error", err)
	}
}

// CloseAllStreams 取消所有进行中的交换
func (c *Conn) CloseAllStreams() error {
	c.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(c.cancels))
	for _, cancel := range c.cancels {
		cancels = append(cancels, cancel)
	}
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return nil
}

// Close 发送 GOAWAY，等待进行中请求结束后关闭
//
// 等待不超过 goAwayTimeout，超时后强制关闭。
func (c *Conn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.goAwayTimeout)
	defer cancel()
	err := c.cc.Shutdown(ctx)
	if err != nil {
		_ = c.cc.Close()
	}
	return err
}

// Shutdown 以 cause 关闭连接，之后的交换返回 cause
func (c *Conn) Shutdown(cause error) error {
	c.mu.Lock()
	if c.cause == nil {
		c.cause = cause
	}
	c.closed = true
	cancels := make([]context.CancelFunc, 0, len(c.cancels))
	for _, cancel := range c.cancels {
		cancels = append(cancels, cancel)
	}
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return c.cc.Close()
}

// trackedBody 在响应体关闭或读到 EOF 时结束交换
type trackedBody struct {
	io.ReadCloser
	once sync.Once
	done func()
}

func (b *trackedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err == io.EOF {
		b.once.Do(b.done)
	}
	return n, err
}

func (b *trackedBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.done)
	return err
}

var (
	_ pkgif.Connection  = (*Conn)(nil)
	_ http.RoundTripper = (*Conn)(nil)
)
