package negotiator

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/net/http2"

	"github.com/dep2p/go-h2pool/internal/core/settings"
	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
	"github.com/dep2p/go-h2pool/pkg/lib/log"
	"github.com/dep2p/go-h2pool/pkg/types"
)

var logger = log.Logger("core/negotiator")

const (
	protoH2     = "h2"
	protoHTTP11 = "http/1.1"
)

// Negotiator TLS + ALPN 协商器
type Negotiator struct {
	config   *Config
	builder  *settings.Builder
	sessions *sessionCache
}

// New 创建 Negotiator，builder 为 nil 时使用默认参数
func New(cfg *Config, builder *settings.Builder) (*Negotiator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if builder == nil {
		builder = settings.NewBuilder(nil)
	}
	sessions, err := newSessionCache(cfg.SessionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("negotiator: session cache: %w", err)
	}
	return &Negotiator{config: cfg, builder: builder, sessions: sessions}, nil
}

// Negotiate 拨号、TLS 握手并确认对端选中 h2
//
// 对端选择其他协议时关闭连接并返回 *types.ALPNError。
func (n *Negotiator) Negotiate(ctx context.Context, req *http.Request, _ pkgif.Exchange) (pkgif.Connection, error) {
	key, err := types.KeyFor(req)
	if err != nil {
		return nil, err
	}
	if !key.Secure() {
		return nil, fmt.Errorf("%w: %s", ErrNotSecure, key)
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{
			Timeout:   n.config.DialTimeout,
			KeepAlive: n.config.KeepAlive,
		},
		Config: n.config.tlsConfigFor(key.Host, n.clientSessionCache()),
	}
	raw, err := dialer.DialContext(ctx, "tcp", key.Addr())
	if err != nil {
		return nil, fmt.Errorf("negotiator: dial %s: %w", key, err)
	}
	tlsConn := raw.(*tls.Conn)

	proto := tlsConn.ConnectionState().NegotiatedProtocol
	if proto != protoH2 {
		_ = tlsConn.Close()
		return nil, &types.ALPNError{Key: key, Negotiated: proto}
	}

	s := n.builder.Build(n.config.DefaultPush)
	cc, err := n.transport(s).NewClientConn(tlsConn)
	if err != nil {
		_ = tlsConn.Close()
		return nil, fmt.Errorf("negotiator: start h2 on %s: %w", key, err)
	}

	c := newConn(key, cc, n.config.GoAwayTimeout)
	logger.Debug("h2 连接已建立",
		"conn", log.TruncateID(c.ID(), 8),
		"key", key.String(),
		"remote", tlsConn.RemoteAddr().String(),
		"connWindow", n.builder.ConnectionWindowSize(s))
	return c, nil
}

// clientSessionCache 避免把 nil 的 *sessionCache 包装成非 nil 接口
func (n *Negotiator) clientSessionCache() tls.ClientSessionCache {
	if n.sessions == nil {
		return nil
	}
	return n.sessions
}

// transport 按 SETTINGS 配置 http2.Transport
//
// x/net 客户端不接受推送，也不开放流控窗口的配置，所以只映射头部表、
// 帧大小和头部列表三个参数。
func (n *Negotiator) transport(s settings.Settings) *http2.Transport {
	return &http2.Transport{
		MaxHeaderListSize:         uint32(s.MaxHeaderListSize),
		MaxReadFrameSize:          uint32(s.MaxFrameSize),
		MaxDecoderHeaderTableSize: uint32(s.HeaderTableSize),
	}
}

var _ pkgif.Negotiator = (*Negotiator)(nil)
