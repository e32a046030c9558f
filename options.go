package h2pool

import (
	"crypto/tls"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-h2pool/config"
	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config     *config.Config
	configFile string
	tlsConfig  *tls.Config
	registerer prometheus.Registerer
	push       *bool
	negotiator pkgif.Negotiator

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// resolveConfig 返回最终使用的配置
//
// 配置文件与 WithConfig 同时出现时以文件为准。
func (o *options) resolveConfig() (*config.Config, error) {
	if o.configFile != "" {
		return config.LoadFile(o.configFile)
	}
	if o.config != nil {
		return o.config, nil
	}
	return config.NewConfig(), nil
}

// WithConfig 使用给定配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return ErrNilOption
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return ErrNilOption
		}
		o.configFile = path
		return nil
	}
}

// WithTLSConfig 设置 TLS 基础配置（h2 协商与 HTTP/1.1 回退共用）
func WithTLSConfig(tc *tls.Config) Option {
	return func(o *options) error {
		if tc == nil {
			return ErrNilOption
		}
		o.tlsConfig = tc
		return nil
	}
}

// WithMetricsRegisterer 把连接池指标注册到 reg
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return ErrNilOption
		}
		o.registerer = reg
		return nil
	}
}

// WithPush 请求服务端推送
//
// 内置协商器基于 x/net/http2 客户端，不支持推送，此选项只对
// WithNegotiator 提供的协商器有效。
func WithPush(enable bool) Option {
	return func(o *options) error {
		o.push = &enable
		return nil
	}
}

// WithNegotiator 替换内置的 TLS + ALPN 协商器
//
// 返回的连接需要实现 http.RoundTripper 才能用于 Do。
func WithNegotiator(n pkgif.Negotiator) Option {
	return func(o *options) error {
		if n == nil {
			return ErrNilOption
		}
		o.negotiator = n
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
