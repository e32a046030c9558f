package negotiator

import (
	"crypto/tls"
	"errors"
	"time"

	"github.com/dep2p/go-h2pool/config"
)

// Config Negotiator 配置
type Config struct {
	// DialTimeout TCP 拨号超时
	DialTimeout time.Duration

	// KeepAlive TCP keep-alive 周期
	KeepAlive time.Duration

	// GoAwayTimeout Close 发送 GOAWAY 后等待进行中请求的上限
	GoAwayTimeout time.Duration

	// DefaultPush 构建 SETTINGS 时 h2.enablepush 的默认值
	DefaultPush bool

	// TLSConfig 基础 TLS 配置，为 nil 时使用空配置
	TLSConfig *tls.Config

	// InsecureSkipVerify 跳过证书校验
	InsecureSkipVerify bool

	// SessionCacheSize TLS 会话缓存容量，0 关闭会话恢复
	//
	// 基础 TLSConfig 自带 ClientSessionCache 时使用它自己的缓存。
	SessionCacheSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		DialTimeout:      10 * time.Second,
		KeepAlive:        30 * time.Second,
		GoAwayTimeout:    5 * time.Second,
		SessionCacheSize: 64,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.DialTimeout <= 0 {
		return errors.New("negotiator: dial timeout must be positive")
	}
	if c.GoAwayTimeout < 0 {
		return errors.New("negotiator: goaway timeout must not be negative")
	}
	if c.SessionCacheSize < 0 {
		return errors.New("negotiator: session cache size must not be negative")
	}
	return nil
}

// ConfigFromUnified 从统一配置创建 Negotiator 配置
func ConfigFromUnified(cfg *config.Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return &Config{
		DialTimeout:        cfg.Negotiation.DialTimeout.Duration(),
		KeepAlive:          cfg.Negotiation.KeepAlive.Duration(),
		GoAwayTimeout:      cfg.Shutdown.GoAwayTimeout.Duration(),
		DefaultPush:        cfg.HTTP2.DefaultPush,
		InsecureSkipVerify: cfg.Negotiation.InsecureSkipVerify,
		SessionCacheSize:   cfg.Negotiation.SessionCacheSize,
	}
}

// tlsConfigFor 返回拨号 key 使用的 TLS 配置
func (c *Config) tlsConfigFor(serverName string, sessions tls.ClientSessionCache) *tls.Config {
	var tc *tls.Config
	if c.TLSConfig != nil {
		tc = c.TLSConfig.Clone()
	} else {
		tc = &tls.Config{}
	}
	tc.NextProtos = []string{protoH2, protoHTTP11}
	if tc.ServerName == "" {
		tc.ServerName = serverName
	}
	if c.InsecureSkipVerify {
		tc.InsecureSkipVerify = true
	}
	if tc.ClientSessionCache == nil && sessions != nil {
		tc.ClientSessionCache = sessions
	}
	return tc
}
