package h2pool

import (
	"time"

	"github.com/dep2p/go-h2pool/config"
)

// Config Manager 配置
type Config struct {
	// NegotiateTimeout 单次协商的上限
	NegotiateTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		NegotiateTimeout: 30 * time.Second,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.NegotiateTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ConfigFromUnified 从统一配置创建 Manager 配置
func ConfigFromUnified(cfg *config.Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return &Config{
		NegotiateTimeout: cfg.Negotiation.Timeout.Duration(),
	}
}
