package config

import (
	"errors"
	"time"
)

// NegotiationConfig 连接协商配置
//
// 只影响内置的 TLS + ALPN 协商器；自定义 Negotiator 时仅 Timeout 生效。
type NegotiationConfig struct {
	// Timeout 单次协商（拨号 + TLS 握手 + HTTP/2 前言）的超时
	Timeout Duration `json:"timeout"`

	// DialTimeout TCP 拨号超时
	DialTimeout Duration `json:"dial_timeout"`

	// KeepAlive TCP keep-alive 周期，0 使用系统默认
	KeepAlive Duration `json:"keep_alive,omitempty"`

	// InsecureSkipVerify 跳过服务端证书校验，仅用于测试
	InsecureSkipVerify bool `json:"insecure_skip_verify,omitempty"`

	// SessionCacheSize TLS 会话缓存容量，0 关闭会话恢复
	SessionCacheSize int `json:"session_cache_size"`
}

// DefaultNegotiationConfig 返回默认协商配置
func DefaultNegotiationConfig() NegotiationConfig {
	return NegotiationConfig{
		Timeout:          Duration(30 * time.Second),
		DialTimeout:      Duration(10 * time.Second),
		KeepAlive:        Duration(30 * time.Second),
		SessionCacheSize: 64,
	}
}

// Validate 验证协商配置
func (c NegotiationConfig) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("negotiation timeout must be positive")
	}
	if c.DialTimeout <= 0 {
		return errors.New("dial timeout must be positive")
	}
	if c.DialTimeout > c.Timeout {
		return errors.New("dial timeout must not exceed negotiation timeout")
	}
	if c.KeepAlive < 0 {
		return errors.New("keep alive must not be negative")
	}
	if c.SessionCacheSize < 0 {
		return errors.New("session cache size must not be negative")
	}
	return nil
}

// ShutdownConfig 关闭配置
type ShutdownConfig struct {
	// GoAwayTimeout 发送 GOAWAY 后等待进行中请求完成的上限
	GoAwayTimeout Duration `json:"goaway_timeout"`
}

// DefaultShutdownConfig 返回默认关闭配置
func DefaultShutdownConfig() ShutdownConfig {
	return ShutdownConfig{
		GoAwayTimeout: Duration(5 * time.Second),
	}
}

// Validate 验证关闭配置
func (c ShutdownConfig) Validate() error {
	if c.GoAwayTimeout < 0 {
		return errors.New("goaway timeout must not be negative")
	}
	return nil
}
