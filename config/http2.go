package config

import (
	"errors"
	"fmt"
	"strings"
)

// PropertyPrefix 命名参数前缀
const PropertyPrefix = "h2."

// HTTP2Config HTTP/2 参数配置
type HTTP2Config struct {
	// DefaultPush h2.enablepush 未配置时是否接受服务端推送
	DefaultPush bool `json:"default_push"`

	// Properties 命名参数，如 "h2.windowsize": "16777216"
	// 值保持字符串形式，范围校验在构建 SETTINGS 时进行
	Properties map[string]string `json:"properties,omitempty"`
}

// DefaultHTTP2Config 返回默认 HTTP/2 配置
func DefaultHTTP2Config() HTTP2Config {
	return HTTP2Config{
		DefaultPush: false,
		Properties:  make(map[string]string),
	}
}

// Validate 验证 HTTP/2 配置
func (c HTTP2Config) Validate() error {
	for name := range c.Properties {
		if !strings.HasPrefix(name, PropertyPrefix) {
			return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
		}
	}
	return nil
}

// WithProperty 设置命名参数
func (c HTTP2Config) WithProperty(name, value string) HTTP2Config {
	props := make(map[string]string, len(c.Properties)+1)
	for k, v := range c.Properties {
		props[k] = v
	}
	props[name] = value
	c.Properties = props
	return c
}

// ErrUnknownProperty 参数名不在 h2.* 命名空间下
var ErrUnknownProperty = errors.New("config: property must start with \"h2.\"")
