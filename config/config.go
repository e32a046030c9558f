// Package config 提供 go-h2pool 的统一配置
//
// 配置按功能分组：
//   - HTTP2: 推送默认值与命名参数（h2.*）
//   - Negotiation: TLS 拨号与 ALPN 协商
//   - Shutdown: 关闭时的 GOAWAY 等待
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.HTTP2.Properties["h2.maxframesize"] = "32768"
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
//
// 命名参数先查配置文件中的 properties，再查 H2POOL_* 环境变量，
// 见 properties.go。
package config

// Config 是 go-h2pool 的完整配置结构
type Config struct {
	// HTTP2 协议参数配置
	HTTP2 HTTP2Config `json:"http2"`

	// Negotiation 连接协商配置
	Negotiation NegotiationConfig `json:"negotiation"`

	// Shutdown 关闭配置
	Shutdown ShutdownConfig `json:"shutdown"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		HTTP2:       DefaultHTTP2Config(),
		Negotiation: DefaultNegotiationConfig(),
		Shutdown:    DefaultShutdownConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.HTTP2.Validate(); err != nil {
		return err
	}
	if err := c.Negotiation.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	return nil
}
