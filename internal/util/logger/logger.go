// Package logger 根据环境变量构建 go-h2pool 的默认日志 handler
//
// 组件通过 pkg/lib/log.Logger 获取 LazyLogger，本包只负责安装
// slog.Default()，让级别可以按组件配置：
//
//	H2POOL_LOG_LEVEL=core/h2pool=debug,core/negotiator=debug,warn
//	H2POOL_LOG_FORMAT=json
package logger

import (
	"io"
	"log/slog"

	"github.com/dep2p/go-h2pool/pkg/lib/log"
)

// New 按配置创建 Logger
func New(w io.Writer, cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.minLevel(),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	var inner slog.Handler
	if cfg.Format == FormatJSON {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}
	return slog.New(newComponentHandler(cfg, inner))
}

// Setup 从环境变量构建 Logger 并设置为默认
func Setup(w io.Writer) *slog.Logger {
	l := New(w, ConfigFromEnv())
	log.SetDefault(l)
	return l
}
