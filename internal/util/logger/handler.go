package logger

import (
	"context"
	"log/slog"
)

// componentHandler 按组件过滤级别的 slog.Handler
//
// 组件名来自 LazyLogger 附加的 "component" 属性。
type componentHandler struct {
	cfg   *Config
	level slog.Level
	inner slog.Handler
}

func newComponentHandler(cfg *Config, inner slog.Handler) *componentHandler {
	return &componentHandler{
		cfg:   cfg,
		level: cfg.DefaultLevel,
		inner: inner,
	}
}

// Enabled 检查是否启用指定级别
func (h *componentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle 处理日志记录
func (h *componentHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

// WithAttrs 添加属性，遇到 component 属性时切换到该组件的级别
func (h *componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	level := h.level
	for _, a := range attrs {
		if a.Key == "component" {
			level = h.cfg.LevelFor(a.Value.String())
		}
	}
	return &componentHandler{
		cfg:   h.cfg,
		level: level,
		inner: h.inner.WithAttrs(attrs),
	}
}

// WithGroup 添加组
func (h *componentHandler) WithGroup(name string) slog.Handler {
	return &componentHandler{
		cfg:   h.cfg,
		level: h.level,
		inner: h.inner.WithGroup(name),
	}
}
