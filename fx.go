package h2pool

import (
	"crypto/tls"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-h2pool/config"
	corepool "github.com/dep2p/go-h2pool/internal/core/h2pool"
	"github.com/dep2p/go-h2pool/internal/core/negotiator"
	"github.com/dep2p/go-h2pool/internal/core/settings"
	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
	"github.com/dep2p/go-h2pool/pkg/lib/log"
)

var fxLogger = log.Logger("h2pool/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：settings → negotiator → h2pool。
// 提供了自定义协商器时不加载 negotiator 模块。
func buildFxApp(cfg *config.Config, o *options, c *Client) (*fx.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		// 配置注入
		fx.Supply(cfg),
		fx.Provide(func() settings.Source { return cfg }),

		settings.Module,
	}

	if o.tlsConfig != nil {
		tc := o.tlsConfig
		modules = append(modules, fx.Provide(func() *tls.Config { return tc }))
	}

	if o.negotiator != nil {
		n := o.negotiator
		modules = append(modules, fx.Provide(func() pkgif.Negotiator { return n }))
	} else {
		modules = append(modules, negotiator.Module)
	}

	if o.registerer != nil {
		reg := o.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}

	modules = append(modules, corepool.Module)

	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	modules = append(modules,
		fx.Populate(&c.manager, &c.builder),
		fx.WithLogger(newFxEventLogger),
	)

	return fx.New(modules...), nil
}

// newFxEventLogger Debug 级别开启时输出 Fx 事件，否则静默
func newFxEventLogger() fxevent.Logger {
	if fxLogger.Enabled(log.LevelDebug) {
		if z, err := zap.NewDevelopment(); err == nil {
			return &fxevent.ZapLogger{Logger: z.Named("fx")}
		}
	}
	return &fxevent.ZapLogger{Logger: zap.NewNop()}
}
