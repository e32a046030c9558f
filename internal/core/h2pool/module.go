package h2pool

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-h2pool/config"
	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
)

// Params Manager 依赖参数
type Params struct {
	fx.In

	Negotiator pkgif.Negotiator
	UnifiedCfg *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
	Clock      clock.Clock           `optional:"true"`
}

// Output Manager 模块输出
type Output struct {
	fx.Out

	Manager *Manager
	Metrics *Metrics
}

// Module h2pool Fx 模块
var Module = fx.Module("h2pool",
	fx.Provide(provideManager),
	fx.Invoke(registerLifecycle),
)

func provideManager(p Params) (Output, error) {
	metrics := NewMetrics(p.Registerer)
	m, err := NewManager(p.Negotiator,
		WithConfig(ConfigFromUnified(p.UnifiedCfg)),
		WithMetrics(metrics),
		WithClock(p.Clock),
	)
	if err != nil {
		return Output{}, err
	}
	return Output{Manager: m, Metrics: metrics}, nil
}

// registerLifecycle 在应用停止时排空连接池
func registerLifecycle(lc fx.Lifecycle, m *Manager) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			report := m.Stop()
			if err := report.Err(); err != nil {
				logger.Warn("连接池关闭时部分步骤出错", "closed", report.Closed, "error", err)
			}
			return nil
		},
	})
}
