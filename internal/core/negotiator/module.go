package negotiator

import (
	"crypto/tls"

	"go.uber.org/fx"

	"github.com/dep2p/go-h2pool/config"
	"github.com/dep2p/go-h2pool/internal/core/settings"
	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
)

// Params Negotiator 依赖参数
type Params struct {
	fx.In

	Builder    *settings.Builder
	UnifiedCfg *config.Config `optional:"true"`
	TLSConfig  *tls.Config    `optional:"true"`
}

// Output Negotiator 模块输出
type Output struct {
	fx.Out

	Negotiator pkgif.Negotiator
}

// Module Negotiator Fx 模块
var Module = fx.Module("negotiator",
	fx.Provide(provideNegotiator),
)

func provideNegotiator(p Params) (Output, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	cfg.TLSConfig = p.TLSConfig

	n, err := New(cfg, p.Builder)
	if err != nil {
		return Output{}, err
	}
	return Output{Negotiator: n}, nil
}
