package settings

import "go.uber.org/fx"

// Params Settings 依赖参数
type Params struct {
	fx.In

	Source Source `optional:"true"`
}

// Module Settings Fx 模块
var Module = fx.Module("settings",
	fx.Provide(NewBuilderFromParams),
)

// NewBuilderFromParams 从参数创建 Builder
func NewBuilderFromParams(p Params) *Builder {
	return NewBuilder(p.Source)
}
