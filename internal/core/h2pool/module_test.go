package h2pool

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"

	"github.com/dep2p/go-h2pool/config"
	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
	"github.com/dep2p/go-h2pool/tests/mocks"
)

// TestModule 测试 Fx 模块装配与停止钩子
func TestModule(t *testing.T) {
	ctrl := gomock.NewController(t)
	neg := mocks.NewMockNegotiator(ctrl)
	reg := prometheus.NewRegistry()

	cfg := config.NewConfig()
	cfg.Negotiation.Timeout = config.Duration(cfg.Negotiation.DialTimeout)

	var m *Manager
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(
			func() pkgif.Negotiator { return neg },
			func() prometheus.Registerer { return reg },
		),
		Module,
		fx.Populate(&m),
	)
	app.RequireStart()

	require.NotNil(t, m)
	assert.Equal(t, cfg.Negotiation.Timeout.Duration(), m.config.NegotiateTimeout)

	conn := mocks.NewMockConnection(testKey)
	require.True(t, m.Pool().Offer(conn))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	app.RequireStop()

	assert.Zero(t, m.Pool().Len())
	assert.Equal(t, 1, conn.CloseCount())

	t.Log("✅ 停止应用时连接池被排空")
}

// TestConfigFromUnified 测试从统一配置转换
func TestConfigFromUnified(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ConfigFromUnified(nil))

	cfg := config.NewConfig()
	assert.Equal(t, cfg.Negotiation.Timeout.Duration(), ConfigFromUnified(cfg).NegotiateTimeout)
}
