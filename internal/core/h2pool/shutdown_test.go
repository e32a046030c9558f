package h2pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/dep2p/go-h2pool/pkg/types"
	"github.com/dep2p/go-h2pool/tests/mocks"
)

// TestPool_StopDrains 测试关闭后池为空且每条连接都执行了全部步骤
func TestPool_StopDrains(t *testing.T) {
	p := NewPool(nil)

	var conns []*mocks.MockConnection
	for _, host := range []string{"a.example", "b.example", "c.example"} {
		c := mocks.NewMockConnection(types.ConnKey{Scheme: types.SchemeHTTPS, Host: host, Port: 443})
		require.True(t, p.Offer(c))
		conns = append(conns, c)
	}

	report := p.Stop()
	require.NotNil(t, report)

	assert.Zero(t, p.Len())
	assert.True(t, p.Stopping())
	assert.Equal(t, 1, report.Passes)
	assert.Equal(t, 3, report.Closed)
	assert.Len(t, report.Outcomes, 12)
	assert.NoError(t, report.Err())

	for _, c := range conns {
		assert.Equal(t, 2, c.CloseAllStreamsCount())
		assert.Equal(t, 1, c.CloseCount())
		assert.Equal(t, 1, c.ShutdownCount())
		assert.ErrorIs(t, c.ShutdownCause(), ErrStopped)
	}

	t.Log("✅ 连接池已排空")
}

// TestPool_StopStepOrder 测试步骤顺序
func TestPool_StopStepOrder(t *testing.T) {
	p := NewPool(nil)
	require.True(t, p.Offer(mocks.NewMockConnection(testKey)))

	report := p.Stop()
	require.Len(t, report.Outcomes, 4)
	assert.Equal(t, StepCloseStreams, report.Outcomes[0].Step)
	assert.Equal(t, StepGoAway, report.Outcomes[1].Step)
	assert.Equal(t, StepShutdown, report.Outcomes[2].Step)
	assert.Equal(t, StepCloseStreamsAgain, report.Outcomes[3].Step)
	for _, o := range report.Outcomes {
		assert.Equal(t, testKey, o.Key)
	}
}

// TestPool_StopStepErrorsIsolated 测试单步出错不影响后续步骤
func TestPool_StopStepErrorsIsolated(t *testing.T) {
	p := NewPool(nil)
	c := mocks.NewMockConnection(testKey)
	c.CloseAllStreamsErr = errors.New("reset failed")
	c.CloseFunc = func() error { panic("write on closed socket") }
	c.ShutdownErr = errors.New("shutdown failed")
	require.True(t, p.Offer(c))

	report := p.Stop()

	assert.Zero(t, p.Len())
	assert.Equal(t, 2, c.CloseAllStreamsCount())
	assert.Equal(t, 1, c.CloseCount())
	assert.Equal(t, 1, c.ShutdownCount())

	failed := report.Failed()
	assert.Len(t, failed, 4)
	assert.Len(t, multierr.Errors(report.Err()), 4)

	var stepErr *StepError
	require.ErrorAs(t, report.Err(), &stepErr)
	assert.Equal(t, c.ID(), stepErr.ConnID)
}

// TestPool_StopLatecomer 测试关闭过程中落地的准入被下一轮排空
func TestPool_StopLatecomer(t *testing.T) {
	p := NewPool(nil)
	first := mocks.NewMockConnection(testKey)
	require.True(t, p.Offer(first))

	// 模拟 stopping 生效前已经进入准入的连接：关闭第一条连接时直接写入映射
	late := mocks.NewMockConnection(types.ConnKey{Scheme: types.SchemeHTTPS, Host: "late.example", Port: 443})
	first.CloseFunc = func() error {
		p.mu.Lock()
		p.conns[late.Key()] = late
		p.mu.Unlock()
		return nil
	}

	report := p.Stop()

	assert.Zero(t, p.Len())
	assert.Equal(t, 2, report.Passes)
	assert.Equal(t, 1, late.CloseCount())
	assert.Equal(t, 2, late.CloseAllStreamsCount())
}

// TestPool_StopEmpty 测试空池关闭
func TestPool_StopEmpty(t *testing.T) {
	p := NewPool(nil)
	report := p.Stop()
	assert.Zero(t, report.Passes)
	assert.Empty(t, report.Outcomes)
	assert.NoError(t, report.Err())
}

// TestStep_String 测试步骤名称
func TestStep_String(t *testing.T) {
	assert.Equal(t, "goaway", StepGoAway.String())
	assert.Equal(t, "step(9)", Step(9).String())
}
