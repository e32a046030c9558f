package h2pool

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-h2pool/pkg/types"
	"github.com/dep2p/go-h2pool/tests/mocks"
)

var testKey = types.ConnKey{Scheme: types.SchemeHTTPS, Host: "example.com", Port: 443}

// TestPool_OfferInsert 测试空键准入
func TestPool_OfferInsert(t *testing.T) {
	p := NewPool(nil)
	c := mocks.NewMockConnection(testKey)

	assert.True(t, p.Offer(c))
	got, ok := p.Get(testKey)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(p.metrics.Entries))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.metrics.Admissions))

	t.Log("✅ 新连接入池")
}

// TestPool_OfferRejectsClosedOrFinal 测试已关闭或最终流连接被拒且不修改映射
func TestPool_OfferRejectsClosedOrFinal(t *testing.T) {
	p := NewPool(nil)
	incumbent := mocks.NewMockConnection(testKey)
	require.True(t, p.Offer(incumbent))

	closed := mocks.NewMockConnection(testKey)
	closed.Open = false
	closed.Push = true
	assert.False(t, p.Offer(closed))

	final := mocks.NewMockConnection(testKey)
	final.Final = true
	final.Push = true
	assert.False(t, p.Offer(final))

	got, _ := p.Get(testKey)
	assert.Same(t, incumbent, got)
	assert.Zero(t, incumbent.SetFinalStreamCount())
	assert.Zero(t, closed.CloseCount(), "已关闭的连接不需要再次关闭")

	other := types.ConnKey{Scheme: types.SchemeHTTPS, Host: "other.example", Port: 443}
	closedOther := mocks.NewMockConnection(other)
	closedOther.Open = false
	assert.False(t, p.Offer(closedOther))
	_, ok := p.Get(other)
	assert.False(t, ok)

	assert.Equal(t, float64(2), testutil.ToFloat64(p.metrics.Rejections.WithLabelValues(rejectClosed)))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.metrics.Rejections.WithLabelValues(rejectFinal)))
}

// TestPool_OfferWhileStopping 测试关闭后的候选被强制关闭
func TestPool_OfferWhileStopping(t *testing.T) {
	p := NewPool(nil)
	p.Stop()

	c := mocks.NewMockConnection(testKey)
	assert.False(t, p.Offer(c))
	assert.Equal(t, 1, c.CloseCount())
	assert.False(t, c.IsOpen())
	assert.Zero(t, p.Len())
}

// TestPool_OfferLosesRace 测试同键已有连接时候选被标记为最终流
func TestPool_OfferLosesRace(t *testing.T) {
	p := NewPool(nil)
	incumbent := mocks.NewMockConnection(testKey)
	candidate := mocks.NewMockConnection(testKey)

	require.True(t, p.Offer(incumbent))
	assert.False(t, p.Offer(candidate))

	assert.True(t, candidate.IsFinalStream())
	assert.False(t, incumbent.IsFinalStream())
	assert.Zero(t, candidate.CloseCount(), "候选仍需服务自己的交换")

	got, _ := p.Get(testKey)
	assert.Same(t, incumbent, got)
}

// TestPool_OfferPushReplaces 测试支持推送的连接替换旧连接
func TestPool_OfferPushReplaces(t *testing.T) {
	t.Run("IdleIncumbentClosed", func(t *testing.T) {
		p := NewPool(nil)
		incumbent := mocks.NewMockConnection(testKey)
		candidate := mocks.NewMockConnection(testKey)
		candidate.Push = true

		require.True(t, p.Offer(incumbent))
		assert.True(t, p.Offer(candidate))

		got, _ := p.Get(testKey)
		assert.Same(t, candidate, got)
		assert.Equal(t, 1, incumbent.SetFinalStreamCount())
		assert.Equal(t, 1, incumbent.CloseCount())
		assert.Equal(t, float64(1), testutil.ToFloat64(p.metrics.Replacements))
	})

	t.Run("BusyIncumbentKept", func(t *testing.T) {
		p := NewPool(nil)
		incumbent := mocks.NewMockConnection(testKey)
		incumbent.Active = 2
		candidate := mocks.NewMockConnection(testKey)
		candidate.Push = true

		require.True(t, p.Offer(incumbent))
		assert.True(t, p.Offer(candidate))

		assert.True(t, incumbent.IsFinalStream())
		assert.Zero(t, incumbent.CloseCount(), "有进行中交换时不关闭")
	})

	t.Run("BothPush", func(t *testing.T) {
		p := NewPool(nil)
		incumbent := mocks.NewMockConnection(testKey)
		incumbent.Push = true
		candidate := mocks.NewMockConnection(testKey)
		candidate.Push = true

		require.True(t, p.Offer(incumbent))
		assert.False(t, p.Offer(candidate))
		assert.True(t, candidate.IsFinalStream())
	})
}

// TestPool_OfferSameConnTwice 测试重复提交同一连接
func TestPool_OfferSameConnTwice(t *testing.T) {
	p := NewPool(nil)
	c := mocks.NewMockConnection(testKey)

	assert.True(t, p.Offer(c))
	assert.True(t, p.Offer(c))
	assert.False(t, c.IsFinalStream())
	assert.Equal(t, 1, p.Len())
}

// TestPool_ReplacementNeverAbsent 测试替换过程中键始终存在
func TestPool_ReplacementNeverAbsent(t *testing.T) {
	p := NewPool(nil)
	require.True(t, p.Offer(mocks.NewMockConnection(testKey)))

	stop := make(chan struct{})
	var missing int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if _, ok := p.Get(testKey); !ok {
				missing++
			}
		}
	}()

	for i := 0; i < 200; i++ {
		c := mocks.NewMockConnection(testKey)
		c.Push = i%2 == 0
		p.Offer(c)
	}
	close(stop)
	wg.Wait()

	assert.Zero(t, missing)
}

// TestPool_Delete 测试按身份删除
func TestPool_Delete(t *testing.T) {
	p := NewPool(nil)
	old := mocks.NewMockConnection(testKey)
	require.True(t, p.Offer(old))

	replacement := mocks.NewMockConnection(testKey)
	replacement.Push = true
	require.True(t, p.Offer(replacement))

	// 旧连接已被替换，删除它不影响新连接
	assert.False(t, p.Delete(old))
	got, ok := p.Get(testKey)
	require.True(t, ok)
	assert.Same(t, replacement, got)

	assert.True(t, p.Delete(replacement))
	assert.False(t, p.Delete(replacement), "重复删除无副作用")
	assert.Zero(t, p.Len())
	assert.Zero(t, testutil.ToFloat64(p.metrics.Entries))
}

// TestPool_ConcurrentOffers 测试并发提交后每个键只有一条权威连接
func TestPool_ConcurrentOffers(t *testing.T) {
	p := NewPool(nil)
	const n = 64

	conns := make([]*mocks.MockConnection, n)
	admitted := make([]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		conns[i] = mocks.NewMockConnection(testKey)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			admitted[i] = p.Offer(conns[i])
		}(i)
	}
	wg.Wait()

	count := 0
	for i, ok := range admitted {
		if ok {
			count++
			got, _ := p.Get(testKey)
			assert.Same(t, conns[i], got)
		} else {
			assert.True(t, conns[i].IsFinalStream())
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, p.Len())
}
