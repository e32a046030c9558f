package h2pool

import (
	"sync"

	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
	"github.com/dep2p/go-h2pool/pkg/lib/log"
	"github.com/dep2p/go-h2pool/pkg/types"
)

var logger = log.Logger("core/h2pool")

// Pool HTTP/2 连接池
//
// 每个键最多一条权威连接。池只持有非独占引用，连接在池中意味着
// 可被其他请求复用；移出池的连接仍可能继续服务已分配的交换。
type Pool struct {
	mu sync.Mutex

	// 连接表：key -> connection
	conns map[types.ConnKey]pkgif.Connection

	// stopping 只会从 false 变为 true
	stopping bool

	metrics *Metrics
}

// NewPool 创建连接池，metrics 为 nil 时使用未注册的指标
func NewPool(metrics *Metrics) *Pool {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Pool{
		conns:   make(map[types.ConnKey]pkgif.Connection),
		metrics: metrics,
	}
}

// Offer 提交一条连接，返回是否被准入
//
// 已关闭或已标记最终流的连接直接拒绝。stopping 之后的连接被关闭后拒绝。
// 同键已有连接时，只有候选支持推送而现有连接不支持才会替换；
// 否则候选被标记为最终流，只服务它自己当前的交换。
func (p *Pool) Offer(c pkgif.Connection) bool {
	key := c.Key()
	admitted := false
	var toClose pkgif.Connection
	var closeWhy string

	p.mu.Lock()
	switch {
	case !c.IsOpen():
		p.metrics.Rejections.WithLabelValues(rejectClosed).Inc()

	case c.IsFinalStream():
		p.metrics.Rejections.WithLabelValues(rejectFinal).Inc()

	case p.stopping:
		p.metrics.Rejections.WithLabelValues(rejectStopping).Inc()
		toClose, closeWhy = c, "连接池正在关闭"

	default:
		incumbent, ok := p.conns[key]
		switch {
		case !ok:
			p.conns[key] = c
			admitted = true

		case incumbent == c:
			admitted = true

		case c.ServerPushEnabled() && !incumbent.ServerPushEnabled():
			// 单次赋值完成替换，键在任何时刻都不会短暂缺失
			p.conns[key] = c
			incumbent.SetFinalStream()
			if incumbent.ShouldClose() {
				toClose, closeWhy = incumbent, "被支持推送的连接替换"
			}
			p.metrics.Replacements.Inc()
			admitted = true

		default:
			c.SetFinalStream()
			p.metrics.Rejections.WithLabelValues(rejectLostRace).Inc()
		}
	}
	if admitted {
		p.metrics.Admissions.Inc()
	}
	p.metrics.Entries.Set(float64(len(p.conns)))
	p.mu.Unlock()

	if toClose != nil {
		logger.Debug("关闭连接", "conn", log.TruncateID(toClose.ID(), 8), "key", key.String(), "reason", closeWhy)
		if err := toClose.Close(); err != nil {
			logger.Debug("关闭连接失败", "conn", log.TruncateID(toClose.ID(), 8), "error", err)
		}
	}
	if admitted {
		logger.Debug("连接已入池", "conn", log.TruncateID(c.ID(), 8), "key", key.String())
	}
	return admitted
}

// Delete 移除连接
//
// 只有当前映射的连接与 c 是同一个对象时才删除，避免误删已被替换的新连接。
// 连接不在池中时什么也不做。
func (p *Pool) Delete(c pkgif.Connection) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deleteLocked(c)
}

func (p *Pool) deleteLocked(c pkgif.Connection) bool {
	key := c.Key()
	if cur, ok := p.conns[key]; !ok || cur != c {
		return false
	}
	delete(p.conns, key)
	p.metrics.Entries.Set(float64(len(p.conns)))
	return true
}

// Get 返回键对应的连接（不预留流）
func (p *Pool) Get(key types.ConnKey) (pkgif.Connection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.conns[key]
	return c, ok
}

// Len 返回池中连接数
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

// Keys 返回池中所有键
func (p *Pool) Keys() []types.ConnKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]types.ConnKey, 0, len(p.conns))
	for k := range p.conns {
		keys = append(keys, k)
	}
	return keys
}

// Stopping 是否已开始关闭
func (p *Pool) Stopping() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopping
}

func (p *Pool) snapshot() []pkgif.Connection {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]pkgif.Connection, 0, len(p.conns))
	for _, c := range p.conns {
		out = append(out, c)
	}
	return out
}

// lookupResult 查找结果
type lookupResult struct {
	conn     pkgif.Connection
	fallback bool
	err      error
}

// lookup 查找并预留可复用连接
//
// 查找、预留、驱逐和回退判断在同一次加锁内完成，避免驱逐与回退判断之间的竞争。
// 已关闭、已标记最终流或预留为 Unusable 的连接被驱逐，按未找到处理；
// 未找到时由 mustFallback 决定是否回退。
func (p *Pool) lookup(key types.ConnKey, wantsPush bool, mustFallback func() bool) lookupResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.conns[key]; ok {
		res := pkgif.Unusable
		var err error
		if c.IsOpen() && !c.IsFinalStream() {
			res, err = c.ReserveStream(true, wantsPush)
		}
		switch res {
		case pkgif.Reserved:
			p.metrics.Reuses.Inc()
			return lookupResult{conn: c}
		case pkgif.ReserveFailed:
			return lookupResult{err: err}
		default:
			p.deleteLocked(c)
			p.metrics.Evictions.Inc()
			logger.Debug("驱逐不可用连接", "conn", log.TruncateID(c.ID(), 8), "key", key.String())
		}
	}

	if mustFallback() {
		p.metrics.Fallbacks.Inc()
		return lookupResult{fallback: true}
	}
	return lookupResult{}
}
