// Package failures 记录 ALPN 协商失败的目标
//
// 一旦某个 https 目标协商 h2 失败，之后对它的请求直接回退到 HTTP/1.1，
// 不再重复协商。集合只增不减，生命周期与所属连接池相同。
//
// Registry 自带并发安全，不依赖连接池的互斥锁。
package failures

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/dep2p/go-h2pool/pkg/lib/log"
	"github.com/dep2p/go-h2pool/pkg/types"
)

var logger = log.Logger("core/failures")

// Registry 协商失败目标集合
type Registry struct {
	keys mapset.Set[types.ConnKey]
}

// NewRegistry 创建空的失败集合
func NewRegistry() *Registry {
	return &Registry{keys: mapset.NewSet[types.ConnKey]()}
}

// Add 记录失败目标，返回是否为首次记录
func (r *Registry) Add(key types.ConnKey) bool {
	added := r.keys.Add(key)
	if added {
		logger.Info("记录 h2 协商失败目标", "key", key.String())
	}
	return added
}

// Contains 目标是否曾经协商失败
func (r *Registry) Contains(key types.ConnKey) bool {
	return r.keys.Contains(key)
}

// Len 失败目标数量
func (r *Registry) Len() int {
	return r.keys.Cardinality()
}

// Keys 返回失败目标快照
func (r *Registry) Keys() []types.ConnKey {
	return r.keys.ToSlice()
}
