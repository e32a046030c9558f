package negotiator

import (
	"crypto/tls"

	lru "github.com/hashicorp/golang-lru/v2"
)

// sessionCache 有界的 TLS 会话缓存，供重新协商同一目标时恢复会话
type sessionCache struct {
	cache *lru.Cache[string, *tls.ClientSessionState]
}

// newSessionCache 创建容量为 size 的会话缓存，size <= 0 时返回 nil
func newSessionCache(size int) (*sessionCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, *tls.ClientSessionState](size)
	if err != nil {
		return nil, err
	}
	return &sessionCache{cache: c}, nil
}

// Get 实现 tls.ClientSessionCache
func (s *sessionCache) Get(sessionKey string) (*tls.ClientSessionState, bool) {
	return s.cache.Get(sessionKey)
}

// Put 实现 tls.ClientSessionCache，cs 为 nil 时删除条目
func (s *sessionCache) Put(sessionKey string, cs *tls.ClientSessionState) {
	if cs == nil {
		s.cache.Remove(sessionKey)
		return
	}
	s.cache.Add(sessionKey, cs)
}

// Len 返回缓存的会话数
func (s *sessionCache) Len() int {
	return s.cache.Len()
}

var _ tls.ClientSessionCache = (*sessionCache)(nil)
