package types

import (
	"errors"
	"fmt"
)

// ErrALPNNegotiation 对端未通过 ALPN 选择 h2
//
// 协商类失败会被记录下来，之后对同一目标直接回退到 HTTP/1.1。
// 使用 errors.Is 判断。
var ErrALPNNegotiation = errors.New("alpn: peer did not select h2")

// ALPNError ALPN 协商失败详情
type ALPNError struct {
	// Key 目标连接键
	Key ConnKey

	// Negotiated 对端实际选择的协议，未选择时为空
	Negotiated string
}

func (e *ALPNError) Error() string {
	proto := e.Negotiated
	if proto == "" {
		proto = "<none>"
	}
	return fmt.Sprintf("alpn: %s negotiated %s instead of h2", e.Key, proto)
}

// Is 使 errors.Is(err, ErrALPNNegotiation) 成立
func (e *ALPNError) Is(target error) bool {
	return target == ErrALPNNegotiation
}
