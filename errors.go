package h2pool

import "errors"

// 公共错误定义
var (
	// ErrClientClosed 客户端已关闭
	ErrClientClosed = errors.New("h2pool: client closed")

	// ErrNotRoundTripper 协商器返回的连接不能执行请求
	ErrNotRoundTripper = errors.New("h2pool: connection does not implement http.RoundTripper")

	// ErrNilOption 选项参数为空
	ErrNilOption = errors.New("h2pool: nil option value")
)
