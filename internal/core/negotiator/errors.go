package negotiator

import "errors"

var (
	// ErrNotSecure 目标不是 https，无法通过 ALPN 协商
	ErrNotSecure = errors.New("negotiator: scheme is not https")

	// ErrConnClosed 连接已关闭
	ErrConnClosed = errors.New("negotiator: connection closed")
)
