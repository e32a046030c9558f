// Package types 定义 go-h2pool 的公共数据结构
//
// 这是最底层的包，不依赖任何其他内部包。
//
//   - connkey.go     - 连接池键（scheme + host + port）
//   - negotiation.go - ALPN 协商失败错误
package types
