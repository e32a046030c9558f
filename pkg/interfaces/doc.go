// Package interfaces 定义 go-h2pool 的公共接口
//
//   - h2conn.go - 可复用的 HTTP/2 连接、交换与协商器
//
// 连接池只依赖这里的接口，协商器的具体实现位于
// internal/core/negotiator，测试替身位于 tests/mocks。
//
// 本包仅包含接口与少量值类型，数据结构定义在 pkg/types 包中。
package interfaces
