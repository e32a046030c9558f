// Package h2pool 实现 HTTP/2 连接的复用、协商编排与关闭
//
// 三个核心部件：
//
//	Pool     按 (scheme, host, port) 缓存每个目标唯一的可复用连接
//	Manager  请求入口：复用、发起协商，或指示调用方回退到 HTTP/1.1
//	Stop     排空连接池，每条连接按固定的四步关闭
//
// # 锁
//
// Pool 的互斥锁覆盖查找、预留、驱逐、准入、删除和 stopping 标志，
// 永远不会在协商或任何阻塞的传输操作期间持有。被拒绝的候选连接和
// 被替换下来的旧连接都在释放锁之后关闭。
//
// # 结果
//
// Acquire 对调用方只有三种结果：可用连接、回退（Result.Fallback），
// 或首次发现某目标不可恢复时的协商错误。失效连接的驱逐和准入竞争
// 的失败都不会以错误形式出现。
package h2pool
