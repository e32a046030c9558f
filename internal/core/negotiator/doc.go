// Package negotiator 建立新的 HTTP/2 连接
//
// Negotiator 通过 TLS 拨号并以 ALPN 协商 "h2"。对端没有选中 h2 时
// 返回 *types.ALPNError（满足 errors.Is(err, types.ErrALPNNegotiation)），
// 调用方据此把目标记入失败集合并回退到 HTTP/1.1。
//
// 协商成功后在 TLS 连接上创建 x/net/http2 的 ClientConn，并包装为
// Conn。Conn 实现连接池需要的全部能力，同时是一个 http.RoundTripper。
package negotiator
