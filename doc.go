// Package h2pool 提供复用 HTTP/2 连接的 HTTP 客户端
//
// 每个请求先查连接池：命中则直接复用；未命中且目标是 https 时通过
// TLS + ALPN 协商新的 h2 连接；目标是 http，或者此前 ALPN 协商失败过，
// 则直接回退到 HTTP/1.1。协商成功的连接入池，供之后的请求复用。
//
// # 快速开始
//
//	client, err := h2pool.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	req, _ := http.NewRequest(http.MethodGet, "https://example.com/", nil)
//	resp, err := client.Do(req)
//
// Client 实现 http.RoundTripper，也可以作为 http.Client 的 Transport：
//
//	hc := &http.Client{Transport: client}
//
// # 配置
//
// HTTP/2 SETTINGS 参数通过命名参数配置，配置文件中的 properties 优先，
// 其次是环境变量：
//
//	h2.hpack.maxheadertablesize   H2POOL_H2_HPACK_MAXHEADERTABLESIZE
//	h2.enablepush                 H2POOL_H2_ENABLEPUSH
//	h2.maxstreams                 H2POOL_H2_MAXSTREAMS
//	h2.windowsize                 H2POOL_H2_WINDOWSIZE
//	h2.maxframesize               H2POOL_H2_MAXFRAMESIZE
//	h2.maxheadersize              H2POOL_H2_MAXHEADERSIZE
//	h2.connectionwindowsize       H2POOL_H2_CONNECTIONWINDOWSIZE
//
// 越界或无法解析的值回退到默认值。
//
// # 关闭
//
// Close 排空连接池：每条连接依次中止进行中的流、发送 GOAWAY、以
// "HTTP/2 client stopped" 为原因关闭，再中止一次期间新建的流。
package h2pool
