package interfaces

import (
	"context"
	"net/http"

	"github.com/dep2p/go-h2pool/pkg/types"
)

// ReserveResult 流预留结果
//
// 三态结果替代"抛错即驱逐"的控制流：
//   - Reserved: 预留成功，连接可用
//   - Unusable: 连接已关闭或无法满足能力要求，调用方应将其驱逐
//   - ReserveFailed: 预留检查本身出错，错误需要传播给调用方
type ReserveResult int

const (
	// Reserved 预留成功
	Reserved ReserveResult = iota
	// Unusable 连接不可用
	Unusable
	// ReserveFailed 预留检查出错
	ReserveFailed
)

// String 返回结果名称
func (r ReserveResult) String() string {
	switch r {
	case Reserved:
		return "reserved"
	case Unusable:
		return "unusable"
	case ReserveFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Connection HTTP/2 连接能力接口
//
// 连接池只持有非独占引用；连接是否在池中决定了它能否被其他请求复用。
// 实现必须是并发安全的。ReserveStream、IsOpen 等检查方法不得阻塞，
// 因为连接池会在持锁状态下调用它们。
type Connection interface {
	// ID 返回连接唯一标识（用于日志）
	ID() string

	// Key 返回连接所属的连接池键
	Key() types.ConnKey

	// IsOpen 连接是否仍然打开
	IsOpen() bool

	// ReserveStream 为一次交换预留一个流
	//
	// 仅当结果为 ReserveFailed 时 error 非空。
	ReserveStream(exclusive, wantsPush bool) (ReserveResult, error)

	// ServerPushEnabled 连接是否接受服务端推送
	ServerPushEnabled() bool

	// IsFinalStream 连接是否已被标记为最终流（不再复用）
	IsFinalStream() bool

	// SetFinalStream 标记为最终流：只服务已分配的交换
	SetFinalStream()

	// ShouldClose 最终流连接上是否已没有待完成的工作
	ShouldClose() bool

	// CloseAllStreams 本地中止所有进行中的流
	CloseAllStreams() error

	// Close 发送 GOAWAY 并关闭连接
	Close() error

	// Shutdown 以给定原因优雅关闭，使之后创建的交换以该原因失败
	Shutdown(cause error) error
}

// Exchange 请求交换上下文
type Exchange interface {
	// PushEnabled 该交换是否希望接收服务端推送
	PushEnabled() bool
}

// Negotiator 外部协商生产者
//
// Negotiate 建立一条新的 HTTP/2 连接。协商类失败（ALPN 未选中 h2）
// 必须满足 errors.Is(err, types.ErrALPNNegotiation)，以便与其他 I/O 错误区分。
type Negotiator interface {
	Negotiate(ctx context.Context, req *http.Request, exch Exchange) (Connection, error)
}

// ExchangeOptions Exchange 的简单值实现
type ExchangeOptions struct {
	Push bool
}

// PushEnabled 实现 Exchange
func (o ExchangeOptions) PushEnabled() bool {
	return o.Push
}
