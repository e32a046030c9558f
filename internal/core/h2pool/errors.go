package h2pool

import (
	"errors"
	"fmt"

	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
)

var (
	// ErrStopped 关闭时用于使进行中交换失败的原因
	ErrStopped = errors.New("HTTP/2 client stopped")

	// ErrNilNegotiator 未提供协商器
	ErrNilNegotiator = errors.New("h2pool: negotiator is nil")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("h2pool: invalid config")

	// ErrNilConnection 协商器既没有返回连接也没有返回错误
	ErrNilConnection = errors.New("h2pool: negotiator returned no connection")

	// ErrNewConnUnusable 新协商的连接无法预留首个流
	ErrNewConnUnusable = errors.New("h2pool: new connection cannot reserve a stream")
)

// StepError 关闭步骤中的错误
type StepError struct {
	ConnID string
	Step   Step
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("h2pool: %s on %s: %v", e.Step, e.ConnID, e.Err)
}

// Unwrap 返回底层错误
func (e *StepError) Unwrap() error {
	return e.Err
}

func newConnUnusable(res pkgif.ReserveResult) error {
	return fmt.Errorf("%w (%s)", ErrNewConnUnusable, res)
}
