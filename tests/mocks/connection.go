package mocks

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dep2p/go-h2pool/pkg/interfaces"
	"github.com/dep2p/go-h2pool/pkg/types"
)

// MockConnection 模拟 Connection 接口实现
//
// 导出字段描述连接状态，修改前后应通过 Lock/Unlock 保护（测试单协程时可省略）。
type MockConnection struct {
	mu sync.Mutex

	// 基本属性
	IDValue  string
	KeyValue types.ConnKey
	Open     bool
	Final    bool
	Push     bool

	// Active 进行中的交换数，为 0 时 ShouldClose 返回 true
	Active int

	// 各步骤返回的错误
	CloseAllStreamsErr error
	CloseErr           error
	ShutdownErr        error

	// 可覆盖的方法
	ReserveStreamFunc   func(exclusive, wantsPush bool) (interfaces.ReserveResult, error)
	ShouldCloseFunc     func() bool
	CloseFunc           func() error
	CloseAllStreamsFunc func() error

	// 调用记录
	reserveCalls         int
	setFinalCalls        int
	closeAllStreamsCalls int
	closeCalls           int
	shutdownCalls        int
	shutdownCause        error
	released             int
}

// NewMockConnection 创建打开状态的 MockConnection
func NewMockConnection(key types.ConnKey) *MockConnection {
	return &MockConnection{
		IDValue:  uuid.NewString(),
		KeyValue: key,
		Open:     true,
	}
}

// Lock 锁定状态字段
func (m *MockConnection) Lock() { m.mu.Lock() }

// Unlock 解锁状态字段
func (m *MockConnection) Unlock() { m.mu.Unlock() }

// ID 返回连接 ID
func (m *MockConnection) ID() string {
	return m.IDValue
}

// Key 返回连接池键
func (m *MockConnection) Key() types.ConnKey {
	return m.KeyValue
}

// IsOpen 连接是否打开
func (m *MockConnection) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Open
}

// ReserveStream 预留流
//
// 默认行为：已关闭或需要推送但不支持时返回 Unusable，否则 Active 加一。
func (m *MockConnection) ReserveStream(exclusive, wantsPush bool) (interfaces.ReserveResult, error) {
	m.mu.Lock()
	m.reserveCalls++
	fn := m.ReserveStreamFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(exclusive, wantsPush)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Open || (wantsPush && !m.Push) {
		return interfaces.Unusable, nil
	}
	m.Active++
	return interfaces.Reserved, nil
}

// ReleaseStream 归还未使用的预留
func (m *MockConnection) ReleaseStream() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released++
	if m.Active > 0 {
		m.Active--
	}
}

// ServerPushEnabled 是否支持推送
func (m *MockConnection) ServerPushEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Push
}

// IsFinalStream 是否已标记最终流
func (m *MockConnection) IsFinalStream() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Final
}

// SetFinalStream 标记最终流
func (m *MockConnection) SetFinalStream() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setFinalCalls++
	m.Final = true
}

// ShouldClose 是否没有待完成的工作
func (m *MockConnection) ShouldClose() bool {
	m.mu.Lock()
	fn := m.ShouldCloseFunc
	active := m.Active
	m.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return active == 0
}

// CloseAllStreams 中止所有流
func (m *MockConnection) CloseAllStreams() error {
	m.mu.Lock()
	m.closeAllStreamsCalls++
	fn := m.CloseAllStreamsFunc
	err := m.CloseAllStreamsErr
	if fn == nil {
		m.Active = 0
	}
	m.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return err
}

// Close 关闭连接
func (m *MockConnection) Close() error {
	m.mu.Lock()
	m.closeCalls++
	fn := m.CloseFunc
	err := m.CloseErr
	m.Open = false
	m.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return err
}

// Shutdown 以给定原因关闭
func (m *MockConnection) Shutdown(cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdownCalls++
	m.shutdownCause = cause
	m.Open = false
	return m.ShutdownErr
}

// ReserveCount ReserveStream 调用次数
func (m *MockConnection) ReserveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reserveCalls
}

// SetFinalStreamCount SetFinalStream 调用次数
func (m *MockConnection) SetFinalStreamCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setFinalCalls
}

// CloseAllStreamsCount CloseAllStreams 调用次数
func (m *MockConnection) CloseAllStreamsCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeAllStreamsCalls
}

// CloseCount Close 调用次数
func (m *MockConnection) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

// ShutdownCount Shutdown 调用次数
func (m *MockConnection) ShutdownCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdownCalls
}

// ShutdownCause 最近一次 Shutdown 的原因
func (m *MockConnection) ShutdownCause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdownCause
}

// ReleaseCount ReleaseStream 调用次数
func (m *MockConnection) ReleaseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

var _ interfaces.Connection = (*MockConnection)(nil)
