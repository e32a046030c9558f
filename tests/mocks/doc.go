// Package mocks 提供统一的测试 Mock 实现
//
// # Mock 列表
//
//   - MockConnection: 手写的 interfaces.Connection，字段控制状态，XxxFunc 覆盖行为
//   - MockNegotiator: mockgen 生成的 interfaces.Negotiator，用 gomock 设置期望
//
// # 设计原则
//
// 1. 函数式注入: MockConnection 的每个行为都可以通过 XxxFunc 字段覆盖
// 2. 调用记录: 关键方法记录调用次数，便于验证关闭步骤与最终流标记
// 3. 并发安全: 连接池会在多个协程中使用同一个 Mock
//
// # 使用示例
//
//	conn := mocks.NewMockConnection(key)
//	conn.Push = true
//	pool.Offer(conn)
//	if conn.SetFinalStreamCount() != 0 {
//	    t.Error("unexpected final-stream mark")
//	}
//
//	ctrl := gomock.NewController(t)
//	neg := mocks.NewMockNegotiator(ctrl)
//	neg.EXPECT().Negotiate(gomock.Any(), gomock.Any(), gomock.Any()).Return(conn, nil)
package mocks

//go:generate mockgen -destination=negotiator.go -package=mocks github.com/dep2p/go-h2pool/pkg/interfaces Negotiator
