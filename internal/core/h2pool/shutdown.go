package h2pool

import (
	"fmt"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-h2pool/pkg/interfaces"
	"github.com/dep2p/go-h2pool/pkg/lib/log"
	"github.com/dep2p/go-h2pool/pkg/types"
)

// Step 关闭步骤
type Step int

const (
	// StepCloseStreams 本地中止所有进行中的流
	StepCloseStreams Step = iota
	// StepGoAway 发送 GOAWAY 并关闭
	StepGoAway
	// StepShutdown 以 ErrStopped 优雅关闭，使并发创建的交换失败
	StepShutdown
	// StepCloseStreamsAgain 再次中止在前两步之间创建的流
	StepCloseStreamsAgain
)

var stepNames = [...]string{
	StepCloseStreams:      "close-streams",
	StepGoAway:            "goaway",
	StepShutdown:          "shutdown",
	StepCloseStreamsAgain: "close-streams-again",
}

// String 返回步骤名称
func (s Step) String() string {
	if s >= 0 && int(s) < len(stepNames) {
		return stepNames[s]
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// StepOutcome 单条连接单个关闭步骤的结果
type StepOutcome struct {
	Key    types.ConnKey
	ConnID string
	Step   Step
	Err    error
}

// ShutdownReport 关闭过程的诊断报告
//
// Stop 本身从不失败，步骤中的错误只记录在报告里。
type ShutdownReport struct {
	// Passes 排空轮数
	Passes int

	// Closed 关闭的连接数
	Closed int

	// Outcomes 每条连接每一步的结果
	Outcomes []StepOutcome
}

// Err 汇总所有步骤错误，没有错误时返回 nil
func (r *ShutdownReport) Err() error {
	var err error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			err = multierr.Append(err, &StepError{ConnID: o.ConnID, Step: o.Step, Err: o.Err})
		}
	}
	return err
}

// Failed 返回出错的步骤结果
func (r *ShutdownReport) Failed() []StepOutcome {
	var out []StepOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Stop 关闭连接池
//
// 先在池锁内设置 stopping，此后不再有新连接被准入。然后反复对当前所有
// 连接做快照并逐条关闭，直到快照为空。每条连接关闭后按身份从池中删除。
func (p *Pool) Stop() *ShutdownReport {
	p.mu.Lock()
	p.stopping = true
	p.mu.Unlock()

	report := &ShutdownReport{}
	for {
		conns := p.snapshot()
		if len(conns) == 0 {
			break
		}
		report.Passes++
		for _, c := range conns {
			report.Outcomes = append(report.Outcomes, closeConn(c)...)
			p.Delete(c)
			report.Closed++
		}
	}

	if err := report.Err(); err != nil {
		logger.Debug("连接池关闭完成（部分步骤出错）",
			"closed", report.Closed, "passes", report.Passes, "errors", len(multierr.Errors(err)))
	} else {
		logger.Debug("连接池关闭完成", "closed", report.Closed, "passes", report.Passes)
	}
	return report
}

// closeConn 依次执行四个关闭步骤，每步独立，前一步出错不影响后一步
func closeConn(c pkgif.Connection) []StepOutcome {
	key, id := c.Key(), c.ID()
	steps := [...]struct {
		step Step
		fn   func() error
	}{
		{StepCloseStreams, c.CloseAllStreams},
		{StepGoAway, c.Close},
		{StepShutdown, func() error { return c.Shutdown(ErrStopped) }},
		{StepCloseStreamsAgain, c.CloseAllStreams},
	}

	out := make([]StepOutcome, 0, len(steps))
	for _, s := range steps {
		err := runStep(s.fn)
		if err != nil {
			logger.Debug("关闭步骤出错", "conn", log.TruncateID(id, 8), "step", s.step.String(), "error", err)
		}
		out = append(out, StepOutcome{Key: key, ConnID: id, Step: s.step, Err: err})
	}
	return out
}

func runStep(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
