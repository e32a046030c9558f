package settings

import (
	"math"
	"strconv"
	"strings"
)

const k = 1024

// 命名参数，与配置文件 properties 和 H2POOL_* 环境变量对应
const (
	PropHeaderTableSize      = "h2.hpack.maxheadertablesize"
	PropEnablePush           = "h2.enablepush"
	PropMaxConcurrentStreams = "h2.maxstreams"
	PropWindowSize           = "h2.windowsize"
	PropMaxFrameSize         = "h2.maxframesize"
	PropMaxHeaderListSize    = "h2.maxheadersize"
	PropConnectionWindowSize = "h2.connectionwindowsize"
)

// Source 命名参数来源
type Source interface {
	// Lookup 返回参数原始值，未设置时 ok 为 false
	Lookup(name string) (value string, ok bool)
}

// SourceFunc 函数适配 Source
type SourceFunc func(name string) (string, bool)

// Lookup 实现 Source
func (f SourceFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// MapSource 基于 map 的 Source
type MapSource map[string]string

// Lookup 实现 Source
func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Param 有界整数参数
type Param struct {
	Name    string
	Min     int64
	Max     int64
	Default int64
}

// Resolve 从 src 读取参数
//
// 未设置、无法解析或超出 [Min, Max] 的值都回退到 Default。
func (p Param) Resolve(src Source) int64 {
	if src == nil {
		return p.Default
	}
	raw, ok := src.Lookup(p.Name)
	if !ok {
		return p.Default
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		logger.Warn("参数无法解析，使用默认值", "name", p.Name, "value", raw, "default", p.Default)
		return p.Default
	}
	if v < p.Min || v > p.Max {
		logger.Warn("参数超出范围，使用默认值",
			"name", p.Name, "value", v, "min", p.Min, "max", p.Max, "default", p.Default)
		return p.Default
	}
	return v
}

// 参数定义，默认值依赖其他参数的项在 Builder 中动态构造
var (
	headerTableSizeParam = Param{
		Name: PropHeaderTableSize, Min: 0, Max: math.MaxInt32, Default: 16 * k,
	}
	windowSizeParam = Param{
		Name: PropWindowSize, Min: 16 * k, Max: math.MaxInt32, Default: 16 * k * k,
	}
	maxFrameSizeParam = Param{
		Name: PropMaxFrameSize, Min: 16 * k, Max: 16*k*k - 1, Default: 16 * k,
	}
	maxHeaderListSizeParam = Param{
		Name: PropMaxHeaderListSize, Min: math.MinInt32, Max: math.MaxInt32, Default: 384 * k,
	}
)

func enablePushParam(defaultPush bool) Param {
	var def int64
	if defaultPush {
		def = 1
	}
	return Param{Name: PropEnablePush, Min: 0, Max: 1, Default: def}
}

func maxConcurrentStreamsParam(pushEnabled bool) Param {
	// 关闭推送时不需要为服务端发起的流预留并发额度
	var def int64
	if pushEnabled {
		def = 100
	}
	return Param{Name: PropMaxConcurrentStreams, Min: 0, Max: math.MaxInt32, Default: def}
}

func connectionWindowParam(streamWindow int64) Param {
	def := streamWindow
	if def < 32*k*k {
		def = 32 * k * k
	}
	if def > math.MaxInt32 {
		def = math.MaxInt32
	}
	return Param{Name: PropConnectionWindowSize, Min: streamWindow, Max: math.MaxInt32, Default: def}
}
