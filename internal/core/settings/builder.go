package settings

import "math"

// Builder 从命名参数构建客户端 SETTINGS
//
// 每次调用都重新读取 Source，配置变化会在下一次构建时生效。
type Builder struct {
	src Source
}

// NewBuilder 创建 Builder，src 为 nil 时全部使用默认值
func NewBuilder(src Source) *Builder {
	return &Builder{src: src}
}

// Build 构建客户端 SETTINGS
//
// defaultPush 决定 h2.enablepush 未配置时是否接受推送。
func (b *Builder) Build(defaultPush bool) Settings {
	var s Settings

	s.HeaderTableSize = int32(headerTableSizeParam.Resolve(b.src))
	s.EnablePush = int32(enablePushParam(defaultPush).Resolve(b.src))
	s.MaxConcurrentStreams = int32(maxConcurrentStreamsParam(s.EnablePush != 0).Resolve(b.src))
	s.InitialWindowSize = int32(windowSizeParam.Resolve(b.src))
	s.MaxFrameSize = int32(maxFrameSizeParam.Resolve(b.src))

	maxHeader := maxHeaderListSizeParam.Resolve(b.src)
	if maxHeader <= 0 {
		maxHeader = -1
	}
	s.MaxHeaderListSize = int32(maxHeader)

	return s
}

// ConnectionWindowSize 连接级流控窗口
//
// 取值范围 [流窗口, 2^31-1]，默认 max(流窗口, 32 MiB)。
func (b *Builder) ConnectionWindowSize(s Settings) int32 {
	v := connectionWindowParam(int64(s.InitialWindowSize)).Resolve(b.src)
	if v > math.MaxInt32 {
		v = math.MaxInt32
	}
	return int32(v)
}

// PushGloballyDisabled h2.enablepush 是否被配置为 0
func (b *Builder) PushGloballyDisabled() bool {
	return enablePushParam(true).Resolve(b.src) == 0
}

// Token 构建 SETTINGS 并编码为升级令牌
func (b *Builder) Token(defaultPush bool) (string, error) {
	return EncodeToken(b.Build(defaultPush))
}
