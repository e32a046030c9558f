// Package settings 构建向对端通告的 HTTP/2 SETTINGS
//
// 六个参数都来自有界的命名配置，见 params.go。Settings 可以序列化为
// SETTINGS 帧负载，再编码成 base64url（无填充）令牌，供 h2c 升级请求的
// HTTP2-Settings 头使用。
package settings

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"golang.org/x/net/http2"

	"github.com/dep2p/go-h2pool/pkg/lib/log"
)

var logger = log.Logger("core/settings")

// UpgradeHeader h2c 升级请求携带设置令牌的头名称
const UpgradeHeader = "HTTP2-Settings"

// frameHeaderLen HTTP/2 帧头长度
const frameHeaderLen = 9

// order 参数在负载中的顺序
var order = [...]http2.SettingID{
	http2.SettingHeaderTableSize,
	http2.SettingEnablePush,
	http2.SettingMaxConcurrentStreams,
	http2.SettingInitialWindowSize,
	http2.SettingMaxFrameSize,
	http2.SettingMaxHeaderListSize,
}

// Settings 有序的六个 SETTINGS 参数
type Settings struct {
	HeaderTableSize      int32
	EnablePush           int32
	MaxConcurrentStreams int32
	InitialWindowSize    int32
	MaxFrameSize         int32
	// MaxHeaderListSize 为 -1 表示不限制
	MaxHeaderListSize int32
}

// Get 按 ID 取值
func (s Settings) Get(id http2.SettingID) (int32, bool) {
	switch id {
	case http2.SettingHeaderTableSize:
		return s.HeaderTableSize, true
	case http2.SettingEnablePush:
		return s.EnablePush, true
	case http2.SettingMaxConcurrentStreams:
		return s.MaxConcurrentStreams, true
	case http2.SettingInitialWindowSize:
		return s.InitialWindowSize, true
	case http2.SettingMaxFrameSize:
		return s.MaxFrameSize, true
	case http2.SettingMaxHeaderListSize:
		return s.MaxHeaderListSize, true
	default:
		return 0, false
	}
}

func (s *Settings) set(id http2.SettingID, v int32) bool {
	switch id {
	case http2.SettingHeaderTableSize:
		s.HeaderTableSize = v
	case http2.SettingEnablePush:
		s.EnablePush = v
	case http2.SettingMaxConcurrentStreams:
		s.MaxConcurrentStreams = v
	case http2.SettingInitialWindowSize:
		s.InitialWindowSize = v
	case http2.SettingMaxFrameSize:
		s.MaxFrameSize = v
	case http2.SettingMaxHeaderListSize:
		s.MaxHeaderListSize = v
	default:
		return false
	}
	return true
}

// List 按顺序返回 http2.Setting 列表
//
// 有符号值按二进制补码写入 32 位无符号字段，-1 即 0xFFFFFFFF。
func (s Settings) List() []http2.Setting {
	out := make([]http2.Setting, 0, len(order))
	for _, id := range order {
		v, _ := s.Get(id)
		out = append(out, http2.Setting{ID: id, Val: uint32(v)})
	}
	return out
}

// Payload 序列化为 SETTINGS 帧负载（不含帧头）
func (s Settings) Payload() ([]byte, error) {
	var buf bytes.Buffer
	fr := http2.NewFramer(&buf, nil)
	if err := fr.WriteSettings(s.List()...); err != nil {
		return nil, fmt.Errorf("settings: write frame: %w", err)
	}
	return buf.Bytes()[frameHeaderLen:], nil
}

// EncodeToken 编码为 base64url 无填充令牌
func EncodeToken(s Settings) (string, error) {
	payload, err := s.Payload()
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeToken 解码 EncodeToken 生成的令牌
//
// 负载被重新装帧后交给 http2.Framer 解析，未知的参数 ID 被忽略。
func DecodeToken(token string) (Settings, error) {
	payload, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if len(payload)%6 != 0 {
		return Settings{}, fmt.Errorf("%w: payload length %d", ErrInvalidToken, len(payload))
	}

	frame := make([]byte, frameHeaderLen, frameHeaderLen+len(payload))
	frame[0] = byte(len(payload) >> 16)
	frame[1] = byte(len(payload) >> 8)
	frame[2] = byte(len(payload))
	frame[3] = byte(http2.FrameSettings)
	frame = append(frame, payload...)

	fr := http2.NewFramer(nil, bytes.NewReader(frame))
	f, err := fr.ReadFrame()
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sf, ok := f.(*http2.SettingsFrame)
	if !ok {
		return Settings{}, fmt.Errorf("%w: unexpected frame %v", ErrInvalidToken, f.Header().Type)
	}

	var s Settings
	err = sf.ForeachSetting(func(st http2.Setting) error {
		if !s.set(st.ID, int32(st.Val)) {
			logger.Debug("忽略未知 SETTINGS 参数", "id", st.ID)
		}
		return nil
	})
	return s, err
}
