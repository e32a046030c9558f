package settings

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/http2"
)

// TestBuild_Defaults 测试默认参数
func TestBuild_Defaults(t *testing.T) {
	b := NewBuilder(nil)

	s := b.Build(true)
	assert.Equal(t, Settings{
		HeaderTableSize:      16384,
		EnablePush:           1,
		MaxConcurrentStreams: 100,
		InitialWindowSize:    16777216,
		MaxFrameSize:         16384,
		MaxHeaderListSize:    393216,
	}, s)

	s = b.Build(false)
	assert.Equal(t, int32(0), s.EnablePush)
	assert.Equal(t, int32(0), s.MaxConcurrentStreams, "关闭推送时默认不接受服务端流")
}

// TestBuild_Overrides 测试命名参数覆盖
func TestBuild_Overrides(t *testing.T) {
	b := NewBuilder(MapSource{
		PropHeaderTableSize:      "4096",
		PropEnablePush:           "0",
		PropMaxConcurrentStreams: "250",
		PropWindowSize:           "65535",
		PropMaxFrameSize:         "32768",
		PropMaxHeaderListSize:    "8192",
	})

	s := b.Build(true)
	assert.Equal(t, int32(4096), s.HeaderTableSize)
	assert.Equal(t, int32(0), s.EnablePush)
	assert.Equal(t, int32(250), s.MaxConcurrentStreams)
	assert.Equal(t, int32(65535), s.InitialWindowSize)
	assert.Equal(t, int32(32768), s.MaxFrameSize)
	assert.Equal(t, int32(8192), s.MaxHeaderListSize)
}

// TestBuild_OutOfRangeFallsBack 测试越界与非法值回退到默认值
func TestBuild_OutOfRangeFallsBack(t *testing.T) {
	b := NewBuilder(MapSource{
		PropEnablePush:      "2",
		PropWindowSize:      "1024",
		PropMaxFrameSize:    "16777216",
		PropHeaderTableSize: "lots",
	})

	s := b.Build(true)
	assert.Equal(t, int32(1), s.EnablePush)
	assert.Equal(t, int32(16*1024*1024), s.InitialWindowSize)
	assert.Equal(t, int32(16*1024), s.MaxFrameSize)
	assert.Equal(t, int32(16*1024), s.HeaderTableSize)
}

// TestBuild_MaxHeaderListUnlimited 测试非正值编码为不限制
func TestBuild_MaxHeaderListUnlimited(t *testing.T) {
	for _, v := range []string{"0", "-1", "-4096", "-2147483648"} {
		s := NewBuilder(MapSource{PropMaxHeaderListSize: v}).Build(false)
		assert.Equal(t, int32(-1), s.MaxHeaderListSize, "value %s", v)
	}
}

// TestConnectionWindowSize 测试连接窗口默认值与边界
func TestConnectionWindowSize(t *testing.T) {
	b := NewBuilder(nil)
	assert.Equal(t, int32(32*1024*1024), b.ConnectionWindowSize(b.Build(true)))

	b = NewBuilder(MapSource{PropWindowSize: "50331648"})
	assert.Equal(t, int32(48*1024*1024), b.ConnectionWindowSize(b.Build(true)))

	b = NewBuilder(MapSource{PropWindowSize: "2147483647"})
	assert.Equal(t, int32(math.MaxInt32), b.ConnectionWindowSize(b.Build(true)))

	// 小于流窗口的覆盖值无效
	b = NewBuilder(MapSource{PropConnectionWindowSize: "65535"})
	assert.Equal(t, int32(32*1024*1024), b.ConnectionWindowSize(b.Build(true)))

	b = NewBuilder(MapSource{PropConnectionWindowSize: "100000000"})
	assert.Equal(t, int32(100000000), b.ConnectionWindowSize(b.Build(true)))
}

// TestPushGloballyDisabled 测试全局推送开关
func TestPushGloballyDisabled(t *testing.T) {
	assert.False(t, NewBuilder(nil).PushGloballyDisabled())
	assert.True(t, NewBuilder(MapSource{PropEnablePush: "0"}).PushGloballyDisabled())
	assert.False(t, NewBuilder(MapSource{PropEnablePush: "1"}).PushGloballyDisabled())
	assert.False(t, NewBuilder(MapSource{PropEnablePush: "7"}).PushGloballyDisabled())
}

// TestSettings_List 测试参数顺序
func TestSettings_List(t *testing.T) {
	list := NewBuilder(nil).Build(true).List()
	require.Len(t, list, 6)
	for i, st := range list {
		assert.Equal(t, http2.SettingID(i+1), st.ID)
	}
}

// TestToken_RoundTrip 测试令牌编码与解码
func TestToken_RoundTrip(t *testing.T) {
	s := Settings{
		HeaderTableSize:      16384,
		EnablePush:           1,
		MaxConcurrentStreams: 100,
		InitialWindowSize:    16777216,
		MaxFrameSize:         16384,
		MaxHeaderListSize:    393216,
	}

	token, err := EncodeToken(s)
	require.NoError(t, err)
	assert.NotContains(t, token, "=")
	assert.False(t, strings.ContainsAny(token, "+/"), "必须使用 URL 安全字母表")
	assert.Equal(t, "AAEAAEAAAAIAAAABAAMAAABkAAQBAAAAAAUAAEAAAAYABgAA", token)

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)

	t.Log("✅ 令牌无损往返")
}

// TestToken_UnlimitedHeaderList 测试 -1 的往返
func TestToken_UnlimitedHeaderList(t *testing.T) {
	b := NewBuilder(MapSource{PropMaxHeaderListSize: "0"})
	token, err := b.Token(false)
	require.NoError(t, err)

	payload, err := b.Build(false).Payload()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x06, 0xff, 0xff, 0xff, 0xff}, payload[30:])

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), decoded.MaxHeaderListSize)
}

// TestDecodeToken_Invalid 测试非法令牌
func TestDecodeToken_Invalid(t *testing.T) {
	_, err := DecodeToken("!!!")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = DecodeToken("AAEA")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = DecodeToken("AAQAAQAA=")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestDecodeToken_Empty 空令牌解码为零值
func TestDecodeToken_Empty(t *testing.T) {
	s, err := DecodeToken("")
	require.NoError(t, err)
	assert.Equal(t, Settings{}, s)
}
