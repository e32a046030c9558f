package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.False(t, cfg.HTTP2.DefaultPush)
	assert.Equal(t, 30*time.Second, cfg.Negotiation.Timeout.Duration())
	assert.Equal(t, 10*time.Second, cfg.Negotiation.DialTimeout.Duration())
	assert.Equal(t, 5*time.Second, cfg.Shutdown.GoAwayTimeout.Duration())
	assert.Equal(t, 64, cfg.Negotiation.SessionCacheSize)

	t.Log("✅ NewConfig 测试通过")
}

// TestConfig_Validate 测试配置验证
func TestConfig_Validate(t *testing.T) {
	t.Run("UnknownProperty", func(t *testing.T) {
		cfg := NewConfig()
		cfg.HTTP2 = cfg.HTTP2.WithProperty("windowsize", "1")
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownProperty)
	})

	t.Run("ZeroTimeout", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Negotiation.Timeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("DialExceedsTimeout", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Negotiation.DialTimeout = Duration(time.Minute)
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeSessionCache", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Negotiation.SessionCacheSize = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeGoAway", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Shutdown.GoAwayTimeout = Duration(-time.Second)
		assert.Error(t, cfg.Validate())
	})

	t.Log("✅ Config.Validate 测试通过")
}

// TestFromJSON 测试 JSON 加载
func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"http2": {"default_push": true, "properties": {"h2.windowsize": "33554432"}},
		"negotiation": {"timeout": "15s", "dial_timeout": 2000000000}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)

	assert.True(t, cfg.HTTP2.DefaultPush)
	assert.Equal(t, "33554432", cfg.HTTP2.Properties["h2.windowsize"])
	assert.Equal(t, 15*time.Second, cfg.Negotiation.Timeout.Duration())
	assert.Equal(t, 2*time.Second, cfg.Negotiation.DialTimeout.Duration())
	// 未出现的字段保持默认值
	assert.Equal(t, 5*time.Second, cfg.Shutdown.GoAwayTimeout.Duration())

	_, err = FromJSON([]byte(`{"negotiation": {"timeout": "soon"}}`))
	assert.Error(t, err)

	t.Log("✅ FromJSON 测试通过")
}

// TestLoadFile 测试从文件加载
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"shutdown": {"goaway_timeout": "1s"}}`), 0o600))
	cfg, err := LoadFile(good)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Shutdown.GoAwayTimeout.Duration())

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"http2": {"properties": {"x": "1"}}}`), 0o600))
	_, err = LoadFile(bad)
	assert.ErrorIs(t, err, ErrUnknownProperty)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

// TestToJSON_RoundTrip 测试序列化后可重新加载
func TestToJSON_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.HTTP2 = cfg.HTTP2.WithProperty("h2.maxframesize", "32768")

	data, err := cfg.ToJSON()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "30s", raw["negotiation"].(map[string]any)["timeout"])

	loaded, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// TestLookup 测试命名参数查找顺序
func TestLookup(t *testing.T) {
	t.Setenv(EnvName("h2.windowsize"), "1048576")
	t.Setenv(EnvName("h2.maxframesize"), "20000")

	cfg := NewConfig()
	cfg.HTTP2 = cfg.HTTP2.WithProperty("h2.maxframesize", "32768")

	v, ok := cfg.Lookup("h2.windowsize")
	assert.True(t, ok)
	assert.Equal(t, "1048576", v)

	v, ok = cfg.Lookup("h2.maxframesize")
	assert.True(t, ok)
	assert.Equal(t, "32768", v, "配置文件优先于环境变量")

	_, ok = cfg.Lookup("h2.enablepush")
	assert.False(t, ok)

	var nilCfg *Config
	v, ok = nilCfg.Lookup("h2.windowsize")
	assert.True(t, ok)
	assert.Equal(t, "1048576", v)
}

// TestEnvName 测试环境变量命名
func TestEnvName(t *testing.T) {
	assert.Equal(t, "H2POOL_H2_HPACK_MAXHEADERTABLESIZE", EnvName("h2.hpack.maxheadertablesize"))
	assert.Equal(t, "H2POOL_H2_ENABLEPUSH", EnvName("h2.enablepush"))
}
