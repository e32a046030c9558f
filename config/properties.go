package config

import (
	"os"
	"strings"
)

// EnvPrefix 命名参数对应环境变量的前缀
const EnvPrefix = "H2POOL_"

// EnvName 返回命名参数对应的环境变量名
//
//	h2.hpack.maxheadertablesize -> H2POOL_H2_HPACK_MAXHEADERTABLESIZE
func EnvName(name string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(name, ".", "_"))
}

// Lookup 查找命名参数
//
// 配置文件中的 properties 优先，其次是进程环境变量。
// nil 配置只查环境变量。
func (c *Config) Lookup(name string) (string, bool) {
	if c != nil {
		if v, ok := c.HTTP2.Properties[name]; ok {
			return v, true
		}
	}
	return os.LookupEnv(EnvName(name))
}
