package types

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// 支持的 URL scheme
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// ErrInvalidURL 请求 URL 无法生成连接键
var ErrInvalidURL = errors.New("types: request URL has no usable scheme or host")

// ConnKey 连接池键
//
// 由 (scheme, host, port) 组成的不可变值，可直接作为 map 键比较。
// 同一 ConnKey 的请求共享同一条 HTTP/2 连接。
type ConnKey struct {
	Scheme string
	Host   string
	Port   int
}

// KeyFor 从请求计算连接键
//
// scheme 与 host 统一转为小写；未指定端口时 https 取 443，http 取 80。
func KeyFor(req *http.Request) (ConnKey, error) {
	if req == nil || req.URL == nil {
		return ConnKey{}, ErrInvalidURL
	}

	scheme := strings.ToLower(req.URL.Scheme)
	host := strings.ToLower(req.URL.Hostname())
	if host == "" {
		return ConnKey{}, fmt.Errorf("%w: %q", ErrInvalidURL, req.URL.String())
	}

	var port int
	switch scheme {
	case SchemeHTTPS:
		port = 443
	case SchemeHTTP:
		port = 80
	default:
		return ConnKey{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, req.URL.Scheme)
	}

	if p := req.URL.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			return ConnKey{}, fmt.Errorf("%w: bad port %q", ErrInvalidURL, p)
		}
		port = n
	}

	return ConnKey{Scheme: scheme, Host: host, Port: port}, nil
}

// Secure 是否为 TLS 目标
func (k ConnKey) Secure() bool {
	return k.Scheme == SchemeHTTPS
}

// Addr 返回可拨号的 host:port
func (k ConnKey) Addr() string {
	return joinHostPort(k.Host, k.Port)
}

// String 渲染为 "scheme:host:port"
func (k ConnKey) String() string {
	return k.Scheme + ":" + k.Host + ":" + strconv.Itoa(k.Port)
}

// IsZero 是否为零值
func (k ConnKey) IsZero() bool {
	return k == ConnKey{}
}

func joinHostPort(host string, port int) string {
	if strings.Contains(host, ":") {
		return "[" + host + "]:" + strconv.Itoa(port)
	}
	return host + ":" + strconv.Itoa(port)
}
