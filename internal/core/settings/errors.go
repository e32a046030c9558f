package settings

import "errors"

var (
	// ErrInvalidToken 设置令牌无法解码
	ErrInvalidToken = errors.New("settings: invalid settings token")
)
