// Package password 提供口令编码与校验.
//
// 所有编码器实现 Encoder 接口，DelegatingEncoder 以 "{id}encoded" 格式
// 在多个编码器之间分派，便于平滑迁移口令算法.
package password

import "errors"

var (
	// ErrEmptyPassword 口令为空.
	ErrEmptyPassword = errors.New("password: 口令不能为空")
	// ErrUnsupportedAlgorithm 不支持的编码算法.
	ErrUnsupportedAlgorithm = errors.New("password: 不支持的编码算法")
	// ErrInvalidHash 密文格式无效.
	ErrInvalidHash = errors.New("password: 密文格式无效")
	// ErrWeakPassword 口令不满足强度要求.
	ErrWeakPassword = errors.New("password: 口令强度不足")
)

// Encoder 口令编码器.
type Encoder interface {
	// Encode 将口令原文编码为密文.
	Encode(raw string) (string, error)
	// Matches 判断口令原文与密文是否匹配.
	Matches(raw, encoded string) (bool, error)
}
