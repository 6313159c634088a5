package password

import (
	"crypto/subtle"
	"strings"

	"github.com/Tsukikage7/go-sugar/lang/codec"
	"github.com/Tsukikage7/go-sugar/lang/strutil"
)

// NoopEncoder 原样保存口令，仅用于测试或迁移.
type NoopEncoder struct {
	IgnoreCase bool
}

// Encode 返回原文.
func (e NoopEncoder) Encode(raw string) (string, error) {
	return raw, nil
}

// Matches 比较原文.
func (e NoopEncoder) Matches(raw, encoded string) (bool, error) {
	if e.IgnoreCase {
		return strings.EqualFold(raw, encoded), nil
	}
	return subtle.ConstantTimeCompare([]byte(raw), []byte(encoded)) == 1, nil
}

// DigestEncoder 以十六进制摘要保存口令.
type DigestEncoder struct {
	alg string
}

// NewDigestEncoder 创建摘要编码器，alg 取值见 codec 包.
func NewDigestEncoder(alg string) (*DigestEncoder, error) {
	if !codec.Supported(alg) {
		return nil, ErrUnsupportedAlgorithm
	}
	return &DigestEncoder{alg: strings.ToLower(alg)}, nil
}

// Algorithm 返回摘要算法名称.
func (e *DigestEncoder) Algorithm() string {
	return e.alg
}

// Encode 计算摘要.
func (e *DigestEncoder) Encode(raw string) (string, error) {
	return codec.Digest(e.alg, raw)
}

// Matches 比较摘要.
func (e *DigestEncoder) Matches(raw, encoded string) (bool, error) {
	digest, err := e.Encode(raw)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(encoded))) == 1, nil
}

// Base64Encoder 以 URL 安全的 base64 保存口令.
type Base64Encoder struct{}

// Encode base64 编码.
func (Base64Encoder) Encode(raw string) (string, error) {
	return codec.EncodeBase64URL(raw), nil
}

// Matches 解码后比较，密文无法解码时视为不匹配.
func (Base64Encoder) Matches(raw, encoded string) (bool, error) {
	decoded, err := codec.DecodeBase64URL(encoded)
	if err != nil {
		return false, nil
	}
	return decoded == raw, nil
}

// ReverseEncoder 反转口令.
type ReverseEncoder struct{}

// Encode 反转原文.
func (ReverseEncoder) Encode(raw string) (string, error) {
	return strutil.Reverse(raw), nil
}

// Matches 比较反转结果.
func (ReverseEncoder) Matches(raw, encoded string) (bool, error) {
	return strutil.Reverse(raw) == encoded, nil
}
