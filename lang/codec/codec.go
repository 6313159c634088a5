// Package codec 提供摘要与 base64 编解码的便捷函数.
//
// 所有摘要函数返回小写十六进制字符串.
package codec

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"hash"
	"strings"

	"golang.org/x/crypto/md4"
)

// 摘要算法名称.
const (
	MD4    = "md4"
	MD5    = "md5"
	SHA1   = "sha1"
	SHA224 = "sha224"
	SHA256 = "sha256"
	SHA512 = "sha512"
)

// ErrUnsupportedDigest 不支持的摘要算法.
var ErrUnsupportedDigest = errors.New("codec: 不支持的摘要算法")

var digests = map[string]func() hash.Hash{
	MD4:    md4.New,
	MD5:    md5.New,
	SHA1:   sha1.New,
	SHA224: sha256.New224,
	SHA256: sha256.New,
	SHA512: sha512.New,
}

// Digest 使用指定算法计算摘要，算法名称不区分大小写.
func Digest(alg, s string) (string, error) {
	newHash, ok := digests[strings.ToLower(alg)]
	if !ok {
		return "", ErrUnsupportedDigest
	}
	return sum(newHash(), s), nil
}

// Supported 判断摘要算法是否受支持.
func Supported(alg string) bool {
	_, ok := digests[strings.ToLower(alg)]
	return ok
}

func sum(h hash.Hash, s string) string {
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// MD4Hex 计算 md4 摘要.
func MD4Hex(s string) string { return sum(md4.New(), s) }

// MD5Hex 计算 md5 摘要.
func MD5Hex(s string) string { return sum(md5.New(), s) }

// SHA1Hex 计算 sha1 摘要.
func SHA1Hex(s string) string { return sum(sha1.New(), s) }

// SHA224Hex 计算 sha224 摘要.
func SHA224Hex(s string) string { return sum(sha256.New224(), s) }

// SHA256Hex 计算 sha256 摘要.
func SHA256Hex(s string) string { return sum(sha256.New(), s) }

// SHA512Hex 计算 sha512 摘要.
func SHA512Hex(s string) string { return sum(sha512.New(), s) }

// EncodeBase64 标准 base64 编码.
func EncodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// DecodeBase64 标准 base64 解码.
func DecodeBase64(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeBase64URL URL 安全的 base64 编码，保留填充.
func EncodeBase64URL(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

// DecodeBase64URL URL 安全的 base64 解码，填充可省略.
func DecodeBase64URL(s string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
