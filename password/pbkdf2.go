package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Scheme = "pbkdf2"
	pbkdf2Hash   = "sha256"
)

// PBKDF2Options PBKDF2 参数.
type PBKDF2Options struct {
	Iterations int
	SaltBytes  int
	KeyBytes   int
}

// DefaultPBKDF2Options 返回默认 PBKDF2 参数.
func DefaultPBKDF2Options() PBKDF2Options {
	return PBKDF2Options{
		Iterations: 120000,
		SaltBytes:  16,
		KeyBytes:   32,
	}
}

// PBKDF2Encoder PBKDF2-SHA256 编码器.
//
// 密文格式: pbkdf2$sha256$<iterations>$<salt>$<key>，salt 与 key 为无填充 base64.
type PBKDF2Encoder struct {
	options PBKDF2Options
}

// NewPBKDF2Encoder 创建 PBKDF2 编码器，非正参数使用默认值.
func NewPBKDF2Encoder(options PBKDF2Options) *PBKDF2Encoder {
	defaults := DefaultPBKDF2Options()
	if options.Iterations <= 0 {
		options.Iterations = defaults.Iterations
	}
	if options.SaltBytes <= 0 {
		options.SaltBytes = defaults.SaltBytes
	}
	if options.KeyBytes <= 0 {
		options.KeyBytes = defaults.KeyBytes
	}
	return &PBKDF2Encoder{options: options}
}

// Encode 生成 PBKDF2 密文.
func (e *PBKDF2Encoder) Encode(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, e.options.SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(raw), salt, e.options.Iterations, e.options.KeyBytes, sha256.New)

	return fmt.Sprintf("%s$%s$%d$%s$%s",
		pbkdf2Scheme,
		pbkdf2Hash,
		e.options.Iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Matches 校验 PBKDF2 密文.
func (e *PBKDF2Encoder) Matches(raw, encoded string) (bool, error) {
	iterations, salt, expected, err := parsePBKDF2(encoded)
	if err != nil {
		return false, err
	}
	candidate := pbkdf2.Key([]byte(raw), salt, iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(candidate, expected) == 1, nil
}

func parsePBKDF2(encoded string) (int, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != pbkdf2Scheme || parts[1] != pbkdf2Hash {
		return 0, nil, nil, ErrInvalidHash
	}

	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations <= 0 {
		return 0, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(salt) == 0 {
		return 0, nil, nil, ErrInvalidHash
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return 0, nil, nil, ErrInvalidHash
	}

	return iterations, salt, key, nil
}
