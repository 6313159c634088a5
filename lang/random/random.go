// Package random 提供基于 crypto/rand 的随机值生成.
package random

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// 常用字符集.
const (
	Lowercase    = "abcdefghijklmnopqrstuvwxyz"
	Uppercase    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits       = "0123456789"
	ASCIILetters = Lowercase + Uppercase
	Punctuation  = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	Whitespace   = " \t\n\r\x0b\x0c"
	Printable    = Digits + ASCIILetters + Punctuation + Whitespace
	Alphanumeric = Digits + ASCIILetters
)

// String 从 charset 中随机选取 n 个字符.
//
// n < 1 或 charset 为空时返回空串.
func String(n int, charset string) string {
	if n < 1 || charset == "" {
		return ""
	}

	chars := []rune(charset)
	var sb strings.Builder
	sb.Grow(n)
	for range n {
		sb.WriteRune(chars[intn(len(chars))])
	}
	return sb.String()
}

// Letters 生成 ASCII 字母随机串.
func Letters(n int) string {
	return String(n, ASCIILetters)
}

// LowercaseLetters 生成小写字母随机串.
func LowercaseLetters(n int) string {
	return String(n, Lowercase)
}

// UppercaseLetters 生成大写字母随机串.
func UppercaseLetters(n int) string {
	return String(n, Uppercase)
}

// DigitString 生成数字随机串.
func DigitString(n int) string {
	return String(n, Digits)
}

// PrintableString 生成可打印字符随机串.
func PrintableString(n int) string {
	return String(n, Printable)
}

// Int 返回 [lo, hi] 区间内的随机整数，lo > hi 时交换两端.
func Int(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	span := new(big.Int).Sub(big.NewInt(int64(hi)), big.NewInt(int64(lo)))
	span.Add(span, big.NewInt(1))
	v, err := rand.Int(rand.Reader, span)
	if err != nil {
		panic("random: crypto/rand 不可用: " + err.Error())
	}
	return int(v.Add(v, big.NewInt(int64(lo))).Int64())
}

// Bool 返回随机布尔值.
func Bool() bool {
	return intn(2) == 1
}

// UUID 返回带连字符的 UUID v4.
func UUID() string {
	return uuid.NewString()
}

// UUID32 返回去掉连字符的 32 位 UUID.
func UUID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("random: crypto/rand 不可用: " + err.Error())
	}
	return int(v.Int64())
}
