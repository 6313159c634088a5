// Package strutil 提供字符串辅助函数.
package strutil

import (
	"strings"
	"unicode/utf8"
)

// IsEmpty 判断字符串是否为空串.
func IsEmpty(s string) bool {
	return s == ""
}

// IsBlank 判断字符串是否为空白串.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// NonBlank 返回第一个非空白字符串，全部为空白时返回空串.
func NonBlank(values ...string) string {
	for _, v := range values {
		if !IsBlank(v) {
			return v
		}
	}
	return ""
}

// DefaultIfBlank s 为空白时返回 def.
func DefaultIfBlank(s, def string) string {
	if IsBlank(s) {
		return def
	}
	return s
}

// HasPrefixFold 忽略大小写判断前缀.
func HasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// HasSuffixFold 忽略大小写判断后缀.
func HasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// TrimPrefixFold 忽略大小写去除前缀.
//
// 前缀不匹配时返回原字符串和 false.
func TrimPrefixFold(s, prefix string) (string, bool) {
	if !HasPrefixFold(s, prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// Reverse 按 rune 反转字符串.
func Reverse(s string) string {
	if !utf8.ValidString(s) {
		b := []byte(s)
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
		return string(b)
	}

	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
