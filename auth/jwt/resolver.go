package jwt

import (
	"strings"

	"github.com/Tsukikage7/go-sugar/auth"
)

// TokenResolver 只接受 JWT 紧凑序列化形式的令牌.
type TokenResolver struct {
	base auth.TokenResolver
}

// NewTokenResolver 包装 base，丢弃不是三段式的令牌.
//
// base 为 nil 时使用 Bearer 解析器.
func NewTokenResolver(base auth.TokenResolver) *TokenResolver {
	if base == nil {
		base = auth.NewBearerTokenResolver()
	}
	return &TokenResolver{base: base}
}

// Resolve 实现 auth.TokenResolver 接口.
func (r *TokenResolver) Resolve(req auth.Request) (string, bool, error) {
	token, ok, err := r.base.Resolve(req)
	if err != nil || !ok {
		return "", false, err
	}
	if strings.Count(token, ".") != 2 {
		return "", false, nil
	}
	return token, true, nil
}
