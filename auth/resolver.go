package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Tsukikage7/go-sugar/lang/strutil"
	"github.com/Tsukikage7/go-sugar/logger"
)

// 默认的令牌来源.
const (
	DefaultQueryParameter = "_token"
	DefaultTokenHeader    = "X-Token"
	AuthorizationHeader   = "Authorization"
	BearerPrefix          = "Bearer "
	BasicPrefix           = "Basic "
)

// TokenResolver 从请求中解析令牌.
//
// 找不到令牌时返回 ("", false, nil)，只有请求中的值无法按文本解读时才返回错误.
type TokenResolver interface {
	Resolve(r Request) (string, bool, error)
}

// TokenResolverFunc 函数式令牌解析器.
type TokenResolverFunc func(r Request) (string, bool, error)

// Resolve 实现 TokenResolver 接口.
func (f TokenResolverFunc) Resolve(r Request) (string, bool, error) {
	return f(r)
}

// QueryTokenResolver 从查询参数中解析令牌，空白值视为不存在.
type QueryTokenResolver struct {
	// Name 参数名，默认 _token.
	Name string
}

// Resolve 实现 TokenResolver 接口.
func (q QueryTokenResolver) Resolve(r Request) (string, bool, error) {
	name := strutil.DefaultIfBlank(q.Name, DefaultQueryParameter)

	value := r.Query(name)
	if !utf8.ValidString(value) {
		return "", false, fmt.Errorf("%w: query %s", ErrMalformedToken, name)
	}
	if strutil.IsBlank(value) {
		return "", false, nil
	}
	return value, true, nil
}

// HeaderTokenResolver 从请求头中解析令牌.
//
// 值必须以 Prefix 开头，去掉前缀后的剩余部分作为令牌.
// 空白值、前缀不匹配或剩余部分为空都视为不存在.
type HeaderTokenResolver struct {
	// HeaderName 请求头名称，默认 X-Token.
	HeaderName string
	// Prefix 值前缀，可为空.
	Prefix string
	// IgnoreCase 前缀比较是否忽略大小写.
	IgnoreCase bool
}

// NewBearerTokenResolver 创建解析 Authorization: Bearer 的解析器.
func NewBearerTokenResolver() HeaderTokenResolver {
	return HeaderTokenResolver{HeaderName: AuthorizationHeader, Prefix: BearerPrefix, IgnoreCase: true}
}

// NewBasicTokenResolver 创建解析 Authorization: Basic 的解析器.
func NewBasicTokenResolver() HeaderTokenResolver {
	return HeaderTokenResolver{HeaderName: AuthorizationHeader, Prefix: BasicPrefix, IgnoreCase: true}
}

// Resolve 实现 TokenResolver 接口.
func (h HeaderTokenResolver) Resolve(r Request) (string, bool, error) {
	name := strutil.DefaultIfBlank(h.HeaderName, DefaultTokenHeader)

	value := r.Header(name)
	if !utf8.ValidString(value) {
		return "", false, fmt.Errorf("%w: header %s", ErrMalformedToken, name)
	}
	if strutil.IsBlank(value) {
		return "", false, nil
	}

	var (
		token string
		ok    bool
	)
	if h.IgnoreCase {
		token, ok = strutil.TrimPrefixFold(value, h.Prefix)
	} else {
		token, ok = strings.CutPrefix(value, h.Prefix)
	}
	if !ok || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// DecodeBasicCredentials 解码 Basic 令牌为用户名与口令.
func DecodeBasicCredentials(token string) (username, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !utf8.Valid(raw) {
		return "", "", ErrMalformedToken
	}

	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	return username, password, nil
}

// CompositeTokenResolver 按顺序尝试多个解析器，返回第一个找到的令牌.
//
// 单个解析器返回错误或 panic 时记录 warn 日志并继续尝试下一个.
type CompositeTokenResolver struct {
	resolvers []TokenResolver
	logger    logger.Logger
}

// NewCompositeTokenResolver 创建复合令牌解析器.
func NewCompositeTokenResolver(log logger.Logger, resolvers ...TokenResolver) *CompositeTokenResolver {
	return &CompositeTokenResolver{
		resolvers: resolvers,
		logger:    logger.OrNop(log),
	}
}

// Len 返回解析器数量.
func (c *CompositeTokenResolver) Len() int {
	return len(c.resolvers)
}

// Resolve 实现 TokenResolver 接口，从不返回错误.
func (c *CompositeTokenResolver) Resolve(r Request) (string, bool, error) {
	for i, resolver := range c.resolvers {
		token, ok, err := c.try(i, resolver, r)
		if err != nil {
			c.logger.With(
				logger.Int("index", i),
				logger.String("resolver", fmt.Sprintf("%T", resolver)),
				logger.Err(err),
			).Warn("[Auth] 令牌解析失败，已忽略")
			continue
		}
		if ok {
			return token, true, nil
		}
	}
	return "", false, nil
}

func (c *CompositeTokenResolver) try(i int, resolver TokenResolver, r Request) (token string, ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("auth: 第 %d 个令牌解析器 panic: %v", i, p)
		}
	}()
	return resolver.Resolve(r)
}
