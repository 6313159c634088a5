package jwt

import (
	"context"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/Tsukikage7/go-sugar/auth"
	"github.com/Tsukikage7/go-sugar/logger"
)

// ClaimsProvider 将用户转换为待签名的声明.
//
// 生成器不校验声明，exp、iss 等由实现负责填充.
type ClaimsProvider[U any] interface {
	Claims(ctx context.Context, user U) (gojwt.MapClaims, error)
}

// ClaimsProviderFunc 函数形式的 ClaimsProvider.
type ClaimsProviderFunc[U any] func(ctx context.Context, user U) (gojwt.MapClaims, error)

// Claims 实现 ClaimsProvider 接口.
func (f ClaimsProviderFunc[U]) Claims(ctx context.Context, user U) (gojwt.MapClaims, error) {
	return f(ctx, user)
}

// TokenGenerator 为用户签发 JWT.
type TokenGenerator[U any] struct {
	component *SignatureComponent
	provider  ClaimsProvider[U]
	opts      *options
}

var _ auth.TokenGenerator[string] = (*TokenGenerator[string])(nil)

// NewTokenGenerator 创建 JWT 生成器.
//
// 如果 component 或 provider 为 nil，会 panic.
func NewTokenGenerator[U any](component *SignatureComponent, provider ClaimsProvider[U], opts ...Option) *TokenGenerator[U] {
	if component == nil {
		panic("jwt: 必须设置签名组件")
	}
	if provider == nil {
		panic("jwt: 必须设置声明提供者")
	}

	return &TokenGenerator[U]{
		component: component,
		provider:  provider,
		opts:      applyOptions(opts),
	}
}

// Generate 实现 auth.TokenGenerator 接口.
func (g *TokenGenerator[U]) Generate(ctx context.Context, user U) (string, error) {
	log := g.opts.logger.WithContext(ctx).With(
		logger.String("name", g.opts.name),
		logger.String("alg", g.component.Name()),
	)

	claims, err := g.provider.Claims(ctx, user)
	if err != nil {
		log.With(logger.Err(err)).Error("[JWT] 生成声明失败")
		return "", err
	}

	token, err := g.component.Sign(claims)
	if err != nil {
		log.With(logger.Err(err)).Error("[JWT] 生成令牌失败")
		return "", err
	}

	subject, _ := claims.GetSubject()
	log.With(logger.String("subject", subject)).Debug("[JWT] 令牌生成成功")
	return token, nil
}
