// Package jwt 提供基于 JWT 的用户查找与令牌生成.
//
// 特性：
//   - 签名组件覆盖 none、HMAC、RSA/PSS、ECDSA（含 ES256K、ES521）
//   - 签名、exp、nbf、iat、iss、aud 独立校验，支持必需声明
//   - 解码错误映射为稳定的错误种类
//   - 通过 ClaimsConverter / ClaimsProvider 注入身份与声明的转换
//
// 示例：
//
//	component, err := jwt.NewHMAC("HS256", []byte(secret))
//	finder := jwt.NewUserFinder(component, jwt.PrincipalConverter(),
//	    jwt.WithVerifyOptions(jwt.VerifyOptions{Signature: true, Expiration: true}),
//	    jwt.WithLogger(log),
//	)
//	authenticator := auth.NewTokenBasedAuthenticator(jwt.NewTokenResolver(nil), finder)
package jwt

import (
	"context"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/Tsukikage7/go-sugar/auth"
	"github.com/Tsukikage7/go-sugar/logger"
)

// ClaimsConverter 将声明转换为用户.
type ClaimsConverter[U any] interface {
	Convert(ctx context.Context, claims gojwt.MapClaims) (U, bool, error)
}

// ClaimsConverterFunc 函数形式的 ClaimsConverter.
type ClaimsConverterFunc[U any] func(ctx context.Context, claims gojwt.MapClaims) (U, bool, error)

// Convert 实现 ClaimsConverter 接口.
func (f ClaimsConverterFunc[U]) Convert(ctx context.Context, claims gojwt.MapClaims) (U, bool, error) {
	return f(ctx, claims)
}

// UserFinder 解码 JWT 并查找用户.
type UserFinder[U any] struct {
	component *SignatureComponent
	converter ClaimsConverter[U]
	parser    *gojwt.Parser
	opts      *options
}

var _ auth.UserFinder[gojwt.MapClaims] = (*UserFinder[gojwt.MapClaims])(nil)

// NewUserFinder 创建 JWT 用户查找器.
//
// 如果 component 或 converter 为 nil，会 panic.
func NewUserFinder[U any](component *SignatureComponent, converter ClaimsConverter[U], opts ...Option) *UserFinder[U] {
	if component == nil {
		panic("jwt: 必须设置签名组件")
	}
	if converter == nil {
		panic("jwt: 必须设置声明转换器")
	}

	return &UserFinder[U]{
		component: component,
		converter: converter,
		parser:    gojwt.NewParser(gojwt.WithoutClaimsValidation()),
		opts:      applyOptions(opts),
	}
}

// NewClaimsFinder 创建直接以声明作为用户的查找器.
func NewClaimsFinder(component *SignatureComponent, opts ...Option) *UserFinder[gojwt.MapClaims] {
	identity := ClaimsConverterFunc[gojwt.MapClaims](func(_ context.Context, claims gojwt.MapClaims) (gojwt.MapClaims, bool, error) {
		return claims, true, nil
	})
	return NewUserFinder[gojwt.MapClaims](component, identity, opts...)
}

// Decode 解码并校验令牌，返回声明.
//
// 失败时返回 *TokenError.
func (f *UserFinder[U]) Decode(token string) (gojwt.MapClaims, error) {
	claims := gojwt.MapClaims{}

	var err error
	if f.opts.verify.Signature {
		_, err = f.parser.ParseWithClaims(token, claims, f.keyFunc)
	} else {
		_, _, err = f.parser.ParseUnverified(token, claims)
	}
	if err != nil {
		return nil, mapError(err)
	}

	if err := f.opts.verify.validate(claims, f.opts.now()); err != nil {
		return nil, err
	}
	return claims, nil
}

func (f *UserFinder[U]) keyFunc(t *gojwt.Token) (any, error) {
	if alg := t.Method.Alg(); alg != f.component.Name() {
		return nil, fmt.Errorf("%w: %s", errAlgorithmNotAllowed, alg)
	}
	return f.component.DecodingKey(), nil
}

// FindUser 实现 auth.UserFinder 接口.
//
// 声明为空时返回不存在；转换器返回的错误原样返回.
func (f *UserFinder[U]) FindUser(ctx context.Context, token string) (U, bool, error) {
	claims, err := f.Decode(token)
	return f.convert(ctx, claims, err)
}

func (f *UserFinder[U]) convert(ctx context.Context, claims gojwt.MapClaims, err error) (U, bool, error) {
	var zero U

	if err != nil {
		log := f.opts.logger.WithContext(ctx).With(
			logger.String("name", f.opts.name),
			logger.String("alg", f.component.Name()),
			logger.Err(err),
		)
		if KindOf(err) == ErrJWT && f.opts.swallowUnknown {
			log.Warn("[JWT] 忽略未识别的解码错误")
			return zero, false, nil
		}
		log.Warn("[JWT] 令牌验证失败")
		return zero, false, err
	}

	if len(claims) == 0 {
		return zero, false, nil
	}
	return f.converter.Convert(ctx, claims)
}
