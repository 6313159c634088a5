package jwt

import (
	"errors"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrJWT 所有 JWT 解码错误的基础错误.
//
// 未被识别的底层错误也以此作为种类返回.
var ErrJWT = errors.New("jwt: 令牌错误")

// 解码错误种类，均包装 ErrJWT.
var (
	// ErrDecode 令牌无法解析.
	ErrDecode = fmt.Errorf("%w: 令牌无法解析", ErrJWT)

	// ErrInvalidSignature 签名校验失败.
	ErrInvalidSignature = fmt.Errorf("%w: 签名无效", ErrJWT)

	// ErrExpiredSignature 令牌已过期.
	ErrExpiredSignature = fmt.Errorf("%w: 令牌已过期", ErrJWT)

	// ErrInvalidAudience 受众不匹配.
	ErrInvalidAudience = fmt.Errorf("%w: 受众无效", ErrJWT)

	// ErrInvalidIssuer 签发者不匹配.
	ErrInvalidIssuer = fmt.Errorf("%w: 签发者无效", ErrJWT)

	// ErrInvalidIssuedAt 签发时间无效.
	ErrInvalidIssuedAt = fmt.Errorf("%w: 签发时间无效", ErrJWT)

	// ErrImmatureSignature 令牌尚未生效.
	ErrImmatureSignature = fmt.Errorf("%w: 令牌尚未生效", ErrJWT)

	// ErrInvalidAlgorithm 令牌头中的算法不被允许.
	ErrInvalidAlgorithm = fmt.Errorf("%w: 算法不被允许", ErrJWT)

	// ErrMissingRequiredClaim 缺少必需的声明.
	ErrMissingRequiredClaim = fmt.Errorf("%w: 缺少必需的声明", ErrJWT)
)

// 构造错误.
var (
	// ErrUnsupportedAlgorithm 算法名称不属于对应的算法族.
	ErrUnsupportedAlgorithm = errors.New("jwt: 不支持的签名算法")

	// ErrMissingKey 未提供密钥.
	ErrMissingKey = errors.New("jwt: 缺少密钥")

	// ErrInvalidKey 密钥无法解析或与算法不匹配.
	ErrInvalidKey = errors.New("jwt: 无效密钥")

	// ErrEmptySubject 声明提供者未得到主体标识.
	ErrEmptySubject = errors.New("jwt: 主体标识为空")
)

// errAlgorithmNotAllowed 由密钥函数在令牌算法与签名组件不一致时返回.
var errAlgorithmNotAllowed = errors.New("jwt: 令牌算法与签名组件不一致")

// TokenError 解码失败的详细错误.
//
// errors.Is 同时匹配 Kind 与底层原因.
type TokenError struct {
	Kind error
	Err  error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap 返回错误种类与底层原因.
func (e *TokenError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf 返回错误的种类，非 JWT 错误返回 nil.
func KindOf(err error) error {
	var te *TokenError
	if errors.As(err, &te) {
		return te.Kind
	}
	return nil
}

// kindRule 底层错误到错误种类的映射，按顺序匹配.
type kindRule struct {
	cause error
	kind  error
}

var kindRules = []kindRule{
	{errAlgorithmNotAllowed, ErrInvalidAlgorithm},
	{gojwt.ErrTokenMalformed, ErrDecode},
	{gojwt.ErrTokenUnverifiable, ErrInvalidAlgorithm},
	{gojwt.ErrTokenSignatureInvalid, ErrInvalidSignature},
	{gojwt.ErrTokenRequiredClaimMissing, ErrMissingRequiredClaim},
	{gojwt.ErrTokenExpired, ErrExpiredSignature},
	{gojwt.ErrTokenNotValidYet, ErrImmatureSignature},
	{gojwt.ErrTokenUsedBeforeIssued, ErrInvalidIssuedAt},
	{gojwt.ErrTokenInvalidIssuer, ErrInvalidIssuer},
	{gojwt.ErrTokenInvalidAudience, ErrInvalidAudience},
}

// mapError 将 golang-jwt 的错误映射为 TokenError.
func mapError(err error) *TokenError {
	var te *TokenError
	if errors.As(err, &te) {
		return te
	}
	for _, rule := range kindRules {
		if errors.Is(err, rule.cause) {
			return &TokenError{Kind: rule.kind, Err: err}
		}
	}
	return &TokenError{Kind: ErrJWT, Err: err}
}

func claimError(kind error, format string, args ...any) *TokenError {
	return &TokenError{Kind: kind, Err: fmt.Errorf(format, args...)}
}
