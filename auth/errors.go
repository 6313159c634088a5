package auth

import "errors"

// 认证错误定义.
var (
	// ErrUnauthenticated 未认证错误.
	ErrUnauthenticated = errors.New("auth: 未认证")

	// ErrForbidden 无权限错误.
	ErrForbidden = errors.New("auth: 无权限")

	// ErrMalformedToken 令牌无法按文本解读.
	ErrMalformedToken = errors.New("auth: 令牌不是合法的 UTF-8 文本")

	// ErrInvalidCredentials 无效凭据错误.
	ErrInvalidCredentials = errors.New("auth: 无效凭据")

	// ErrInvalidPrincipal 无效主体错误.
	ErrInvalidPrincipal = errors.New("auth: 无效主体")

	// ErrUnknownStrategy 未知的令牌解析策略.
	ErrUnknownStrategy = errors.New("auth: 未知的令牌解析策略")
)

// IsUnauthenticated 检查是否为未认证错误.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsForbidden 检查是否为无权限错误.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
