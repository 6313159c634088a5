package auth

import "context"

// authenticationKey 认证结果上下文键，按用户类型区分.
type authenticationKey[U any] struct{}

// WithAuthentication 将认证结果存入 context.
func WithAuthentication[U any](ctx context.Context, a *Authentication[U]) context.Context {
	return context.WithValue(ctx, authenticationKey[U]{}, a)
}

// AuthenticationFromContext 从 context 获取认证结果.
func AuthenticationFromContext[U any](ctx context.Context) (*Authentication[U], bool) {
	a, ok := ctx.Value(authenticationKey[U]{}).(*Authentication[U])
	return a, ok && a != nil
}

// UserFromContext 从 context 获取已认证用户.
func UserFromContext[U any](ctx context.Context) (U, bool) {
	a, ok := AuthenticationFromContext[U](ctx)
	if !ok {
		var zero U
		return zero, false
	}
	return a.User, true
}

// TokenFromContext 从 context 获取认证使用的令牌.
func TokenFromContext[U any](ctx context.Context) (string, bool) {
	a, ok := AuthenticationFromContext[U](ctx)
	if !ok {
		return "", false
	}
	return a.Token, true
}

// PrincipalFromContext 从 context 获取 *Principal 用户.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	return UserFromContext[*Principal](ctx)
}

// HasRole 检查当前 context 中的主体是否有指定角色.
func HasRole(ctx context.Context, role string) bool {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return false
	}
	return principal.HasRole(role)
}

// HasPermission 检查当前 context 中的主体是否有指定权限.
func HasPermission(ctx context.Context, permission string) bool {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return false
	}
	return principal.HasPermission(permission)
}
