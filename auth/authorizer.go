package auth

import "context"

// Authorizer 授权器，在认证成功后由中间件调用.
//
// 认证结果可通过 AuthenticationFromContext 从 ctx 中取得.
type Authorizer interface {
	Authorize(ctx context.Context) error
}

// AuthorizerFunc 函数式授权器.
type AuthorizerFunc func(ctx context.Context) error

// Authorize 实现 Authorizer 接口.
func (f AuthorizerFunc) Authorize(ctx context.Context) error {
	return f(ctx)
}

// RequireAnyRole 要求 *Principal 具有任一指定角色.
func RequireAnyRole(roles ...string) Authorizer {
	return AuthorizerFunc(func(ctx context.Context) error {
		principal, ok := PrincipalFromContext(ctx)
		if !ok {
			return ErrUnauthenticated
		}
		if len(roles) == 0 || principal.HasAnyRole(roles...) {
			return nil
		}
		return ErrForbidden
	})
}

// RequireAllRoles 要求 *Principal 具有所有指定角色.
func RequireAllRoles(roles ...string) Authorizer {
	return AuthorizerFunc(func(ctx context.Context) error {
		principal, ok := PrincipalFromContext(ctx)
		if !ok {
			return ErrUnauthenticated
		}
		if principal.HasAllRoles(roles...) {
			return nil
		}
		return ErrForbidden
	})
}

// RequirePermissions 要求 *Principal 具有所有指定权限.
func RequirePermissions(permissions ...string) Authorizer {
	return AuthorizerFunc(func(ctx context.Context) error {
		principal, ok := PrincipalFromContext(ctx)
		if !ok {
			return ErrUnauthenticated
		}
		for _, perm := range permissions {
			if !principal.HasPermission(perm) {
				return ErrForbidden
			}
		}
		return nil
	})
}

// ChainAuthorizer 链式授权器，所有授权器都通过才算通过.
type ChainAuthorizer []Authorizer

// Authorize 实现 Authorizer 接口.
func (c ChainAuthorizer) Authorize(ctx context.Context) error {
	for _, a := range c {
		if err := a.Authorize(ctx); err != nil {
			return err
		}
	}
	return nil
}
