// Package auth 提供基于令牌的请求认证.
//
// 认证流程由三部分组成:
//   - TokenResolver 从请求中解析令牌（查询参数、请求头、Bearer、Basic）
//   - UserFinder 根据令牌查找用户
//   - TokenBasedAuthenticator 组合两者，并提供 HTTP 中间件与 gRPC 拦截器
//
// 基本用法:
//
//	resolver := auth.NewCompositeTokenResolver(log,
//	    auth.QueryTokenResolver{},
//	    auth.NewBearerTokenResolver(),
//	)
//	authenticator := auth.NewTokenBasedAuthenticator(resolver, finder)
//	handler = auth.HTTPMiddleware(authenticator)(handler)
//
// 在业务逻辑中使用:
//
//	func CreateOrder(ctx context.Context, req *CreateOrderRequest) error {
//	    user, ok := auth.UserFromContext[*auth.Principal](ctx)
//	    if !ok {
//	        return auth.ErrUnauthenticated
//	    }
//	    order.UserID = user.ID
//	    return nil
//	}
package auth

import (
	"slices"
	"time"
)

// Principal 身份主体，表示已认证的用户/服务.
type Principal struct {
	// ID 唯一标识.
	ID string

	// Type 主体类型: user, service.
	Type string

	// Name 主体名称（可选）.
	Name string

	// Roles 角色列表.
	Roles []string

	// Permissions 权限列表.
	Permissions []string

	// Metadata 扩展元数据.
	Metadata map[string]any

	// ExpiresAt 过期时间.
	ExpiresAt *time.Time
}

// PrincipalType 主体类型常量.
const (
	PrincipalTypeUser    = "user"
	PrincipalTypeService = "service"
)

// HasRole 检查主体是否具有指定角色.
func (p *Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// HasPermission 检查主体是否具有指定权限.
func (p *Principal) HasPermission(permission string) bool {
	return slices.Contains(p.Permissions, permission)
}

// HasAnyRole 检查主体是否具有任一指定角色.
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// HasAllRoles 检查主体是否具有所有指定角色.
func (p *Principal) HasAllRoles(roles ...string) bool {
	for _, role := range roles {
		if !p.HasRole(role) {
			return false
		}
	}
	return true
}

// IsExpired 检查主体是否已过期.
func (p *Principal) IsExpired() bool {
	return p.IsExpiredAt(time.Now())
}

// IsExpiredAt 检查主体在 now 时刻是否已过期.
func (p *Principal) IsExpiredAt(now time.Time) bool {
	if p.ExpiresAt == nil {
		return false
	}
	return now.After(*p.ExpiresAt)
}

// GetMetadata 获取元数据值.
func (p *Principal) GetMetadata(key string) (any, bool) {
	if p.Metadata == nil {
		return nil, false
	}
	v, ok := p.Metadata[key]
	return v, ok
}

// GetMetadataString 获取字符串类型的元数据值.
func (p *Principal) GetMetadataString(key string) string {
	v, ok := p.GetMetadata(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
