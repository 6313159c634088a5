package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPrincipal_HasRole(t *testing.T) {
	tests := []struct {
		name      string
		principal *Principal
		role      string
		want      bool
	}{
		{
			name: "has role",
			principal: &Principal{
				Roles: []string{"admin", "user"},
			},
			role: "admin",
			want: true,
		},
		{
			name: "does not have role",
			principal: &Principal{
				Roles: []string{"user"},
			},
			role: "admin",
			want: false,
		},
		{
			name: "empty roles",
			principal: &Principal{
				Roles: []string{},
			},
			role: "admin",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.HasRole(tt.role); got != tt.want {
				t.Errorf("Principal.HasRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrincipal_HasPermission(t *testing.T) {
	tests := []struct {
		name       string
		principal  *Principal
		permission string
		want       bool
	}{
		{
			name: "has permission",
			principal: &Principal{
				Permissions: []string{"read:orders", "write:orders"},
			},
			permission: "read:orders",
			want:       true,
		},
		{
			name: "does not have permission",
			principal: &Principal{
				Permissions: []string{"read:orders"},
			},
			permission: "write:orders",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.HasPermission(tt.permission); got != tt.want {
				t.Errorf("Principal.HasPermission() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrincipal_HasAnyRole(t *testing.T) {
	principal := &Principal{
		Roles: []string{"user", "editor"},
	}

	if !principal.HasAnyRole("admin", "user") {
		t.Error("should have any role")
	}

	if principal.HasAnyRole("admin", "superuser") {
		t.Error("should not have any role")
	}
}

func TestPrincipal_HasAllRoles(t *testing.T) {
	principal := &Principal{
		Roles: []string{"user", "editor", "admin"},
	}

	if !principal.HasAllRoles("user", "editor") {
		t.Error("should have all roles")
	}

	if principal.HasAllRoles("user", "superuser") {
		t.Error("should not have all roles")
	}
}

func TestPrincipal_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		principal *Principal
		want      bool
	}{
		{
			name:      "no expiry",
			principal: &Principal{},
			want:      false,
		},
		{
			name: "not expired",
			principal: &Principal{
				ExpiresAt: func() *time.Time {
					t := time.Now().Add(time.Hour)
					return &t
				}(),
			},
			want: false,
		},
		{
			name: "expired",
			principal: &Principal{
				ExpiresAt: func() *time.Time {
					t := time.Now().Add(-time.Hour)
					return &t
				}(),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.IsExpired(); got != tt.want {
				t.Errorf("Principal.IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrincipal_IsExpiredAt(t *testing.T) {
	exp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &Principal{ExpiresAt: &exp}

	if p.IsExpiredAt(exp.Add(-time.Second)) {
		t.Error("should not be expired before ExpiresAt")
	}
	if !p.IsExpiredAt(exp.Add(time.Second)) {
		t.Error("should be expired after ExpiresAt")
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()

	// 测试无认证结果
	if _, ok := PrincipalFromContext(ctx); ok {
		t.Error("should not have principal")
	}

	// 测试有认证结果
	principal := &Principal{
		ID:    "user-123",
		Type:  PrincipalTypeUser,
		Roles: []string{"admin"},
	}
	ctx = WithAuthentication(ctx, &Authentication[*Principal]{User: principal, Token: "tok"})

	got, ok := PrincipalFromContext(ctx)
	if !ok {
		t.Error("should have principal")
	}
	if got.ID != principal.ID {
		t.Errorf("got ID = %v, want %v", got.ID, principal.ID)
	}

	token, ok := TokenFromContext[*Principal](ctx)
	if !ok || token != "tok" {
		t.Errorf("TokenFromContext() = %v, %v", token, ok)
	}

	// 测试便捷函数
	if !HasRole(ctx, "admin") {
		t.Error("should have admin role")
	}
	if HasRole(ctx, "user") {
		t.Error("should not have user role")
	}
	if HasPermission(ctx, "read") {
		t.Error("should not have read permission")
	}
}

func TestContext_TypeIsolation(t *testing.T) {
	ctx := WithAuthentication(context.Background(), &Authentication[string]{User: "alice", Token: "t"})

	if _, ok := UserFromContext[*Principal](ctx); ok {
		t.Error("different user type should not be visible")
	}

	user, ok := UserFromContext[string](ctx)
	if !ok || user != "alice" {
		t.Errorf("UserFromContext() = %v, %v", user, ok)
	}

	var nilAuth *Authentication[string]
	ctx = WithAuthentication(context.Background(), nilAuth)
	if _, ok := AuthenticationFromContext[string](ctx); ok {
		t.Error("nil authentication should not be reported")
	}
}

func principalContext(p *Principal) context.Context {
	return WithAuthentication(context.Background(), &Authentication[*Principal]{User: p})
}

func TestRequireAnyRole(t *testing.T) {
	tests := []struct {
		name      string
		roles     []string
		principal *Principal
		wantErr   error
	}{
		{
			name:  "has required role",
			roles: []string{"admin"},
			principal: &Principal{
				Roles: []string{"admin", "user"},
			},
		},
		{
			name:  "does not have required role",
			roles: []string{"superuser"},
			principal: &Principal{
				Roles: []string{"admin", "user"},
			},
			wantErr: ErrForbidden,
		},
		{
			name:  "empty required roles",
			roles: []string{},
			principal: &Principal{
				Roles: []string{"user"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireAnyRole(tt.roles...).Authorize(principalContext(tt.principal))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RequireAnyRole() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		err := RequireAnyRole("admin").Authorize(context.Background())
		if !IsUnauthenticated(err) {
			t.Errorf("RequireAnyRole() error = %v", err)
		}
	})
}

func TestRequireAllRoles(t *testing.T) {
	auth := RequireAllRoles("admin", "editor")

	// 有所有角色
	if err := auth.Authorize(principalContext(&Principal{Roles: []string{"admin", "editor", "user"}})); err != nil {
		t.Errorf("should authorize: %v", err)
	}

	// 缺少角色
	if err := auth.Authorize(principalContext(&Principal{Roles: []string{"admin"}})); err == nil {
		t.Error("should not authorize")
	}
}

func TestRequirePermissions(t *testing.T) {
	auth := RequirePermissions("read:orders", "write:orders")

	principal := &Principal{Permissions: []string{"read:orders", "write:orders"}}
	if err := auth.Authorize(principalContext(principal)); err != nil {
		t.Errorf("should authorize: %v", err)
	}

	principal = &Principal{Permissions: []string{"read:orders"}}
	if err := auth.Authorize(principalContext(principal)); !IsForbidden(err) {
		t.Errorf("should be forbidden, got %v", err)
	}
}

func TestChainAuthorizer(t *testing.T) {
	ctx := principalContext(&Principal{Roles: []string{"admin"}, Permissions: []string{"read"}})

	chain := ChainAuthorizer{RequireAnyRole("admin"), RequirePermissions("read")}
	if err := chain.Authorize(ctx); err != nil {
		t.Errorf("should authorize: %v", err)
	}

	chain = append(chain, AuthorizerFunc(func(context.Context) error { return ErrForbidden }))
	if err := chain.Authorize(ctx); !IsForbidden(err) {
		t.Errorf("should be forbidden, got %v", err)
	}
}

func TestIsUnauthenticated(t *testing.T) {
	if !IsUnauthenticated(ErrUnauthenticated) {
		t.Error("should be unauthenticated")
	}
	if IsUnauthenticated(ErrForbidden) {
		t.Error("should not be unauthenticated")
	}
}

func TestIsForbidden(t *testing.T) {
	if !IsForbidden(ErrForbidden) {
		t.Error("should be forbidden")
	}
	if IsForbidden(ErrUnauthenticated) {
		t.Error("should not be forbidden")
	}
}

func TestPrincipal_GetMetadata(t *testing.T) {
	principal := &Principal{
		Metadata: map[string]any{
			"key1": "value1",
			"key2": 123,
		},
	}

	// 获取存在的 key
	v, ok := principal.GetMetadata("key1")
	if !ok || v != "value1" {
		t.Errorf("GetMetadata(key1) = %v, %v", v, ok)
	}

	// 获取不存在的 key
	_, ok = principal.GetMetadata("key3")
	if ok {
		t.Error("should not have key3")
	}

	// GetMetadataString
	s := principal.GetMetadataString("key1")
	if s != "value1" {
		t.Errorf("GetMetadataString(key1) = %v", s)
	}

	s = principal.GetMetadataString("key2") // 非字符串类型
	if s != "" {
		t.Errorf("GetMetadataString(key2) should return empty, got %v", s)
	}

	// nil metadata
	p2 := &Principal{}
	_, ok = p2.GetMetadata("any")
	if ok {
		t.Error("should return false for nil metadata")
	}
}
