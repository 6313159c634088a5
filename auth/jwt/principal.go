package jwt

import (
	"context"
	"maps"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/Tsukikage7/go-sugar/auth"
)

// 主体相关的私有声明.
const (
	ClaimName        = "name"
	ClaimType        = "type"
	ClaimRoles       = "roles"
	ClaimPermissions = "permissions"
)

// PrincipalConverter 返回将声明转换为 *auth.Principal 的转换器.
//
// 缺少 sub 时返回 auth.ErrInvalidPrincipal. 完整声明写入 Metadata.
func PrincipalConverter() ClaimsConverter[*auth.Principal] {
	return ClaimsConverterFunc[*auth.Principal](func(_ context.Context, claims gojwt.MapClaims) (*auth.Principal, bool, error) {
		sub, _ := claims["sub"].(string)
		if sub == "" {
			return nil, false, auth.ErrInvalidPrincipal
		}

		p := &auth.Principal{
			ID:          sub,
			Type:        auth.PrincipalTypeUser,
			Roles:       stringsClaim(claims[ClaimRoles]),
			Permissions: stringsClaim(claims[ClaimPermissions]),
			Metadata:    maps.Clone(map[string]any(claims)),
		}
		if name, ok := claims[ClaimName].(string); ok {
			p.Name = name
		}
		if typ, ok := claims[ClaimType].(string); ok && typ != "" {
			p.Type = typ
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			t := exp.Time
			p.ExpiresAt = &t
		}
		return p, true, nil
	})
}

// PrincipalClaims 返回主体的私有声明，可作为 StandardClaims.Extra.
func PrincipalClaims(p *auth.Principal) map[string]any {
	claims := map[string]any{}
	if p.Name != "" {
		claims[ClaimName] = p.Name
	}
	if p.Type != "" {
		claims[ClaimType] = p.Type
	}
	if len(p.Roles) > 0 {
		claims[ClaimRoles] = p.Roles
	}
	if len(p.Permissions) > 0 {
		claims[ClaimPermissions] = p.Permissions
	}
	return claims
}

func stringsClaim(v any) []string {
	switch vs := v.(type) {
	case string:
		return []string{vs}
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
