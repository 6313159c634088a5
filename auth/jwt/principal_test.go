package jwt

import (
	"context"
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsukikage7/go-sugar/auth"
)

func TestPrincipalConverter(t *testing.T) {
	ctx := context.Background()
	conv := PrincipalConverter()

	claims := gojwt.MapClaims{
		"sub":         "svc-1",
		"type":        auth.PrincipalTypeService,
		"name":        "billing",
		"roles":       []any{"reader", 3, "writer"},
		"permissions": "orders:read",
		"exp":         float64(testNow.Unix()),
		"tenant":      "t1",
	}

	p, ok, err := conv.Convert(ctx, claims)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "svc-1", p.ID)
	assert.Equal(t, auth.PrincipalTypeService, p.Type)
	assert.Equal(t, "billing", p.Name)
	assert.Equal(t, []string{"reader", "writer"}, p.Roles)
	assert.Equal(t, []string{"orders:read"}, p.Permissions)
	assert.Equal(t, "t1", p.GetMetadataString("tenant"))
	require.NotNil(t, p.ExpiresAt)
	assert.True(t, p.ExpiresAt.Equal(testNow))

	claims["tenant"] = "changed"
	assert.Equal(t, "t1", p.GetMetadataString("tenant"), "元数据是声明的副本")
}

func TestPrincipalConverter_Defaults(t *testing.T) {
	p, ok, err := PrincipalConverter().Convert(context.Background(), gojwt.MapClaims{"sub": "1"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, auth.PrincipalTypeUser, p.Type)
	assert.Nil(t, p.ExpiresAt)
	assert.Empty(t, p.Roles)
}

func TestPrincipalConverter_MissingSubject(t *testing.T) {
	_, ok, err := PrincipalConverter().Convert(context.Background(), gojwt.MapClaims{"name": "x"})
	assert.ErrorIs(t, err, auth.ErrInvalidPrincipal)
	assert.False(t, ok)
}

func TestPrincipalClaims(t *testing.T) {
	assert.Empty(t, PrincipalClaims(&auth.Principal{ID: "1"}))

	claims := PrincipalClaims(&auth.Principal{
		ID:          "1",
		Name:        "alice",
		Type:        auth.PrincipalTypeUser,
		Roles:       []string{"admin"},
		Permissions: []string{"all"},
	})
	assert.Equal(t, map[string]any{
		ClaimName:        "alice",
		ClaimType:        auth.PrincipalTypeUser,
		ClaimRoles:       []string{"admin"},
		ClaimPermissions: []string{"all"},
	}, claims)
}
