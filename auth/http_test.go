package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func principalAuthenticator(err error) *TokenBasedAuthenticator[*Principal] {
	finder := UserFinderFunc[*Principal](func(_ context.Context, token string) (*Principal, bool, error) {
		if err != nil {
			return nil, false, err
		}
		switch token {
		case "admin-token":
			return &Principal{ID: "1", Roles: []string{"admin"}}, true, nil
		case "user-token":
			return &Principal{ID: "2", Roles: []string{"user"}}, true, nil
		}
		return nil, false, nil
	})
	return NewTokenBasedAuthenticator[*Principal](NewBearerTokenResolver(), finder)
}

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(p.ID))
	})
}

func serve(h http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTPMiddleware(t *testing.T) {
	t.Run("认证成功写入 context", func(t *testing.T) {
		h := HTTPMiddleware(principalAuthenticator(nil))(echoPrincipal())

		rec := serve(h, "/", "Bearer admin-token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1", rec.Body.String())
	})

	t.Run("匿名请求默认放行", func(t *testing.T) {
		h := HTTPMiddleware(principalAuthenticator(nil))(echoPrincipal())

		rec := serve(h, "/", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("要求认证时拒绝匿名请求", func(t *testing.T) {
		h := HTTPMiddleware(principalAuthenticator(nil), WithRequired(true))(echoPrincipal())

		rec := serve(h, "/", "Bearer unknown")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("认证错误返回 401", func(t *testing.T) {
		h := HTTPMiddleware(principalAuthenticator(errors.New("bad signature")))(echoPrincipal())

		rec := serve(h, "/", "Bearer admin-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("跳过路径", func(t *testing.T) {
		h := HTTPMiddleware(principalAuthenticator(errors.New("bad")), WithSkipper(HTTPSkipPaths("/health")))(echoPrincipal())

		rec := serve(h, "/health", "Bearer admin-token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("授权失败返回 403", func(t *testing.T) {
		h := HTTPMiddleware(principalAuthenticator(nil), WithAuthorizer(RequireAnyRole("admin")))(echoPrincipal())

		rec := serve(h, "/", "Bearer user-token")
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = serve(h, "/", "Bearer admin-token")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHTTPMiddleware_Panic(t *testing.T) {
	require.Panics(t, func() {
		HTTPMiddleware[*Principal](nil)
	})
}
