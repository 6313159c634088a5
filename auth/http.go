package auth

import (
	"context"
	"net/http"

	"github.com/Tsukikage7/go-sugar/logger"
)

// HTTPMiddleware 返回 HTTP 认证中间件.
//
// 认证成功后认证结果存入请求 context；匿名请求默认放行，
// 设置 WithRequired(true) 后返回 401.
//
// 示例:
//
//	authenticator := auth.NewTokenBasedAuthenticator(resolver, finder)
//	handler = auth.HTTPMiddleware(authenticator)(handler)
func HTTPMiddleware[U any](authenticator *TokenBasedAuthenticator[U], opts ...Option) func(http.Handler) http.Handler {
	if authenticator == nil {
		panic("auth: 认证器不能为空")
	}
	o := applyOptions(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if o.skipper != nil && o.skipper(ctx, r) {
				next.ServeHTTP(w, r)
				return
			}

			result, err := authenticator.Authenticate(ctx, HTTPRequest(r))
			if err != nil {
				o.logger.WithContext(ctx).With(
					logger.String("path", r.URL.Path),
					logger.Err(err),
				).Warn("[Auth] HTTP认证失败")
				writeHTTPError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if result == nil {
				if o.required {
					o.logger.WithContext(ctx).With(logger.String("path", r.URL.Path)).Debug("[Auth] HTTP请求缺少凭据")
					writeHTTPError(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithAuthentication(ctx, result)

			if o.authorizer != nil {
				if err := o.authorizer.Authorize(ctx); err != nil {
					o.logger.WithContext(ctx).With(
						logger.String("path", r.URL.Path),
						logger.Err(err),
					).Warn("[Auth] HTTP授权失败")
					writeHTTPError(w, http.StatusForbidden, "Forbidden")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeHTTPError 写入 HTTP 错误响应.
func writeHTTPError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}

// HTTPSkipPaths 返回跳过指定路径的 Skipper.
func HTTPSkipPaths(paths ...string) Skipper {
	pathSet := make(map[string]bool)
	for _, p := range paths {
		pathSet[p] = true
	}
	return func(_ context.Context, request any) bool {
		if r, ok := request.(*http.Request); ok {
			return pathSet[r.URL.Path]
		}
		return false
	}
}
