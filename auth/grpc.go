package auth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Tsukikage7/go-sugar/logger"
)

// UnaryServerInterceptor 返回 gRPC 一元服务器认证拦截器.
//
// 令牌从入站元数据中解析，元数据键不区分大小写.
//
// 示例:
//
//	authenticator := auth.NewTokenBasedAuthenticator(auth.NewBearerTokenResolver(), finder)
//	srv := grpc.NewServer(
//	    grpc.ChainUnaryInterceptor(
//	        auth.UnaryServerInterceptor(authenticator),
//	    ),
//	)
func UnaryServerInterceptor[U any](authenticator *TokenBasedAuthenticator[U], opts ...Option) grpc.UnaryServerInterceptor {
	if authenticator == nil {
		panic("auth: 认证器不能为空")
	}
	o := applyOptions(opts)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if o.skipper != nil && o.skipper(ctx, req) {
			return handler(ctx, req)
		}

		ctx, err := authenticateGRPC(ctx, authenticator, o, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor 返回 gRPC 流服务器认证拦截器.
func StreamServerInterceptor[U any](authenticator *TokenBasedAuthenticator[U], opts ...Option) grpc.StreamServerInterceptor {
	if authenticator == nil {
		panic("auth: 认证器不能为空")
	}
	o := applyOptions(opts)

	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		ctx := ss.Context()

		if o.skipper != nil && o.skipper(ctx, nil) {
			return handler(srv, ss)
		}

		ctx, err := authenticateGRPC(ctx, authenticator, o, info.FullMethod)
		if err != nil {
			return err
		}

		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          ctx,
		})
	}
}

func authenticateGRPC[U any](ctx context.Context, authenticator *TokenBasedAuthenticator[U], o *options, method string) (context.Context, error) {
	result, err := authenticator.Authenticate(ctx, MetadataRequest(ctx))
	if err != nil {
		o.logger.WithContext(ctx).With(
			logger.String("method", method),
			logger.Err(err),
		).Warn("[Auth] gRPC认证失败")
		return ctx, status.Error(codes.Unauthenticated, "authentication failed")
	}

	if result == nil {
		if o.required {
			o.logger.WithContext(ctx).With(logger.String("method", method)).Debug("[Auth] gRPC请求缺少凭据")
			return ctx, status.Error(codes.Unauthenticated, "credentials not found")
		}
		return ctx, nil
	}

	ctx = WithAuthentication(ctx, result)

	if o.authorizer != nil {
		if err := o.authorizer.Authorize(ctx); err != nil {
			o.logger.WithContext(ctx).With(
				logger.String("method", method),
				logger.Err(err),
			).Warn("[Auth] gRPC授权失败")
			return ctx, status.Error(codes.PermissionDenied, "permission denied")
		}
	}

	return ctx, nil
}

// wrappedServerStream 包装 grpc.ServerStream 以替换 context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
