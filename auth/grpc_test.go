package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func incoming(authorization string) context.Context {
	ctx := context.Background()
	if authorization == "" {
		return ctx
	}
	return metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", authorization))
}

func principalHandler(ctx context.Context, _ any) (any, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return "anonymous", nil
	}
	return p.ID, nil
}

func TestMetadataRequest(t *testing.T) {
	req := MetadataRequest(incoming("Bearer abc"))
	assert.Equal(t, "Bearer abc", req.Header("Authorization"))
	assert.Equal(t, "", req.Query("_token"))

	req = MetadataRequest(context.Background())
	assert.Equal(t, "", req.Header("Authorization"))
}

func TestUnaryServerInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}

	tests := []struct {
		name     string
		err      error
		opts     []Option
		auth     string
		wantResp any
		wantCode codes.Code
	}{
		{name: "认证成功", auth: "Bearer admin-token", wantResp: "1", wantCode: codes.OK},
		{name: "匿名放行", wantResp: "anonymous", wantCode: codes.OK},
		{name: "要求认证", opts: []Option{WithRequired(true)}, wantCode: codes.Unauthenticated},
		{name: "认证错误", err: errors.New("expired"), auth: "Bearer admin-token", wantCode: codes.Unauthenticated},
		{name: "授权失败", opts: []Option{WithAuthorizer(RequireAnyRole("admin"))}, auth: "Bearer user-token", wantCode: codes.PermissionDenied},
		{
			name:     "跳过",
			err:      errors.New("expired"),
			opts:     []Option{WithSkipper(func(context.Context, any) bool { return true })},
			auth:     "Bearer admin-token",
			wantResp: "anonymous",
			wantCode: codes.OK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interceptor := UnaryServerInterceptor(principalAuthenticator(tt.err), tt.opts...)

			resp, err := interceptor(incoming(tt.auth), "req", info, principalHandler)
			assert.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantCode == codes.OK {
				assert.Equal(t, tt.wantResp, resp)
			}
		})
	}
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeServerStream) Context() context.Context {
	return f.ctx
}

func TestStreamServerInterceptor(t *testing.T) {
	info := &grpc.StreamServerInfo{FullMethod: "/test.Service/Stream"}
	interceptor := StreamServerInterceptor(principalAuthenticator(nil), WithRequired(true))

	var seen string
	handler := func(_ any, ss grpc.ServerStream) error {
		p, ok := PrincipalFromContext(ss.Context())
		if ok {
			seen = p.ID
		}
		return nil
	}

	err := interceptor(nil, &fakeServerStream{ctx: incoming("Bearer admin-token")}, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "1", seen)

	err = interceptor(nil, &fakeServerStream{ctx: incoming("")}, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestInterceptor_Panic(t *testing.T) {
	assert.Panics(t, func() { UnaryServerInterceptor[*Principal](nil) })
	assert.Panics(t, func() { StreamServerInterceptor[*Principal](nil) })
}
