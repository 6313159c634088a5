package auth

import (
	"context"

	"github.com/Tsukikage7/go-sugar/logger"
)

// Skipper 跳过认证的判断函数.
//
// HTTP 中 request 为 *http.Request，gRPC 中为请求消息（流式调用为 nil）.
type Skipper func(ctx context.Context, request any) bool

// options 中间件配置.
type options struct {
	skipper    Skipper
	required   bool
	authorizer Authorizer
	logger     logger.Logger
}

// Option 中间件配置选项.
type Option func(*options)

// defaultOptions 返回默认配置.
func defaultOptions() *options {
	return &options{
		logger: logger.NewNop(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSkipper 设置跳过函数.
func WithSkipper(skipper Skipper) Option {
	return func(o *options) {
		o.skipper = skipper
	}
}

// WithRequired 设置是否拒绝匿名请求，默认放行.
func WithRequired(required bool) Option {
	return func(o *options) {
		o.required = required
	}
}

// WithAuthorizer 设置授权器，仅对已认证请求生效.
func WithAuthorizer(authorizer Authorizer) Option {
	return func(o *options) {
		o.authorizer = authorizer
	}
}

// WithLogger 设置日志记录器.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.logger = logger.OrNop(log)
	}
}
