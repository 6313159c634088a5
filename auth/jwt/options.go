package jwt

import (
	"time"

	"github.com/Tsukikage7/go-sugar/logger"
)

// Option JWT 配置选项.
type Option func(*options)

// options JWT 内部配置.
type options struct {
	name           string
	verify         VerifyOptions
	logger         logger.Logger
	now            func() time.Time
	swallowUnknown bool
}

// defaultOptions 返回默认配置.
func defaultOptions() *options {
	return &options{
		name:   "JWT",
		verify: DefaultVerifyOptions(),
		logger: logger.NewNop(),
		now:    time.Now,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithName 设置名称，用于日志.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithVerifyOptions 设置校验选项.
//
// 默认: DefaultVerifyOptions().
func WithVerifyOptions(v VerifyOptions) Option {
	return func(o *options) {
		o.verify = v
	}
}

// WithLogger 设置日志记录器.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.logger = logger.OrNop(log)
	}
}

// WithTimeFunc 设置时钟.
func WithTimeFunc(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSwallowUnknownErrors 将未识别的解码错误视为令牌不存在.
//
// 默认关闭，未识别错误以 ErrJWT 返回. 开启后每次忽略都会记录告警日志.
func WithSwallowUnknownErrors(swallow bool) Option {
	return func(o *options) {
		o.swallowUnknown = swallow
	}
}
