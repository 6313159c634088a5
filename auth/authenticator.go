package auth

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Tsukikage7/go-sugar/logger"
)

const tracerName = "github.com/Tsukikage7/go-sugar/auth"

// 认证结果，用于日志、指标与 span 属性.
const (
	ResultAuthenticated = "authenticated"
	ResultAnonymous     = "anonymous"
	ResultNotFound      = "not_found"
	ResultError         = "error"
)

// UserFinder 根据令牌查找用户.
//
// 用户不存在时返回 ok=false.
type UserFinder[U any] interface {
	FindUser(ctx context.Context, token string) (user U, ok bool, err error)
}

// UserFinderFunc 函数式用户查找器.
type UserFinderFunc[U any] func(ctx context.Context, token string) (U, bool, error)

// FindUser 实现 UserFinder 接口.
func (f UserFinderFunc[U]) FindUser(ctx context.Context, token string) (U, bool, error) {
	return f(ctx, token)
}

// Authentication 认证结果.
type Authentication[U any] struct {
	User  U
	Token string
}

// TokenBasedAuthenticator 基于令牌的认证器.
//
// 先用 TokenResolver 取得令牌，再交给 UserFinder 查找用户.
// 请求中没有令牌或用户不存在时返回 (nil, nil)，即匿名请求.
type TokenBasedAuthenticator[U any] struct {
	resolver TokenResolver
	finder   UserFinder[U]
	opts     *authenticatorOptions
}

// NewTokenBasedAuthenticator 创建基于令牌的认证器.
func NewTokenBasedAuthenticator[U any](resolver TokenResolver, finder UserFinder[U], opts ...AuthenticatorOption) *TokenBasedAuthenticator[U] {
	if resolver == nil {
		panic("auth: 令牌解析器不能为空")
	}
	if finder == nil {
		panic("auth: 用户查找器不能为空")
	}

	o := defaultAuthenticatorOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = otel.GetTracerProvider().Tracer(tracerName)
	}

	return &TokenBasedAuthenticator[U]{
		resolver: resolver,
		finder:   finder,
		opts:     o,
	}
}

// Authenticate 认证请求.
//
// 解析或查找失败时默认返回错误；开启 WithSuppressErrors 后视为匿名请求.
func (a *TokenBasedAuthenticator[U]) Authenticate(ctx context.Context, r Request) (*Authentication[U], error) {
	start := time.Now()
	ctx, span := a.opts.tracer.Start(ctx, "auth.Authenticate", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	token, ok, err := a.resolver.Resolve(r)
	if err != nil {
		return a.fail(ctx, span, start, "resolve", err)
	}
	if !ok {
		a.finish(span, start, ResultAnonymous)
		return nil, nil
	}

	user, ok, err := a.finder.FindUser(ctx, token)
	if err != nil {
		return a.fail(ctx, span, start, "find_user", err)
	}
	if !ok {
		a.finish(span, start, ResultNotFound)
		return nil, nil
	}

	a.finish(span, start, ResultAuthenticated)
	return &Authentication[U]{User: user, Token: token}, nil
}

func (a *TokenBasedAuthenticator[U]) fail(ctx context.Context, span trace.Span, start time.Time, stage string, err error) (*Authentication[U], error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("auth.stage", stage))
	a.finish(span, start, ResultError)

	log := a.opts.logger.WithContext(ctx).With(
		logger.String("stage", stage),
		logger.Bool("suppressed", a.opts.suppressErrors),
		logger.Err(err),
	)
	if a.opts.suppressErrors {
		log.Warn("[Auth] 认证失败，按匿名请求处理")
		return nil, nil
	}
	log.Debug("[Auth] 认证失败")
	return nil, err
}

func (a *TokenBasedAuthenticator[U]) finish(span trace.Span, start time.Time, result string) {
	span.SetAttributes(attribute.String("auth.result", result))
	if a.opts.metrics != nil {
		a.opts.metrics.observe(result, time.Since(start))
	}
}

// authenticatorOptions 认证器配置.
type authenticatorOptions struct {
	suppressErrors bool
	logger         logger.Logger
	metrics        *Metrics
	tracer         trace.Tracer
}

// AuthenticatorOption 认证器配置选项.
type AuthenticatorOption func(*authenticatorOptions)

func defaultAuthenticatorOptions() *authenticatorOptions {
	return &authenticatorOptions{
		logger: logger.NewNop(),
	}
}

// WithSuppressErrors 设置是否将认证错误视为匿名请求.
func WithSuppressErrors(suppress bool) AuthenticatorOption {
	return func(o *authenticatorOptions) {
		o.suppressErrors = suppress
	}
}

// WithAuthenticatorLogger 设置认证器日志记录器.
func WithAuthenticatorLogger(log logger.Logger) AuthenticatorOption {
	return func(o *authenticatorOptions) {
		o.logger = logger.OrNop(log)
	}
}

// WithMetrics 设置认证指标.
func WithMetrics(m *Metrics) AuthenticatorOption {
	return func(o *authenticatorOptions) {
		o.metrics = m
	}
}

// WithTracerProvider 设置 TracerProvider，默认使用全局 provider.
func WithTracerProvider(tp trace.TracerProvider) AuthenticatorOption {
	return func(o *authenticatorOptions) {
		if tp != nil {
			o.tracer = tp.Tracer(tracerName)
		}
	}
}
