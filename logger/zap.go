package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger zap 日志实现.
type zapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// newZapLogger 创建 zap logger.
func newZapLogger(config *Config) (Logger, error) {
	core := zapcore.NewCore(buildEncoder(config), zapcore.AddSync(os.Stdout), parseLevel(config.Level))

	var options []zap.Option
	if config.EnableCaller {
		options = append(options, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	zapLog := zap.New(core, options...).With(zap.String("service", config.ServiceName))
	return NewFromZap(zapLog), nil
}

// NewFromZap 包装已有的 zap.Logger.
func NewFromZap(l *zap.Logger) Logger {
	return &zapLogger{
		logger: l,
		sugar:  l.Sugar(),
	}
}

// NewNop 返回不输出任何内容的 logger.
func NewNop() Logger {
	return NewFromZap(zap.NewNop())
}

func buildEncoder(config *Config) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = config.TimeKey
	cfg.MessageKey = config.MessageKey
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	if strings.EqualFold(config.Format, FormatConsole) {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn, "warning":
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *zapLogger) Debug(args ...any) {
	z.sugar.Debug(args...)
}

func (z *zapLogger) Debugf(format string, args ...any) {
	z.sugar.Debugf(format, args...)
}

func (z *zapLogger) Info(args ...any) {
	z.sugar.Info(args...)
}

func (z *zapLogger) Infof(format string, args ...any) {
	z.sugar.Infof(format, args...)
}

func (z *zapLogger) Warn(args ...any) {
	z.sugar.Warn(args...)
}

func (z *zapLogger) Warnf(format string, args ...any) {
	z.sugar.Warnf(format, args...)
}

func (z *zapLogger) Error(args ...any) {
	z.sugar.Error(args...)
}

func (z *zapLogger) Errorf(format string, args ...any) {
	z.sugar.Errorf(format, args...)
}

// With 返回带有附加字段的 logger.
func (z *zapLogger) With(fields ...Field) Logger {
	zapFields := make([]zap.Field, len(fields))
	for i, f := range fields {
		zapFields[i] = toZapField(f)
	}
	return NewFromZap(z.logger.With(zapFields...))
}

func toZapField(f Field) zap.Field {
	switch v := f.Value.(type) {
	case string:
		return zap.String(f.Key, v)
	case int:
		return zap.Int(f.Key, v)
	case int64:
		return zap.Int64(f.Key, v)
	case bool:
		return zap.Bool(f.Key, v)
	case time.Duration:
		return zap.Duration(f.Key, v)
	case time.Time:
		return zap.Time(f.Key, v)
	case error:
		return zap.NamedError(f.Key, v)
	default:
		return zap.Any(f.Key, v)
	}
}

// WithContext 返回带有 context 中 trace 信息的 logger.
//
// 优先使用 ContextWithTraceID/ContextWithSpanID 注入的值，其次使用 OpenTelemetry span.
func (z *zapLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return z
	}

	traceID, _ := ctx.Value(TraceIDKey).(string)
	spanID, _ := ctx.Value(SpanIDKey).(string)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		if traceID == "" {
			traceID = sc.TraceID().String()
		}
		if spanID == "" {
			spanID = sc.SpanID().String()
		}
	}

	var fields []Field
	if traceID != "" {
		fields = append(fields, String("traceId", traceID))
	}
	if spanID != "" {
		fields = append(fields, String("spanId", spanID))
	}
	if len(fields) == 0 {
		return z
	}
	return z.With(fields...)
}

// Sync 同步日志缓冲区.
func (z *zapLogger) Sync() error {
	return z.logger.Sync()
}

// Close 关闭 logger.
//
// stdout 的 sync 错误被忽略，见 https://github.com/uber-go/zap/issues/328.
func (z *zapLogger) Close() error {
	_ = z.logger.Sync()
	return nil
}
