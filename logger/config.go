package logger

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Config 日志配置.
type Config struct {
	Type         string `json:"type" yaml:"type" mapstructure:"type"`
	ServiceName  string `json:"service_name" yaml:"service_name" mapstructure:"service_name"`
	Level        string `json:"level" yaml:"level" mapstructure:"level"`
	Format       string `json:"format" yaml:"format" mapstructure:"format"`
	EnableCaller bool   `json:"enable_caller" yaml:"enable_caller" mapstructure:"enable_caller"`
	TimeKey      string `json:"time_key" yaml:"time_key" mapstructure:"time_key"`
	MessageKey   string `json:"message_key" yaml:"message_key" mapstructure:"message_key"`
}

// ConfigError 配置错误.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("logger config error [%s]: %s", e.Field, e.Message)
}

// Validate 验证配置，空值在 ApplyDefaults 中补齐.
func (c *Config) Validate() error {
	if c == nil {
		return &ConfigError{Field: "config", Message: "config cannot be nil"}
	}

	err := validation.ValidateStruct(c,
		validation.Field(&c.Type, validation.By(oneOfFold("logger type", TypeZap))),
		validation.Field(&c.Level, validation.By(oneOfFold("log level", LevelDebug, LevelInfo, LevelWarn, "warning", LevelError))),
		validation.Field(&c.Format, validation.By(oneOfFold("format", FormatJSON, FormatConsole))),
	)
	return toConfigError(err)
}

// oneOfFold 忽略大小写的取值校验，空串视为未设置.
func oneOfFold(what string, allowed ...string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s == "" || slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, s) }) {
			return nil
		}
		return fmt.Errorf("invalid %s: %s", what, s)
	}
}

// toConfigError 取按字段名排序后的第一个校验错误.
func toConfigError(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil
	}
	slices.Sort(fields)
	return &ConfigError{Field: fields[0], Message: errs[fields[0]].Error()}
}

// ApplyDefaults 应用默认值.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = TypeZap
	}
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatJSON
	}
	if c.ServiceName == "" {
		c.ServiceName = "service"
	}
	if c.TimeKey == "" {
		c.TimeKey = "timestamp"
	}
	if c.MessageKey == "" {
		c.MessageKey = "msg"
	}
}

// DefaultConfig 返回默认配置.
func DefaultConfig() *Config {
	config := &Config{}
	config.ApplyDefaults()
	return config
}

// NewDevConfig 返回开发环境配置.
func NewDevConfig() *Config {
	return &Config{
		Type:         TypeZap,
		Level:        LevelDebug,
		Format:       FormatConsole,
		EnableCaller: true,
	}
}
