package config

import (
	"maps"
	"strings"
)

// Options 配置加载选项.
type Options struct {
	// EnvPrefix 环境变量前缀，例如 "SUGAR" 会将 SUGAR_JWT_SECRET 映射到 jwt.secret
	EnvPrefix string

	// EnvKeyReplacer 环境变量键替换器，默认将 . 替换为 _
	EnvKeyReplacer *strings.Replacer

	// AutomaticEnv 是否自动绑定环境变量
	AutomaticEnv bool

	// AllowEmptyEnv 是否允许空环境变量值覆盖配置
	AllowEmptyEnv bool

	// ConfigType 显式指定配置文件类型（yaml, json, toml 等）
	ConfigType string

	// Defaults 默认配置值，键为点分路径
	Defaults map[string]any
}

// DefaultOptions 返回默认选项.
func DefaultOptions() *Options {
	return &Options{
		EnvKeyReplacer: strings.NewReplacer(".", "_"),
		AutomaticEnv:   true,
		Defaults:       map[string]any{},
	}
}

func applyOptions(opts []Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option 配置选项函数.
type Option func(*Options)

// WithEnvPrefix 设置环境变量前缀.
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) {
		o.EnvPrefix = prefix
	}
}

// WithAutomaticEnv 设置是否自动绑定环境变量.
func WithAutomaticEnv(enabled bool) Option {
	return func(o *Options) {
		o.AutomaticEnv = enabled
	}
}

// WithAllowEmptyEnv 设置是否允许空环境变量覆盖配置.
func WithAllowEmptyEnv(enabled bool) Option {
	return func(o *Options) {
		o.AllowEmptyEnv = enabled
	}
}

// WithDefaults 合并默认值，同名键以后设置的为准.
func WithDefaults(defaults map[string]any) Option {
	return func(o *Options) {
		if o.Defaults == nil {
			o.Defaults = make(map[string]any, len(defaults))
		}
		maps.Copy(o.Defaults, defaults)
	}
}

// WithConfigType 显式指定配置文件类型.
func WithConfigType(configType string) Option {
	return func(o *Options) {
		o.ConfigType = configType
	}
}
