package config

import (
	"context"
	"fmt"
	"maps"

	"github.com/Tsukikage7/go-sugar/auth"
	"github.com/Tsukikage7/go-sugar/auth/jwt"
	"github.com/Tsukikage7/go-sugar/logger"
	"github.com/Tsukikage7/go-sugar/storage"
)

// Settings 应用配置，聚合各组件配置.
//
//	logger:
//	  level: debug
//	jwt:
//	  algorithm: RS256
//	  private_key_file: /etc/app/jwt.pem
//	auth:
//	  strategies: [query, bearer]
//	storage:
//	  type: s3
//	  s3:
//	    bucket: uploads
type Settings struct {
	Logger  logger.Config       `json:"logger" yaml:"logger" mapstructure:"logger"`
	JWT     jwt.Config          `json:"jwt" yaml:"jwt" mapstructure:"jwt"`
	Auth    auth.ResolverConfig `json:"auth" yaml:"auth" mapstructure:"auth"`
	Storage storage.Config      `json:"storage" yaml:"storage" mapstructure:"storage"`
}

// SettingsDefaults 返回 Settings 的默认值，JWT 校验项默认全部开启.
func SettingsDefaults() map[string]any {
	resolver := auth.DefaultResolverConfig()
	store := storage.DefaultConfig()

	defaults := map[string]any{
		"logger.type":   logger.TypeZap,
		"logger.level":  logger.LevelInfo,
		"logger.format": logger.FormatJSON,

		"auth.strategies":      resolver.Strategies,
		"auth.query_parameter": resolver.QueryParameter,
		"auth.header_name":     resolver.HeaderName,

		"storage.type":                    store.Type,
		"storage.root":                    store.Root,
		"storage.policy.timestamp_layout": store.Policy.TimestampLayout,
		"storage.s3.region":               store.S3.Region,
		"storage.s3.max_retries":          store.S3.MaxRetries,
	}
	maps.Copy(defaults, jwt.ConfigDefaults("jwt"))
	return defaults
}

// Validate 依次验证各组件配置.
func (s *Settings) Validate() error {
	if err := s.Logger.Validate(); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if err := s.JWT.Validate(); err != nil {
		return fmt.Errorf("jwt: %w", err)
	}
	if err := s.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := s.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

// LoadSettings 从文件加载应用配置.
//
// 调用方通过 WithDefaults 传入的默认值覆盖内置默认值.
func LoadSettings(configPath string, opts ...Option) (*Settings, error) {
	return Load[Settings](configPath, withSettingsDefaults(opts)...)
}

// LoadSettingsFromBytes 从字节数组加载应用配置.
func LoadSettingsFromBytes(data []byte, configType string, opts ...Option) (*Settings, error) {
	return LoadFromBytes[Settings](data, configType, withSettingsDefaults(opts)...)
}

func withSettingsDefaults(opts []Option) []Option {
	return append([]Option{WithDefaults(SettingsDefaults())}, opts...)
}

// Components 由 Settings 构造的运行时组件.
type Components struct {
	Logger    logger.Logger
	Signature *jwt.SignatureComponent
	Resolver  *auth.CompositeTokenResolver
	Storage   storage.Storage
}

// Build 按配置构造日志、签名组件、令牌解析器与存储.
func (s *Settings) Build(ctx context.Context) (*Components, error) {
	log, err := logger.NewLogger(&s.Logger)
	if err != nil {
		return nil, err
	}

	signature, err := s.JWT.SignatureComponent()
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("jwt: %w", err)
	}

	resolver, err := s.Auth.Build(log)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("auth: %w", err)
	}

	store, err := storage.New(ctx, &s.Storage, log)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	return &Components{
		Logger:    log,
		Signature: signature,
		Resolver:  resolver,
		Storage:   store,
	}, nil
}
