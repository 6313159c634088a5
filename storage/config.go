package storage

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Tsukikage7/go-sugar/logger"
)

// 存储类型.
const (
	TypeFileSystem = "filesystem"
	TypeS3         = "s3"
)

// Config 存储配置.
type Config struct {
	// Type 存储类型：filesystem 或 s3
	Type string `json:"type" yaml:"type" mapstructure:"type"`
	// Root 本地存储根目录
	Root string `json:"root" yaml:"root" mapstructure:"root"`
	// Policy 保存策略
	Policy PolicyConfig `json:"policy" yaml:"policy" mapstructure:"policy"`
	// S3 对象存储配置
	S3 S3Config `json:"s3" yaml:"s3" mapstructure:"s3"`
}

// PolicyConfig 保存策略配置.
type PolicyConfig struct {
	Application     string `json:"application" yaml:"application" mapstructure:"application"`
	TimestampLayout string `json:"timestamp_layout" yaml:"timestamp_layout" mapstructure:"timestamp_layout"`
	// Suffix 固定后缀
	Suffix string `json:"suffix" yaml:"suffix" mapstructure:"suffix"`
	// UUIDSuffix 追加 UUID 后缀，优先于 Suffix
	UUIDSuffix bool `json:"uuid_suffix" yaml:"uuid_suffix" mapstructure:"uuid_suffix"`
}

// S3Config S3 配置.
type S3Config struct {
	// Endpoint 端点地址，为空时使用 AWS 默认端点
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	Region   string `json:"region" yaml:"region" mapstructure:"region"`
	// AccessKey 为空时使用默认凭证链
	AccessKey string `json:"access_key" yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key" mapstructure:"secret_key"`
	Bucket    string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
	// UsePathStyle 是否使用路径风格（MinIO 需要）
	UsePathStyle bool `json:"use_path_style" yaml:"use_path_style" mapstructure:"use_path_style"`
	MaxRetries   int  `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// DefaultConfig 返回默认配置.
func DefaultConfig() *Config {
	return &Config{
		Type: TypeFileSystem,
		Root: "media",
		Policy: PolicyConfig{
			TimestampLayout: DefaultTimestampLayout,
		},
		S3: S3Config{
			Region:     "us-east-1",
			MaxRetries: 3,
		},
	}
}

// ApplyDefaults 应用默认值.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Type == "" {
		c.Type = defaults.Type
	}
	if c.Root == "" {
		c.Root = defaults.Root
	}
	if c.S3.Region == "" {
		c.S3.Region = defaults.S3.Region
	}
	if c.S3.MaxRetries == 0 {
		c.S3.MaxRetries = defaults.S3.MaxRetries
	}
}

// Validate 验证配置.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Type, validation.Required, validation.In(TypeFileSystem, TypeS3)),
		validation.Field(&c.S3, validation.By(c.requireBucket)),
	)
}

func (c *Config) requireBucket(value interface{}) error {
	if c.Type != TypeS3 {
		return nil
	}
	return validation.ValidateStruct(&c.S3,
		validation.Field(&c.S3.Bucket, validation.Required),
		validation.Field(&c.S3.Region, validation.Required),
	)
}

// SavePolicy 返回配置对应的保存策略.
func (c PolicyConfig) SavePolicy() SavePolicy {
	policy := SavePolicy{
		Application:     c.Application,
		TimestampLayout: c.TimestampLayout,
	}
	switch {
	case c.UUIDSuffix:
		policy.Suffix = UUIDSuffix()
	case c.Suffix != "":
		policy.Suffix = StaticSuffix(c.Suffix)
	}
	return policy
}

// New 按配置创建存储.
func New(ctx context.Context, cfg *Config, log logger.Logger) (Storage, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log = logger.OrNop(log)
	opts := []Option{
		WithSavePolicy(cfg.Policy.SavePolicy()),
		WithLogger(log),
	}

	switch cfg.Type {
	case TypeFileSystem:
		log.With(logger.String("root", cfg.Root)).Info("[Storage] 使用本地文件存储")
		return NewFileSystemStorage(cfg.Root, opts...), nil
	case TypeS3:
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		log.With(
			logger.String("endpoint", cfg.S3.Endpoint),
			logger.String("bucket", cfg.S3.Bucket),
		).Info("[Storage] 使用 S3 存储")
		return NewS3Storage(client, cfg.S3.Bucket, opts...), nil
	default:
		return nil, ErrUnsupportedType
	}
}
