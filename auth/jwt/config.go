package jwt

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Config JWT 配置.
//
// 密钥可直接给出 PEM 内容，也可给出文件路径，内容优先.
type Config struct {
	Algorithm      string        `json:"algorithm" yaml:"algorithm" mapstructure:"algorithm"`
	Secret         string        `json:"secret" yaml:"secret" mapstructure:"secret"`
	PublicKey      string        `json:"public_key" yaml:"public_key" mapstructure:"public_key"`
	PublicKeyFile  string        `json:"public_key_file" yaml:"public_key_file" mapstructure:"public_key_file"`
	PrivateKey     string        `json:"private_key" yaml:"private_key" mapstructure:"private_key"`
	PrivateKeyFile string        `json:"private_key_file" yaml:"private_key_file" mapstructure:"private_key_file"`
	Passphrase     string        `json:"passphrase" yaml:"passphrase" mapstructure:"passphrase"`
	Issuer         string        `json:"issuer" yaml:"issuer" mapstructure:"issuer"`
	Audience       []string      `json:"audience" yaml:"audience" mapstructure:"audience"`
	TTL            time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
	Verify         VerifyConfig  `json:"verify" yaml:"verify" mapstructure:"verify"`
}

// VerifyConfig 校验配置.
type VerifyConfig struct {
	Signature  bool          `json:"signature" yaml:"signature" mapstructure:"signature"`
	Expiration bool          `json:"expiration" yaml:"expiration" mapstructure:"expiration"`
	NotBefore  bool          `json:"not_before" yaml:"not_before" mapstructure:"not_before"`
	IssuedAt   bool          `json:"issued_at" yaml:"issued_at" mapstructure:"issued_at"`
	Issuer     bool          `json:"issuer" yaml:"issuer" mapstructure:"issuer"`
	Audience   bool          `json:"audience" yaml:"audience" mapstructure:"audience"`
	Required   []string      `json:"required" yaml:"required" mapstructure:"required"`
	Leeway     time.Duration `json:"leeway" yaml:"leeway" mapstructure:"leeway"`
}

// 默认值.
const (
	DefaultAlgorithm = "HS256"
	DefaultTTL       = 2 * time.Hour
)

// DefaultConfig 返回默认配置，校验全部开启.
func DefaultConfig() *Config {
	return &Config{
		Algorithm: DefaultAlgorithm,
		TTL:       DefaultTTL,
		Verify: VerifyConfig{
			Signature:  true,
			Expiration: true,
			NotBefore:  true,
			IssuedAt:   true,
			Issuer:     true,
			Audience:   true,
		},
	}
}

// ConfigDefaults 返回 viper 默认值，键以 prefix 开头.
func ConfigDefaults(prefix string) map[string]any {
	key := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}

	d := DefaultConfig()
	return map[string]any{
		key("algorithm"):         d.Algorithm,
		key("ttl"):               d.TTL,
		key("verify.signature"):  d.Verify.Signature,
		key("verify.expiration"): d.Verify.Expiration,
		key("verify.not_before"): d.Verify.NotBefore,
		key("verify.issued_at"):  d.Verify.IssuedAt,
		key("verify.issuer"):     d.Verify.Issuer,
		key("verify.audience"):   d.Verify.Audience,
	}
}

// Validate 验证配置.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("jwt: 配置为空")
	}

	algs := make([]interface{}, 0, len(algorithmFamilies))
	for _, alg := range Algorithms() {
		algs = append(algs, alg)
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.Algorithm, validation.Required, validation.In(algs...)),
		validation.Field(&c.Secret, validation.By(c.requireSecret)),
		validation.Field(&c.TTL, validation.By(nonNegative)),
	)
}

func (c *Config) requireSecret(value interface{}) error {
	if family, _ := FamilyOf(c.Algorithm); family == FamilyHMAC && value == "" {
		return fmt.Errorf("HMAC 算法需要 secret")
	}
	return nil
}

func nonNegative(value interface{}) error {
	if d, _ := value.(time.Duration); d < 0 {
		return fmt.Errorf("不能为负数")
	}
	return nil
}

// SignatureComponent 按配置创建签名组件.
func (c *Config) SignatureComponent() (*SignatureComponent, error) {
	publicPEM, err := pemSource(c.PublicKey, c.PublicKeyFile)
	if err != nil {
		return nil, err
	}
	privatePEM, err := pemSource(c.PrivateKey, c.PrivateKeyFile)
	if err != nil {
		return nil, err
	}
	return NewSignatureComponent(c.Algorithm, []byte(c.Secret), publicPEM, privatePEM, []byte(c.Passphrase))
}

// VerifyOptions 按配置生成校验选项.
func (c *Config) VerifyOptions() VerifyOptions {
	v := VerifyOptions{
		Signature:  c.Verify.Signature,
		Expiration: c.Verify.Expiration,
		NotBefore:  c.Verify.NotBefore,
		IssuedAt:   c.Verify.IssuedAt,
		Issuer:     c.Verify.Issuer,
		Audience:   c.Verify.Audience,
		Required:   c.Verify.Required,
		Audiences:  c.Audience,
		Leeway:     c.Verify.Leeway,
	}
	if c.Issuer != "" {
		v.Issuers = []string{c.Issuer}
	}
	return v
}

// StandardClaimsFromConfig 按配置生成声明提供者.
func StandardClaimsFromConfig[U any](c *Config, subject func(U) string) StandardClaims[U] {
	return StandardClaims[U]{
		Issuer:   c.Issuer,
		Audience: c.Audience,
		TTL:      c.TTL,
		Subject:  subject,
	}
}

func pemSource(inline, file string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if file == "" {
		return nil, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取密钥文件 %s: %v", ErrInvalidKey, file, err)
	}
	return data, nil
}
