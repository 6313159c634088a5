package password

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/Tsukikage7/go-sugar/lang/codec"
)

// 编码器 id.
const (
	IDNoop    = "noop"
	IDBase64  = "base64"
	IDReverse = "reverse"
	IDBcrypt  = "bcrypt"
	IDPBKDF2  = "pbkdf2"
)

var idPattern = regexp.MustCompile(`^\{([a-z0-9_]+)\}(.*)$`)

// DelegatingEncoder 按密文前缀 "{id}" 分派到具体编码器.
//
// Encode 总是使用当前 id 并加上前缀；Matches 从密文中解析 id，
// 没有前缀的密文按 noop 比较.
type DelegatingEncoder struct {
	id       string
	encoders map[string]Encoder
}

// DelegatingOption 配置 DelegatingEncoder.
type DelegatingOption func(*DelegatingEncoder)

// WithEncodingID 设置编码时使用的 id.
func WithEncodingID(id string) DelegatingOption {
	return func(d *DelegatingEncoder) {
		d.id = id
	}
}

// WithEncoder 注册或替换编码器.
func WithEncoder(id string, encoder Encoder) DelegatingOption {
	return func(d *DelegatingEncoder) {
		d.encoders[id] = encoder
	}
}

// NewDelegatingEncoder 创建分派编码器，默认使用 bcrypt.
//
// 编码 id 未注册时返回 ErrUnsupportedAlgorithm.
func NewDelegatingEncoder(opts ...DelegatingOption) (*DelegatingEncoder, error) {
	d := &DelegatingEncoder{
		id:       IDBcrypt,
		encoders: DefaultEncoders(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if _, ok := d.encoders[d.id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, d.id)
	}
	return d, nil
}

// DefaultEncoders 返回内置编码器集合.
func DefaultEncoders() map[string]Encoder {
	encoders := map[string]Encoder{
		IDNoop:    NoopEncoder{},
		IDBase64:  Base64Encoder{},
		IDReverse: ReverseEncoder{},
		IDBcrypt:  NewBcryptEncoder(DefaultBcryptCost),
		IDPBKDF2:  NewPBKDF2Encoder(DefaultPBKDF2Options()),
	}
	for _, alg := range []string{codec.MD4, codec.MD5, codec.SHA1, codec.SHA224, codec.SHA256, codec.SHA512} {
		encoder, _ := NewDigestEncoder(alg)
		encoders[alg] = encoder
	}
	return encoders
}

// Supported 判断 id 是否已注册.
func (d *DelegatingEncoder) Supported(id string) bool {
	_, ok := d.encoders[id]
	return ok
}

// IDs 返回已注册的 id，按字典序排列.
func (d *DelegatingEncoder) IDs() []string {
	ids := make([]string, 0, len(d.encoders))
	for id := range d.encoders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Encode 编码并添加 "{id}" 前缀.
func (d *DelegatingEncoder) Encode(raw string) (string, error) {
	encoded, err := d.encoders[d.id].Encode(raw)
	if err != nil {
		return "", err
	}
	return "{" + d.id + "}" + encoded, nil
}

// Matches 根据密文前缀选择编码器进行比较.
func (d *DelegatingEncoder) Matches(raw, encoded string) (bool, error) {
	id, rest := SplitEncoded(encoded)
	encoder, ok := d.encoders[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, id)
	}
	return encoder.Matches(raw, rest)
}

// SplitEncoded 拆分 "{id}encoded" 格式的密文，无前缀时 id 为 noop.
func SplitEncoded(encoded string) (id, rest string) {
	m := idPattern.FindStringSubmatch(encoded)
	if m == nil {
		return IDNoop, encoded
	}
	return m[1], m[2]
}
