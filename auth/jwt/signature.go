package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	gojwt "github.com/golang-jwt/jwt/v5"
)

// Family 签名算法族.
type Family int

// 算法族.
const (
	FamilyNone Family = iota
	FamilyHMAC
	FamilyRSA
	FamilyECDSA
)

func (f Family) String() string {
	switch f {
	case FamilyNone:
		return "none"
	case FamilyHMAC:
		return "hmac"
	case FamilyRSA:
		return "rsa"
	case FamilyECDSA:
		return "ecdsa"
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// AlgorithmNone 不签名.
const AlgorithmNone = "none"

var algorithmFamilies = map[string]Family{
	AlgorithmNone: FamilyNone,
	"HS256":       FamilyHMAC,
	"HS384":       FamilyHMAC,
	"HS512":       FamilyHMAC,
	"RS256":       FamilyRSA,
	"RS384":       FamilyRSA,
	"RS512":       FamilyRSA,
	"PS256":       FamilyRSA,
	"PS384":       FamilyRSA,
	"PS512":       FamilyRSA,
	"ES256":       FamilyECDSA,
	"ES256K":      FamilyECDSA,
	"ES384":       FamilyECDSA,
	"ES512":       FamilyECDSA,
	"ES521":       FamilyECDSA,
}

// ecdsaCurves NIST 曲线算法对应的曲线.
var ecdsaCurves = map[string]elliptic.Curve{
	"ES256": elliptic.P256(),
	"ES384": elliptic.P384(),
	"ES512": elliptic.P521(),
	"ES521": elliptic.P521(),
}

// FamilyOf 返回算法所属的算法族.
func FamilyOf(alg string) (Family, bool) {
	f, ok := algorithmFamilies[alg]
	return f, ok
}

// Algorithms 返回所有支持的算法名称.
func Algorithms() []string {
	algs := make([]string, 0, len(algorithmFamilies))
	for alg := range algorithmFamilies {
		algs = append(algs, alg)
	}
	return algs
}

// SignatureComponent 签名组件，组合算法与签名/验签密钥.
//
// 构造后只读，可在并发请求间共享.
type SignatureComponent struct {
	family      Family
	method      gojwt.SigningMethod
	encodingKey any
	decodingKey any
}

// Name 返回算法名称.
func (c *SignatureComponent) Name() string {
	return c.method.Alg()
}

// Family 返回算法族.
func (c *SignatureComponent) Family() Family {
	return c.family
}

// Method 返回 golang-jwt 签名方法.
func (c *SignatureComponent) Method() gojwt.SigningMethod {
	return c.method
}

// EncodingKey 返回签名密钥.
//
// 对称算法与 DecodingKey 相同；非对称算法为私钥，未配置时为 nil.
func (c *SignatureComponent) EncodingKey() any {
	return c.encodingKey
}

// DecodingKey 返回验签密钥.
func (c *SignatureComponent) DecodingKey() any {
	return c.decodingKey
}

// Sign 签名声明，返回紧凑序列化的令牌.
func (c *SignatureComponent) Sign(claims gojwt.Claims) (string, error) {
	if c.encodingKey == nil {
		return "", fmt.Errorf("%w: %s 未配置私钥", ErrMissingKey, c.Name())
	}
	return gojwt.NewWithClaims(c.method, claims).SignedString(c.encodingKey)
}

func newComponent(alg string, family Family) (*SignatureComponent, error) {
	f, ok := FamilyOf(alg)
	if !ok || f != family {
		return nil, fmt.Errorf("%w: %q 不属于 %s", ErrUnsupportedAlgorithm, alg, family)
	}
	method := gojwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	return &SignatureComponent{family: family, method: method}, nil
}

// NewNone 创建不签名的组件.
func NewNone() *SignatureComponent {
	return &SignatureComponent{
		family:      FamilyNone,
		method:      gojwt.SigningMethodNone,
		encodingKey: gojwt.UnsafeAllowNoneSignatureType,
		decodingKey: gojwt.UnsafeAllowNoneSignatureType,
	}
}

// NewHMAC 创建 HMAC 签名组件.
func NewHMAC(alg string, key []byte) (*SignatureComponent, error) {
	c, err := newComponent(alg, FamilyHMAC)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: %s 需要密钥", ErrMissingKey, alg)
	}

	secret := make([]byte, len(key))
	copy(secret, key)
	c.encodingKey = secret
	c.decodingKey = secret
	return c, nil
}

// NewRSA 从 PEM 创建 RSA/RSASSA-PSS 签名组件.
//
// 至少提供一个密钥；仅提供私钥时从私钥推导公钥.
func NewRSA(alg string, publicPEM, privatePEM, passphrase []byte) (*SignatureComponent, error) {
	var (
		pub  *rsa.PublicKey
		priv *rsa.PrivateKey
	)

	if len(privatePEM) > 0 {
		key, err := ParsePrivateKeyPEM(privatePEM, passphrase)
		if err != nil {
			return nil, err
		}
		var ok bool
		if priv, ok = key.(*rsa.PrivateKey); !ok {
			return nil, fmt.Errorf("%w: 私钥不是 RSA 密钥", ErrInvalidKey)
		}
	}
	if len(publicPEM) > 0 {
		key, err := ParsePublicKeyPEM(publicPEM)
		if err != nil {
			return nil, err
		}
		var ok bool
		if pub, ok = key.(*rsa.PublicKey); !ok {
			return nil, fmt.Errorf("%w: 公钥不是 RSA 密钥", ErrInvalidKey)
		}
	}
	return NewRSAWithKeys(alg, pub, priv)
}

// NewRSAWithKeys 使用已解析的密钥创建 RSA/RSASSA-PSS 签名组件.
func NewRSAWithKeys(alg string, pub *rsa.PublicKey, priv *rsa.PrivateKey) (*SignatureComponent, error) {
	c, err := newComponent(alg, FamilyRSA)
	if err != nil {
		return nil, err
	}
	if pub == nil && priv == nil {
		return nil, fmt.Errorf("%w: %s 需要公钥或私钥", ErrMissingKey, alg)
	}
	if pub == nil {
		pub = &priv.PublicKey
	}

	c.decodingKey = pub
	if priv != nil {
		c.encodingKey = priv
	}
	return c, nil
}

// NewECDSA 从 PEM 创建 ECDSA 签名组件，包括 ES256K.
//
// 至少提供一个密钥；仅提供私钥时从私钥推导公钥.
func NewECDSA(alg string, publicPEM, privatePEM, passphrase []byte) (*SignatureComponent, error) {
	var pub, priv any

	if len(privatePEM) > 0 {
		key, err := ParsePrivateKeyPEM(privatePEM, passphrase)
		if err != nil {
			return nil, err
		}
		priv = key
	}
	if len(publicPEM) > 0 {
		key, err := ParsePublicKeyPEM(publicPEM)
		if err != nil {
			return nil, err
		}
		pub = key
	}

	if alg == SigningMethodES256K.Alg() {
		return newES256KFromKeys(pub, priv)
	}

	var (
		ecPub  *ecdsa.PublicKey
		ecPriv *ecdsa.PrivateKey
	)
	if priv != nil {
		var ok bool
		if ecPriv, ok = priv.(*ecdsa.PrivateKey); !ok {
			return nil, fmt.Errorf("%w: 私钥不是 ECDSA 密钥", ErrInvalidKey)
		}
	}
	if pub != nil {
		var ok bool
		if ecPub, ok = pub.(*ecdsa.PublicKey); !ok {
			return nil, fmt.Errorf("%w: 公钥不是 ECDSA 密钥", ErrInvalidKey)
		}
	}
	return NewECDSAWithKeys(alg, ecPub, ecPriv)
}

// NewECDSAWithKeys 使用已解析的 NIST 曲线密钥创建 ECDSA 签名组件.
func NewECDSAWithKeys(alg string, pub *ecdsa.PublicKey, priv *ecdsa.PrivateKey) (*SignatureComponent, error) {
	c, err := newComponent(alg, FamilyECDSA)
	if err != nil {
		return nil, err
	}
	curve, ok := ecdsaCurves[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s 不使用 NIST 曲线", ErrUnsupportedAlgorithm, alg)
	}
	if pub == nil && priv == nil {
		return nil, fmt.Errorf("%w: %s 需要公钥或私钥", ErrMissingKey, alg)
	}
	if pub == nil {
		pub = &priv.PublicKey
	}
	if pub.Curve.Params().Name != curve.Params().Name {
		return nil, fmt.Errorf("%w: %s 需要 %s 曲线", ErrInvalidKey, alg, curve.Params().Name)
	}

	c.decodingKey = pub
	if priv != nil {
		c.encodingKey = priv
	}
	return c, nil
}

// NewES256KWithKeys 使用 secp256k1 密钥创建 ES256K 签名组件.
func NewES256KWithKeys(pub *secp256k1.PublicKey, priv *secp256k1.PrivateKey) (*SignatureComponent, error) {
	c, err := newComponent(SigningMethodES256K.Alg(), FamilyECDSA)
	if err != nil {
		return nil, err
	}
	if pub == nil && priv == nil {
		return nil, fmt.Errorf("%w: ES256K 需要公钥或私钥", ErrMissingKey)
	}
	if pub == nil {
		pub = priv.PubKey()
	}

	c.decodingKey = pub
	if priv != nil {
		c.encodingKey = priv
	}
	return c, nil
}

func newES256KFromKeys(pub, priv any) (*SignatureComponent, error) {
	var (
		kPub  *secp256k1.PublicKey
		kPriv *secp256k1.PrivateKey
		ok    bool
	)
	if priv != nil {
		if kPriv, ok = priv.(*secp256k1.PrivateKey); !ok {
			return nil, fmt.Errorf("%w: 私钥不是 secp256k1 密钥", ErrInvalidKey)
		}
	}
	if pub != nil {
		if kPub, ok = pub.(*secp256k1.PublicKey); !ok {
			return nil, fmt.Errorf("%w: 公钥不是 secp256k1 密钥", ErrInvalidKey)
		}
	}
	return NewES256KWithKeys(kPub, kPriv)
}

// NewSignatureComponent 按算法名称选择算法族创建签名组件.
//
// HMAC 使用 secret；RSA/ECDSA 使用 PEM 密钥.
func NewSignatureComponent(alg string, secret, publicPEM, privatePEM, passphrase []byte) (*SignatureComponent, error) {
	family, ok := FamilyOf(alg)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}

	switch family {
	case FamilyNone:
		return NewNone(), nil
	case FamilyHMAC:
		return NewHMAC(alg, secret)
	case FamilyRSA:
		return NewRSA(alg, publicPEM, privatePEM, passphrase)
	default:
		return NewECDSA(alg, publicPEM, privatePEM, passphrase)
	}
}
