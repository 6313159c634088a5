package jwt

import (
	"crypto"
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	gojwt "github.com/golang-jwt/jwt/v5"
)

// secp256k1 签名为 r||s，各 32 字节.
const secp256k1ScalarSize = 32

// SigningMethodSecp256k1 基于 secp256k1 曲线与 SHA-256 的 ES256K 签名方法.
type SigningMethodSecp256k1 struct{}

// SigningMethodES256K ES256K 签名方法实例.
var SigningMethodES256K = &SigningMethodSecp256k1{}

// SigningMethodES521 以 ES521 为名称的 P-521 + SHA-512 签名方法.
var SigningMethodES521 = &gojwt.SigningMethodECDSA{
	Name:      "ES521",
	Hash:      crypto.SHA512,
	KeySize:   66,
	CurveBits: 521,
}

func init() {
	gojwt.RegisterSigningMethod(SigningMethodES256K.Alg(), func() gojwt.SigningMethod {
		return SigningMethodES256K
	})
	gojwt.RegisterSigningMethod(SigningMethodES521.Alg(), func() gojwt.SigningMethod {
		return SigningMethodES521
	})
}

// Alg 返回算法名称.
func (m *SigningMethodSecp256k1) Alg() string {
	return "ES256K"
}

// Sign 使用 *secp256k1.PrivateKey 签名.
func (m *SigningMethodSecp256k1) Sign(signingString string, key any) ([]byte, error) {
	priv, ok := key.(*secp256k1.PrivateKey)
	if !ok {
		return nil, gojwt.ErrInvalidKeyType
	}

	hash := sha256.Sum256([]byte(signingString))
	sig := ecdsa.Sign(priv, hash[:])

	r, s := sig.R(), sig.S()
	rb, sb := r.Bytes(), s.Bytes()

	out := make([]byte, 2*secp256k1ScalarSize)
	copy(out[:secp256k1ScalarSize], rb[:])
	copy(out[secp256k1ScalarSize:], sb[:])
	return out, nil
}

// Verify 使用 *secp256k1.PublicKey 校验签名.
func (m *SigningMethodSecp256k1) Verify(signingString string, sig []byte, key any) error {
	pub, ok := key.(*secp256k1.PublicKey)
	if !ok {
		return gojwt.ErrInvalidKeyType
	}
	if len(sig) != 2*secp256k1ScalarSize {
		return gojwt.ErrECDSAVerification
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:secp256k1ScalarSize]); overflow {
		return gojwt.ErrECDSAVerification
	}
	if overflow := s.SetByteSlice(sig[secp256k1ScalarSize:]); overflow {
		return gojwt.ErrECDSAVerification
	}

	hash := sha256.Sum256([]byte(signingString))
	if !ecdsa.NewSignature(&r, &s).Verify(hash[:], pub) {
		return gojwt.ErrECDSAVerification
	}
	return nil
}
