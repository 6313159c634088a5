package jwt

import (
	"bytes"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/youmark/pkcs8"
)

var (
	oidPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidCurveSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// ecPrivateKey SEC1 格式的 EC 私钥.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// pkcs8PrivateKey PKCS#8 私钥包装.
type pkcs8PrivateKey struct {
	Version    int
	Algo       pkix.AlgorithmIdentifier
	PrivateKey []byte
}

// subjectPublicKeyInfo PKIX 公钥.
type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// ParsePrivateKeyPEM 解析 PEM 私钥.
//
// 支持 PKCS#1、SEC1、PKCS#8、传统加密 PEM（Proc-Type: 4,ENCRYPTED）
// 与加密 PKCS#8（ENCRYPTED PRIVATE KEY）. secp256k1 私钥返回 *secp256k1.PrivateKey.
func ParsePrivateKeyPEM(data, passphrase []byte) (any, error) {
	rest := bytes.TrimSpace(data)
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, fmt.Errorf("%w: 未找到 PEM 私钥", ErrInvalidKey)
		}

		switch block.Type {
		case "EC PARAMETERS":
			continue
		case "ENCRYPTED PRIVATE KEY":
			if len(passphrase) == 0 {
				return nil, fmt.Errorf("%w: 加密私钥需要口令", ErrInvalidKey)
			}
			key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, passphrase)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
			}
			return key, nil
		}

		der := block.Bytes
		//nolint:staticcheck // 传统加密 PEM 仍需兼容
		if x509.IsEncryptedPEMBlock(block) {
			if len(passphrase) == 0 {
				return nil, fmt.Errorf("%w: 加密私钥需要口令", ErrInvalidKey)
			}
			var err error
			//nolint:staticcheck // 传统加密 PEM 仍需兼容
			der, err = x509.DecryptPEMBlock(block, passphrase)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
			}
		}
		return parsePrivateKeyDER(der)
	}
}

func parsePrivateKeyDER(der []byte) (any, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := parseSecp256k1PrivateKey(der); err == nil {
		return key, nil
	}
	return nil, fmt.Errorf("%w: 无法识别的私钥格式", ErrInvalidKey)
}

func parseSecp256k1PrivateKey(der []byte) (*secp256k1.PrivateKey, error) {
	var p8 pkcs8PrivateKey
	if _, err := asn1.Unmarshal(der, &p8); err == nil && p8.Algo.Algorithm.Equal(oidPublicKeyECDSA) {
		var curve asn1.ObjectIdentifier
		if _, err := asn1.Unmarshal(p8.Algo.Parameters.FullBytes, &curve); err != nil || !curve.Equal(oidCurveSecp256k1) {
			return nil, fmt.Errorf("%w: 不是 secp256k1 私钥", ErrInvalidKey)
		}
		der = p8.PrivateKey
	}

	var ec ecPrivateKey
	if _, err := asn1.Unmarshal(der, &ec); err != nil {
		return nil, err
	}
	if ec.NamedCurveOID != nil && !ec.NamedCurveOID.Equal(oidCurveSecp256k1) {
		return nil, fmt.Errorf("%w: 不是 secp256k1 私钥", ErrInvalidKey)
	}
	if len(ec.PrivateKey) == 0 || len(ec.PrivateKey) > 32 {
		return nil, fmt.Errorf("%w: secp256k1 私钥长度无效", ErrInvalidKey)
	}
	return secp256k1.PrivKeyFromBytes(ec.PrivateKey), nil
}

// ParsePublicKeyPEM 解析 PEM 公钥.
//
// 支持 PKIX（PUBLIC KEY）、PKCS#1（RSA PUBLIC KEY）与证书.
// secp256k1 公钥返回 *secp256k1.PublicKey.
func ParsePublicKeyPEM(data []byte) (any, error) {
	block, _ := pem.Decode(bytes.TrimSpace(data))
	if block == nil {
		return nil, fmt.Errorf("%w: 未找到 PEM 公钥", ErrInvalidKey)
	}

	switch block.Type {
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return key, nil
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return cert.PublicKey, nil
	}

	if key, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		return key, nil
	}
	return parseSecp256k1PublicKey(block.Bytes)
}

func parseSecp256k1PublicKey(der []byte) (*secp256k1.PublicKey, error) {
	var spki subjectPublicKeyInfo
	if _, err := asn1.Unmarshal(der, &spki); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if !spki.Algorithm.Algorithm.Equal(oidPublicKeyECDSA) {
		return nil, fmt.Errorf("%w: 无法识别的公钥格式", ErrInvalidKey)
	}

	var curve asn1.ObjectIdentifier
	if _, err := asn1.Unmarshal(spki.Algorithm.Parameters.FullBytes, &curve); err != nil || !curve.Equal(oidCurveSecp256k1) {
		return nil, fmt.Errorf("%w: 不支持的曲线", ErrInvalidKey)
	}

	key, err := secp256k1.ParsePubKey(spki.PublicKey.RightAlign())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}

// MarshalSecp256k1PrivateKeyPEM 将 secp256k1 私钥编码为 SEC1 PEM.
func MarshalSecp256k1PrivateKeyPEM(key *secp256k1.PrivateKey) ([]byte, error) {
	der, err := asn1.Marshal(ecPrivateKey{
		Version:       1,
		PrivateKey:    key.Serialize(),
		NamedCurveOID: oidCurveSecp256k1,
		PublicKey:     bitString(key.PubKey().SerializeUncompressed()),
	})
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}

// MarshalSecp256k1PublicKeyPEM 将 secp256k1 公钥编码为 PKIX PEM.
func MarshalSecp256k1PublicKeyPEM(key *secp256k1.PublicKey) ([]byte, error) {
	params, err := asn1.Marshal(oidCurveSecp256k1)
	if err != nil {
		return nil, err
	}
	der, err := asn1.Marshal(subjectPublicKeyInfo{
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  oidPublicKeyECDSA,
			Parameters: asn1.RawValue{FullBytes: params},
		},
		PublicKey: bitString(key.SerializeUncompressed()),
	})
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

func bitString(b []byte) asn1.BitString {
	return asn1.BitString{Bytes: b, BitLength: 8 * len(b)}
}
