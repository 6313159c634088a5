package jwt

import (
	"context"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StandardClaims 填充注册声明的 ClaimsProvider.
//
// 生成 iat 与 jti；配置了对应字段时生成 sub、iss、aud、exp、nbf.
// Extra 返回的声明先写入，注册声明覆盖同名项.
type StandardClaims[U any] struct {
	// Issuer 签发者.
	Issuer string

	// Audience 受众，单个时编码为字符串.
	Audience []string

	// TTL 有效期，<=0 时不生成 exp.
	TTL time.Duration

	// NotBefore 生效延迟，>0 时生成 nbf.
	NotBefore time.Duration

	// Subject 返回用户的主体标识.
	Subject func(U) string

	// Extra 返回附加声明.
	Extra func(U) map[string]any

	// Now 时钟，默认 time.Now.
	Now func() time.Time
}

// Claims 实现 ClaimsProvider 接口.
func (s StandardClaims[U]) Claims(_ context.Context, user U) (gojwt.MapClaims, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	claims := gojwt.MapClaims{}
	if s.Extra != nil {
		for k, v := range s.Extra(user) {
			claims[k] = v
		}
	}

	if s.Subject != nil {
		sub := s.Subject(user)
		if sub == "" {
			return nil, ErrEmptySubject
		}
		claims["sub"] = sub
	}
	if s.Issuer != "" {
		claims["iss"] = s.Issuer
	}
	switch len(s.Audience) {
	case 0:
	case 1:
		claims["aud"] = s.Audience[0]
	default:
		claims["aud"] = append([]string(nil), s.Audience...)
	}

	claims["iat"] = now.Unix()
	claims["jti"] = uuid.NewString()
	if s.TTL > 0 {
		claims["exp"] = now.Add(s.TTL).Unix()
	}
	if s.NotBefore > 0 {
		claims["nbf"] = now.Add(s.NotBefore).Unix()
	}
	return claims, nil
}
