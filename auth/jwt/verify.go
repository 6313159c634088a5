package jwt

import (
	"encoding/json"
	"math"
	"slices"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// VerifyOptions 解码时的校验选项，各项独立开关.
type VerifyOptions struct {
	// Signature 校验签名.
	Signature bool

	// Expiration 校验 exp.
	Expiration bool

	// NotBefore 校验 nbf.
	NotBefore bool

	// IssuedAt 校验 iat.
	IssuedAt bool

	// Issuer 校验 iss，仅在 Issuers 非空时生效.
	Issuer bool

	// Audience 校验 aud.
	Audience bool

	// Required 必须存在的声明名称.
	Required []string

	// Issuers 允许的签发者.
	Issuers []string

	// Audiences 允许的受众.
	Audiences []string

	// Leeway 时间类声明的容差.
	Leeway time.Duration
}

// DefaultVerifyOptions 返回全部开启的校验选项.
func DefaultVerifyOptions() VerifyOptions {
	return VerifyOptions{
		Signature:  true,
		Expiration: true,
		NotBefore:  true,
		IssuedAt:   true,
		Issuer:     true,
		Audience:   true,
	}
}

// NoVerifyOptions 返回全部关闭的校验选项.
func NoVerifyOptions() VerifyOptions {
	return VerifyOptions{}
}

// validate 依次校验 required、exp、nbf、iat、iss、aud.
func (o VerifyOptions) validate(claims gojwt.MapClaims, now time.Time) error {
	for _, name := range o.Required {
		if v, ok := claims[name]; !ok || v == nil {
			return claimError(ErrMissingRequiredClaim, "缺少声明 %q", name)
		}
	}

	if o.Expiration {
		if v, ok := claims["exp"]; ok {
			exp, ok := numericDate(v)
			if !ok {
				return claimError(ErrDecode, "exp 不是数值")
			}
			if !now.Before(exp.Add(o.Leeway)) {
				return claimError(ErrExpiredSignature, "exp %s", exp.Format(time.RFC3339))
			}
		}
	}

	if o.NotBefore {
		if v, ok := claims["nbf"]; ok {
			nbf, ok := numericDate(v)
			if !ok {
				return claimError(ErrDecode, "nbf 不是数值")
			}
			if now.Add(o.Leeway).Before(nbf) {
				return claimError(ErrImmatureSignature, "nbf %s", nbf.Format(time.RFC3339))
			}
		}
	}

	if o.IssuedAt {
		if v, ok := claims["iat"]; ok {
			iat, ok := numericDate(v)
			if !ok {
				return claimError(ErrInvalidIssuedAt, "iat 不是数值")
			}
			if now.Add(o.Leeway).Before(iat) {
				return claimError(ErrInvalidIssuedAt, "iat %s 晚于当前时间", iat.Format(time.RFC3339))
			}
		}
	}

	if o.Issuer && len(o.Issuers) > 0 {
		v, ok := claims["iss"]
		if !ok {
			return claimError(ErrMissingRequiredClaim, "缺少声明 %q", "iss")
		}
		iss, ok := v.(string)
		if !ok || !slices.Contains(o.Issuers, iss) {
			return claimError(ErrInvalidIssuer, "iss %v", v)
		}
	}

	if o.Audience {
		return o.validateAudience(claims)
	}
	return nil
}

func (o VerifyOptions) validateAudience(claims gojwt.MapClaims) error {
	v, present := claims["aud"]
	if len(o.Audiences) == 0 {
		if present {
			return claimError(ErrInvalidAudience, "未配置受众但令牌包含 aud")
		}
		return nil
	}
	if !present {
		return claimError(ErrMissingRequiredClaim, "缺少声明 %q", "aud")
	}

	auds, err := claims.GetAudience()
	if err != nil {
		return &TokenError{Kind: ErrInvalidAudience, Err: err}
	}
	for _, aud := range auds {
		if slices.Contains(o.Audiences, aud) {
			return nil
		}
	}
	return claimError(ErrInvalidAudience, "aud %v", v)
}

// numericDate 解析 NumericDate 声明.
func numericDate(v any) (time.Time, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return time.Time{}, false
		}
	default:
		return time.Time{}, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}

	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)), true
}
