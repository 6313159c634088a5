package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost 默认 bcrypt 计算强度.
const DefaultBcryptCost = bcrypt.DefaultCost

// BcryptEncoder bcrypt 编码器.
type BcryptEncoder struct {
	cost int
}

// NewBcryptEncoder 创建 bcrypt 编码器，cost 越界时使用默认值.
func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptEncoder{cost: cost}
}

// Encode 生成 bcrypt 密文.
func (e *BcryptEncoder) Encode(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(raw), e.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Matches 校验 bcrypt 密文.
func (e *BcryptEncoder) Matches(raw, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(raw))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errors.Join(ErrInvalidHash, err)
	}
}
