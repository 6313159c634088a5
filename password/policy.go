package password

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// DefaultSpecialCharacters 默认特殊字符集合.
const DefaultSpecialCharacters = `!@#$%^&*()_+-,./<>/?;:|`

// Policy 口令强度策略.
type Policy struct {
	MinLength        int    `json:"min_length" yaml:"min_length" mapstructure:"min_length"`
	MaxLength        int    `json:"max_length" yaml:"max_length" mapstructure:"max_length"`
	RequireLower     bool   `json:"require_lower" yaml:"require_lower" mapstructure:"require_lower"`
	RequireUpper     bool   `json:"require_upper" yaml:"require_upper" mapstructure:"require_upper"`
	RequireSpecial   bool   `json:"require_special" yaml:"require_special" mapstructure:"require_special"`
	SpecialCharacter string `json:"special_characters" yaml:"special_characters" mapstructure:"special_characters"`
}

// DefaultPolicy 返回默认策略：要求小写、大写与特殊字符.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:        8,
		RequireLower:     true,
		RequireUpper:     true,
		RequireSpecial:   true,
		SpecialCharacter: DefaultSpecialCharacters,
	}
}

// Validate 校验口令是否满足策略.
//
// 校验失败时返回的错误同时匹配 ErrWeakPassword.
func (p Policy) Validate(pw string) error {
	special := p.SpecialCharacter
	if special == "" {
		special = DefaultSpecialCharacters
	}

	rules := []validation.Rule{validation.Required}
	if p.MinLength > 0 || p.MaxLength > 0 {
		maxLen := p.MaxLength
		if maxLen < p.MinLength {
			maxLen = 0
		}
		rules = append(rules, validation.RuneLength(p.MinLength, maxLen))
	}
	if p.RequireLower {
		rules = append(rules, containsAny("abcdefghijklmnopqrstuvwxyz", "必须包含小写字母"))
	}
	if p.RequireUpper {
		rules = append(rules, containsAny("ABCDEFGHIJKLMNOPQRSTUVWXYZ", "必须包含大写字母"))
	}
	if p.RequireSpecial {
		rules = append(rules, containsAny(special, "必须包含特殊字符"))
	}

	if err := validation.Validate(pw, rules...); err != nil {
		return errors.Join(ErrWeakPassword, err)
	}
	return nil
}

func containsAny(chars, message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if !strings.ContainsAny(s, chars) {
			return errors.New(message)
		}
		return nil
	})
}
