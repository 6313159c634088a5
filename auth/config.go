package auth

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Tsukikage7/go-sugar/logger"
)

// 令牌解析策略名称.
const (
	StrategyQuery  = "query"
	StrategyHeader = "header"
	StrategyBearer = "bearer"
	StrategyBasic  = "basic"
)

// ResolverConfig 令牌解析配置.
//
// Strategies 的顺序即解析优先级.
type ResolverConfig struct {
	Strategies     []string `json:"strategies" yaml:"strategies" mapstructure:"strategies"`
	QueryParameter string   `json:"query_parameter" yaml:"query_parameter" mapstructure:"query_parameter"`
	HeaderName     string   `json:"header_name" yaml:"header_name" mapstructure:"header_name"`
	HeaderPrefix   string   `json:"header_prefix" yaml:"header_prefix" mapstructure:"header_prefix"`
}

// DefaultResolverConfig 返回默认配置：先查询参数，后 Bearer.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Strategies:     []string{StrategyQuery, StrategyBearer},
		QueryParameter: DefaultQueryParameter,
		HeaderName:     DefaultTokenHeader,
	}
}

// Validate 验证配置.
func (c ResolverConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Strategies, validation.Required, validation.By(knownStrategies)),
	)
}

func knownStrategies(value interface{}) error {
	names, _ := value.([]string)
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case StrategyQuery, StrategyHeader, StrategyBearer, StrategyBasic:
		default:
			return fmt.Errorf("unknown strategy %q", name)
		}
	}
	return nil
}

// Build 按配置构造复合令牌解析器.
func (c ResolverConfig) Build(log logger.Logger) (*CompositeTokenResolver, error) {
	if len(c.Strategies) == 0 {
		c.Strategies = DefaultResolverConfig().Strategies
	}

	resolvers := make([]TokenResolver, 0, len(c.Strategies))
	for _, name := range c.Strategies {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case StrategyQuery:
			resolvers = append(resolvers, QueryTokenResolver{Name: c.QueryParameter})
		case StrategyHeader:
			resolvers = append(resolvers, HeaderTokenResolver{HeaderName: c.HeaderName, Prefix: c.HeaderPrefix})
		case StrategyBearer:
			resolvers = append(resolvers, NewBearerTokenResolver())
		case StrategyBasic:
			resolvers = append(resolvers, NewBasicTokenResolver())
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
		}
	}
	return NewCompositeTokenResolver(log, resolvers...), nil
}
