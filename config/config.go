// Package config 提供基于 viper 的配置加载.
//
// 配置文件与环境变量合并后解析到任意结构体，
// 目标类型实现 Validatable 时自动校验：
//
//	settings, err := config.LoadSettings("configs/app.yaml", config.WithEnvPrefix("SUGAR"))
package config

import (
	"path/filepath"
	"strings"
)

// Validatable 可验证的配置接口.
type Validatable interface {
	Validate() error
}

// GetConfigType 根据文件扩展名获取配置类型.
func GetConfigType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".env":
		return "env"
	case ".properties":
		return "properties"
	default:
		return ""
	}
}
