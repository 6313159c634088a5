package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

// Load 从文件加载配置，类型由扩展名识别或由 WithConfigType 指定.
func Load[T any](configPath string, opts ...Option) (*T, error) {
	options := applyOptions(opts)

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, configPath)
	}

	configType := options.ConfigType
	if configType == "" {
		configType = GetConfigType(configPath)
	}
	if configType == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, configPath)
	}

	v := newViper(options)
	v.SetConfigFile(configPath)
	v.SetConfigType(configType)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}
	return unmarshalAndValidate[T](v)
}

// MustLoad 加载配置，失败时 panic.
func MustLoad[T any](configPath string, opts ...Option) *T {
	config, err := Load[T](configPath, opts...)
	if err != nil {
		panic(err)
	}
	return config
}

// LoadFromBytes 从字节数组加载配置.
func LoadFromBytes[T any](data []byte, configType string, opts ...Option) (*T, error) {
	v := newViper(applyOptions(opts))
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}
	return unmarshalAndValidate[T](v)
}

// LoadWithSearch 在多个目录中按名称搜索配置文件.
func LoadWithSearch[T any](configName string, searchPaths []string, opts ...Option) (*T, error) {
	options := applyOptions(opts)

	v := newViper(options)
	v.SetConfigName(configName)
	if options.ConfigType != "" {
		v.SetConfigType(options.ConfigType)
	}
	for _, path := range searchPaths {
		v.AddConfigPath(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, configName)
		}
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}
	return unmarshalAndValidate[T](v)
}

// newViper 按选项创建 viper 实例.
func newViper(options *Options) *viper.Viper {
	v := viper.New()
	for key, value := range options.Defaults {
		v.SetDefault(key, value)
	}
	if options.EnvPrefix != "" {
		v.SetEnvPrefix(options.EnvPrefix)
	}
	if options.EnvKeyReplacer != nil {
		v.SetEnvKeyReplacer(options.EnvKeyReplacer)
	}
	if options.AutomaticEnv {
		v.AutomaticEnv()
	}
	v.AllowEmptyEnv(options.AllowEmptyEnv)
	return v
}

func unmarshalAndValidate[T any](v *viper.Viper) (*T, error) {
	config := new(T)
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshal, err)
	}

	if validator, ok := any(config).(Validatable); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return config, nil
}
