package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Cache    CacheConfig    `mapstructure:"cache"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Source   SourceConfig   `mapstructure:"source"`
}

type CacheConfig struct {
	Path string `mapstructure:"path" validate:"required,cachefile"`
}

// DefaultsConfig holds the values used when the matching flag is not given.
type DefaultsConfig struct {
	ABI          string `mapstructure:"abi" validate:"oneof=64 32"`
	Base         int    `mapstructure:"base" validate:"oneof=16 10"`
	SourceFormat string `mapstructure:"source_format" validate:"oneof=json html"`
	Output       string `mapstructure:"output" validate:"oneof=table json"`
}

type SourceConfig struct {
	HTMLTableID   string        `mapstructure:"html_table_id" validate:"required"`
	RetryAttempts uint          `mapstructure:"retry_attempts" validate:"lte=10"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// DefaultCachePath is the cache location used when cache.path is not configured.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".callcache.yml"
	}
	return filepath.Join(dir, "systab", "callcache.yml")
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/systab")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("cache.path", DefaultCachePath())
	v.SetDefault("defaults.abi", "64")
	v.SetDefault("defaults.base", 16)
	v.SetDefault("defaults.source_format", "json")
	v.SetDefault("defaults.output", "table")
	v.SetDefault("source.html_table_id", "syscall_table")
	v.SetDefault("source.retry_attempts", 3)
	v.SetDefault("source.timeout", 30*time.Second)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("validator.Struct > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// Load reads configFile, or config.yml from the working directory or ~/.config/systab.
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}
