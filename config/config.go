// Package config loads fastrefl settings from defaults, an optional YAML file
// and FASTREFL_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Konsultn-Engineering/fastrefl/cache"
	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// EnvPrefix prefixes environment overrides, e.g. FASTREFL_CACHE_SLOT_LIMIT.
const EnvPrefix = "FASTREFL"

// Config represents the fastrefl configuration
type Config struct {
	Cache     CacheConfig     `mapstructure:"cache"`
	Coercion  CoercionConfig  `mapstructure:"coercion"`
	Log       LogConfig       `mapstructure:"log"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Bench     BenchConfig     `mapstructure:"bench"`
}

// CacheConfig configures the slot registry
type CacheConfig struct {
	// SlotLimit caps slot indices per category; 0 means cache.MaxIndex.
	SlotLimit       uint32 `mapstructure:"slot_limit"`
	InitialCapacity int    `mapstructure:"initial_capacity"`
}

// CoercionConfig configures value coercion
type CoercionConfig struct {
	Mode      string `mapstructure:"mode"`
	CacheSize int    `mapstructure:"cache_size"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// GeneratorConfig configures accessor generation
type GeneratorConfig struct {
	Output string `mapstructure:"output"`
	Tags   string `mapstructure:"tags"`
}

// BenchConfig configures the bench command
type BenchConfig struct {
	Iterations int `mapstructure:"iterations"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.slot_limit", 0)
	v.SetDefault("cache.initial_capacity", 64)
	v.SetDefault("coercion.mode", "strict")
	v.SetDefault("coercion.cache_size", schema.DefaultConverterCacheSize)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("generator.output", "fastrefl_accessors.go")
	v.SetDefault("generator.tags", "")
	v.SetDefault("bench.iterations", 1_000_000)
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads path when non-empty, or fastrefl.yaml from the working directory
// when present, then applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fastrefl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Cache.SlotLimit > cache.MaxIndex {
		return fmt.Errorf("cache.slot_limit must be at most %d, got %d", cache.MaxIndex, c.Cache.SlotLimit)
	}
	if c.Cache.InitialCapacity < 0 {
		return fmt.Errorf("cache.initial_capacity must not be negative, got %d", c.Cache.InitialCapacity)
	}
	if _, err := schema.ParseCoercion(c.Coercion.Mode); err != nil {
		return fmt.Errorf("coercion.mode: %w", err)
	}
	if c.Coercion.CacheSize < 0 {
		return fmt.Errorf("coercion.cache_size must not be negative, got %d", c.Coercion.CacheSize)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Bench.Iterations <= 0 {
		return fmt.Errorf("bench.iterations must be positive, got %d", c.Bench.Iterations)
	}
	return nil
}

// CoercionMode returns the parsed coercion mode, strict when invalid.
func (c *Config) CoercionMode() schema.Coercion {
	mode, _ := schema.ParseCoercion(c.Coercion.Mode)
	return mode
}

// Build creates the logger described by l.
func (l LogConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
