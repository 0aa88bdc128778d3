// Package config loads the tinypay toolkit settings from YAML and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tinypay.dev/paykit/bridge"
	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/fault"
)

// EnvPrefix is prepended to environment overrides, e.g.
// TINYPAY_APTOS_PROFILE or TINYPAY_CHAIN_ITERATIONS.
const EnvPrefix = "TINYPAY"

type Config struct {
	Aptos AptosConfig `yaml:"aptos" mapstructure:"aptos"`
	Chain ChainConfig `yaml:"chain" mapstructure:"chain"`
	Store StoreConfig `yaml:"store" mapstructure:"store"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// AptosConfig describes how the aptos CLI is invoked.
type AptosConfig struct {
	Binary         string `yaml:"binary" mapstructure:"binary"`
	Profile        string `yaml:"profile" mapstructure:"profile"`
	PackageAddress string `yaml:"package_address" mapstructure:"package_address"` // named address or 0x account
	CoinType       string `yaml:"coin_type" mapstructure:"coin_type"`             // empty means <package>::test_usdc::TestUSDC
}

type ChainConfig struct {
	Iterations    uint64 `yaml:"iterations" mapstructure:"iterations"`
	HashAlgorithm string `yaml:"hash_algorithm" mapstructure:"hash_algorithm"`
	ArgType       string `yaml:"arg_type" mapstructure:"arg_type"`
}

// StoreConfig locates the record store. An empty Dir disables persistence.
type StoreConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Aptos: AptosConfig{
			Binary:         "aptos",
			Profile:        "default",
			PackageAddress: "@tinypay",
		},
		Chain: ChainConfig{
			Iterations:    1000,
			HashAlgorithm: string(digest.Default),
			ArgType:       string(bridge.ArgU8),
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads path (optional) over the defaults and applies TINYPAY_*
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
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

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("aptos.binary", d.Aptos.Binary)
	v.SetDefault("aptos.profile", d.Aptos.Profile)
	v.SetDefault("aptos.package_address", d.Aptos.PackageAddress)
	v.SetDefault("aptos.coin_type", d.Aptos.CoinType)
	v.SetDefault("chain.iterations", d.Chain.Iterations)
	v.SetDefault("chain.hash_algorithm", d.Chain.HashAlgorithm)
	v.SetDefault("chain.arg_type", d.Chain.ArgType)
	v.SetDefault("store.dir", d.Store.Dir)
	v.SetDefault("log.level", d.Log.Level)
}

// Save writes cfg as YAML, creating parent directories.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Aptos.Binary == "" {
		return invalid("aptos.binary is required")
	}
	if c.Aptos.PackageAddress == "" {
		return invalid("aptos.package_address is required")
	}
	if c.Chain.Iterations == 0 {
		return invalid("chain.iterations must be at least 1")
	}
	if _, err := digest.ParseAlgorithm(c.Chain.HashAlgorithm); err != nil {
		return fault.Wrap(fault.KindInvalidArgument, "CFG-001", "chain.hash_algorithm is invalid", err)
	}
	if _, err := bridge.ParseArgType(c.Chain.ArgType); err != nil {
		return fault.Wrap(fault.KindInvalidArgument, "CFG-001", "chain.arg_type is invalid", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid(fmt.Sprintf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}
	return nil
}

// Hasher returns the hasher named by chain.hash_algorithm.
func (c *Config) Hasher() (digest.Hasher, error) {
	alg, err := digest.ParseAlgorithm(c.Chain.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	return digest.New(alg)
}

func invalid(msg string) error {
	return fault.New(fault.KindInvalidArgument, "CFG-001", msg)
}
