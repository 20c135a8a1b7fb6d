// Package config provides Viper-based configuration management for the
// smartcart CLI: a .smartcart.yaml config file layered under
// SMARTCART_* environment variables, with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Backend selects where the cart snapshot is persisted.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config holds the application configuration.
type Config struct {
	APIBaseURL   string        `mapstructure:"api_url"`   // REST backend, e.g. https://host/api
	MediaBaseURL string        `mapstructure:"media_url"` // base for relative product image paths
	Timeout      time.Duration `mapstructure:"timeout"`   // per-request HTTP timeout

	StripeKey     string `mapstructure:"stripe_key"` // publishable key for the payment provider
	StripeBaseURL string `mapstructure:"stripe_url"` // provider host override, empty for the real one

	CartBackend string `mapstructure:"cart_backend"` // file, redis or mongo
	CartOwner   string `mapstructure:"cart_owner"`   // snapshot key for the shared backends

	CartPath  string `mapstructure:"cart_path"`  // file backend: cart snapshot path
	TokenPath string `mapstructure:"token_path"` // stored tokens path

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`

	MongoURI string `mapstructure:"mongo_uri"`
	MongoDB  string `mapstructure:"mongo_db"`
}

// Load reads configuration from file and environment variables.
// Environment variables win over the config file, which wins over the
// defaults. cfgFile names an explicit config file; when empty,
// .smartcart.yaml is searched for in the working directory and
// $HOME/.config/smartcart.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".smartcart")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/smartcart")
	}

	v.SetEnvPrefix("SMARTCART")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// no config file is fine, defaults plus environment apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	dir := defaultStateDir()

	v.SetDefault("api_url", "http://127.0.0.1:8000/api")
	v.SetDefault("media_url", "")
	v.SetDefault("timeout", 15*time.Second)

	v.SetDefault("stripe_key", "")
	v.SetDefault("stripe_url", "")

	v.SetDefault("cart_backend", BackendFile)
	v.SetDefault("cart_owner", "default")
	v.SetDefault("cart_path", filepath.Join(dir, "cart.json"))
	v.SetDefault("token_path", filepath.Join(dir, "tokens.json"))

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")

	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "smartcart")
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	switch c.CartBackend {
	case BackendFile, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("invalid cart_backend %q (must be file, redis or mongo)", c.CartBackend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "smartcart")
}
