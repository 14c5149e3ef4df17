package config

import (
	"fmt"
	"os"

	"github.com/gookit/validate"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           string `mapstructure:"port" validate:"required|numeric"`
	Store          string `mapstructure:"store" validate:"required|in:memory,sqlite"`
	DBPath         string `mapstructure:"db_path"`
	AdminCreds     string `mapstructure:"admin_credentials" validate:"required"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	LogLevel       string `mapstructure:"log_level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Debug          bool   `mapstructure:"debug"`
	Env            string `mapstructure:"env"`
	CatalogPath    string `mapstructure:"catalog_path"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	SearchCacheMB  int    `mapstructure:"search_cache_mb" validate:"min:0"`
}

// Production reports whether logs should be JSON rather than console text.
func (c Config) Production() bool {
	return c.Env == "production" && !c.Debug
}

// Load builds the configuration from defaults, an optional file named by
// CONFIG_FILE, and environment variables, in increasing precedence.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("host", "localhost")
	v.SetDefault("port", "8080")
	v.SetDefault("store", StoreMemory)
	v.SetDefault("db_path", ":memory:")
	v.SetDefault("admin_credentials", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)
	v.SetDefault("env", "development")
	v.SetDefault("catalog_path", "")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("search_cache_mb", 4)

	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	// DEBUG=1 is the documented switch; viper only understands true/false.
	if os.Getenv("DEBUG") == "1" {
		cfg.Debug = true
	}

	if cfg.AdminCreds == "" {
		cfg.AdminCreds = "admin:admin"
		log.Warn().Msg("using default admin credentials - set ADMIN_CREDENTIALS for production")
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = cfg.AdminCreds
		log.Warn().Msg("using ADMIN_CREDENTIALS as JWT_SECRET - set JWT_SECRET for production")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	v := validate.Struct(&c)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}
	return nil
}
