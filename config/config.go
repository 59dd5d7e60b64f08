package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	secureurl "github.com/Choreogrifi/cgf-secure-url-service"
	securlhttp "github.com/Choreogrifi/cgf-secure-url-service/http"
	"github.com/Choreogrifi/cgf-secure-url-service/signing"
)

// Named deployment environments.
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for the signed URL service.
type Config struct {
	ProjectName string                `mapstructure:"project_name" validate:"required"`
	Environment string                `mapstructure:"environment" validate:"required,oneof=local development test staging production"`
	GCPProject  string                `mapstructure:"gcp_project"`
	Debug       bool                  `mapstructure:"debug"`
	Server      ServerConfig          `mapstructure:"server"`
	Storage     StorageConfig         `mapstructure:"storage"`
	Expiry      ExpiryConfig          `mapstructure:"expiry"`
	Signing     signing.Config        `mapstructure:"signing"`
	CORS        securlhttp.CORSConfig `mapstructure:"cors"`
	Log         LogConfig             `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// StorageConfig holds storage backend configuration.
type StorageConfig struct {
	Bucket      string `mapstructure:"bucket" validate:"required"`
	CallTimeout int    `mapstructure:"call_timeout" validate:"min=1"` // seconds
}

// ExpiryConfig holds the expires_in validation bounds in seconds.
type ExpiryConfig struct {
	MinSeconds     int `mapstructure:"min_seconds" validate:"min=1"`
	MaxSeconds     int `mapstructure:"max_seconds" validate:"gtefield=MinSeconds"`
	DefaultSeconds int `mapstructure:"default_seconds" validate:"gtefield=MinSeconds,ltefield=MaxSeconds"`
}

// Bounds converts the configured seconds into domain expiry bounds.
func (e ExpiryConfig) Bounds() secureurl.ExpiryBounds {
	return secureurl.ExpiryBounds{
		Min:     time.Duration(e.MinSeconds) * time.Second,
		Max:     time.Duration(e.MaxSeconds) * time.Second,
		Default: time.Duration(e.DefaultSeconds) * time.Second,
	}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"bucket":      "storage.bucket",
	"port":        "server.port",
	"gcp-project": "gcp_project",
	"log-level":   "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures base default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("project_name", "CGF Secure URL Service")
	v.SetDefault("environment", EnvLocal)
	v.SetDefault("gcp_project", "")
	v.SetDefault("debug", false)

	v.SetDefault("server.port", 8000)

	v.SetDefault("storage.bucket", "cgf-files")
	v.SetDefault("storage.call_timeout", 10) // seconds

	v.SetDefault("expiry.min_seconds", 20)
	v.SetDefault("expiry.max_seconds", 3600)
	v.SetDefault("expiry.default_seconds", 300)

	v.SetDefault("cors.enabled", false)

	v.SetDefault("log.level", "info")
}

// environmentDefaults returns the per-environment overlay applied on top of
// the base defaults. One pure function keyed by environment name replaces a
// settings-class-per-environment hierarchy; explicit config (files, env
// vars, flags) still wins over every value here.
func environmentDefaults(environment string) map[string]any {
	switch environment {
	case EnvLocal:
		return map[string]any{
			"debug":          true,
			"log.level":      "debug",
			"storage.bucket": "cgf-files-local",
		}
	case EnvDevelopment:
		return map[string]any{
			"log.level":      "info",
			"storage.bucket": "cgf-files-dev",
		}
	case EnvTest:
		return map[string]any{
			"log.level":      "warn",
			"storage.bucket": "cgf-files-test",
		}
	case EnvStaging:
		return map[string]any{
			"log.level":      "info",
			"storage.bucket": "cgf-files-staging",
		}
	case EnvProduction:
		return map[string]any{
			"log.level":      "warn",
			"storage.bucket": "cgf-files",
		}
	default:
		// Unknown environments get local behavior; validation rejects
		// them before the config is used.
		return environmentDefaults(EnvLocal)
	}
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest):
// flags > env > config files > environment defaults > base defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set base defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("SECURL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Overlay per-environment defaults now that the environment name
	// is resolved; SetDefault sits below every explicit source.
	for key, value := range environmentDefaults(strings.ToLower(v.GetString("environment"))) {
		v.SetDefault(key, value)
	}

	// 6. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Environment = strings.ToLower(cfg.Environment)

	// 7. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
