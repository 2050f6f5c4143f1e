package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. LEADSIGNALS_SERVER_PORT.
const EnvPrefix = "LEADSIGNALS"

// Config holds the full application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port                int      `yaml:"port" mapstructure:"port"`
	MaxBodyBytes        int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RateLimitRPS        float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst      int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CORSOrigins         []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	ShutdownTimeoutSecs int      `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
}

// BatchConfig configures batch analysis.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// CatalogConfig points at an optional provider catalog replacing the built-in one.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 5<<20)
	v.SetDefault("server.rate_limit_rps", 20.0)
	v.SetDefault("server.rate_limit_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout_secs", 10)
	v.SetDefault("batch.max_concurrent", 8)
	v.SetDefault("catalog.path", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Mode is "cli", "batch" or
// "serve". Every problem found is reported in one error.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "cli":
	case "batch":
		if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 64 {
			problems = append(problems, "batch.max_concurrent must be between 1 and 64")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
		if c.Server.MaxBodyBytes <= 0 {
			problems = append(problems, "server.max_body_bytes must be > 0")
		}
		if c.Server.RateLimitRPS < 0 {
			problems = append(problems, "server.rate_limit_rps must be >= 0")
		}
		if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst < 1 {
			problems = append(problems, "server.rate_limit_burst must be >= 1 when rate limiting is enabled")
		}
		if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 64 {
			problems = append(problems, "batch.max_concurrent must be between 1 and 64")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Log.Format {
	case "", "json", "console":
	default:
		problems = append(problems, "log.format must be json or console")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
