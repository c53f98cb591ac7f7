package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env              string        `mapstructure:"ENV"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	SeedFile         string        `mapstructure:"SEED_FILE"`
	DefaultTaxRate   float64       `mapstructure:"DEFAULT_TAX_RATE"`
	DoctorIDAttempts int           `mapstructure:"DOCTOR_ID_ATTEMPTS"`
	AIAPIKey         string        `mapstructure:"AI_API_KEY"`
	AIModel          string        `mapstructure:"AI_MODEL"`
	AIEndpoint       string        `mapstructure:"AI_ENDPOINT"`
	AITimeout        time.Duration `mapstructure:"AI_TIMEOUT"`
	MetricsTextfile  string        `mapstructure:"METRICS_TEXTFILE"`
}

var keys = []string{
	"ENV",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"SEED_FILE",
	"DEFAULT_TAX_RATE",
	"DOCTOR_ID_ATTEMPTS",
	"AI_API_KEY",
	"AI_MODEL",
	"AI_ENDPOINT",
	"AI_TIMEOUT",
	"METRICS_TEXTFILE",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DEFAULT_TAX_RATE", 10)
	v.SetDefault("DOCTOR_ID_ATTEMPTS", 50)
	v.SetDefault("AI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("AI_ENDPOINT", "https://generativelanguage.googleapis.com/")
	v.SetDefault("AI_TIMEOUT", "30s")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AIEnabled reports whether an API key was supplied for the assistant.
func (c *Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "json", "console", "ecs":
	default:
		return fmt.Errorf("LOG_FORMAT must be \"json\", \"console\", or \"ecs\", got %q", c.LogFormat)
	}
	if c.DefaultTaxRate < 0 || c.DefaultTaxRate > 100 {
		return fmt.Errorf("DEFAULT_TAX_RATE must be between 0 and 100, got %v", c.DefaultTaxRate)
	}
	if c.DoctorIDAttempts < 1 {
		return fmt.Errorf("DOCTOR_ID_ATTEMPTS must be at least 1, got %d", c.DoctorIDAttempts)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive, got %s", c.AITimeout)
	}
	return nil
}
