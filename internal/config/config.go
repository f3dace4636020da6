// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or
// environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// DataDir is the local directory served under /data and scanned for
	// partition files. Ignored when DataBaseURL is set.
	DataDir string `mapstructure:"DATA_DIR"`
	// DataBaseURL switches the pipeline to fetching partition files and
	// probing images over HTTP from another host.
	DataBaseURL string `mapstructure:"DATA_BASE_URL"`

	RedisURL     string `mapstructure:"REDIS_URL"`
	ReviewDBPath string `mapstructure:"REVIEW_DB_PATH"`

	ImageProbeTimeoutMS int `mapstructure:"IMAGE_PROBE_TIMEOUT_MS"`
	ImageMaxPerPost     int `mapstructure:"IMAGE_MAX_PER_POST"`
	ImageBatchSize      int `mapstructure:"IMAGE_BATCH_SIZE"`
}

// LoadConfig loads application configuration from file and environment
// variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file may not exist; environment variables are enough.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("PORT", "8375")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("DATA_BASE_URL", "")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("REVIEW_DB_PATH", "./reviews.db")
	viper.SetDefault("IMAGE_PROBE_TIMEOUT_MS", 3000)
	viper.SetDefault("IMAGE_MAX_PER_POST", 20)
	viper.SetDefault("IMAGE_BATCH_SIZE", 10)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Validate ensures that required configuration values are present.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DataDir == "" && c.DataBaseURL == "" {
		return errors.New("one of DATA_DIR or DATA_BASE_URL is required")
	}
	if c.ImageProbeTimeoutMS < 0 {
		return errors.New("IMAGE_PROBE_TIMEOUT_MS must not be negative")
	}
	if c.ImageMaxPerPost < 0 {
		return errors.New("IMAGE_MAX_PER_POST must not be negative")
	}
	if c.ImageBatchSize < 0 {
		return errors.New("IMAGE_BATCH_SIZE must not be negative")
	}

	if (c.Env == "production" || c.Env == "prod") && c.AllowedOrigins == "*" {
		log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
	}
	return nil
}

// ProbeTimeout returns the per-probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ImageProbeTimeoutMS) * time.Millisecond
}
