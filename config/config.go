package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Detector DetectorConfig
	Vision   VisionConfig
	Retail   RetailConfig
	Cache    CacheConfig
	Pricing  PricingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string   `mapstructure:"port"`
	Environment     string   `mapstructure:"environment"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	MaxUploadMB     int64    `mapstructure:"max_upload_mb"`
	RateLimitPerMin int      `mapstructure:"rate_limit_per_min"`
}

// DetectorConfig holds object detection service configuration
type DetectorConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MinConfidence float64       `mapstructure:"min_confidence"`
}

// VisionConfig holds vision model configuration
type VisionConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	CachePath string `mapstructure:"cache_path"`
}

// RetailConfig holds retail source configuration
type RetailConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	MaxCandidates     int           `mapstructure:"max_candidates"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	WalmartBaseURL    string        `mapstructure:"walmart_base_url"`
	TargetBaseURL     string        `mapstructure:"target_base_url"`
}

// CacheConfig holds pricing cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// PricingConfig holds appraisal pipeline configuration
type PricingConfig struct {
	MaxConcurrentObjects int `mapstructure:"max_concurrent_objects"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Pick up a local .env first so viper sees its values. godotenv never
	// overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/snapvalue/")

	// Environment variable settings
	v.SetEnvPrefix("SNAPVALUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.rate_limit_per_min", 60)

	// Detector defaults
	v.SetDefault("detector.timeout", "30s")
	v.SetDefault("detector.min_confidence", 0.25)

	// Vision defaults
	v.SetDefault("vision.model", "gemini-2.5-flash")
	v.SetDefault("vision.cache_path", "vision_cache.db")

	// Retail defaults
	v.SetDefault("retail.timeout", "10s")
	v.SetDefault("retail.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("retail.max_candidates", 3)
	v.SetDefault("retail.requests_per_second", 1.0)
	v.SetDefault("retail.walmart_base_url", "https://www.walmart.com")
	v.SetDefault("retail.target_base_url", "https://www.target.com")

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")

	// Pricing defaults
	v.SetDefault("pricing.max_concurrent_objects", 4)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Detector.BaseURL == "" {
		return fmt.Errorf("detector base URL is required (set SNAPVALUE_DETECTOR_BASE_URL)")
	}

	if config.Vision.APIKey == "" {
		return fmt.Errorf("vision API key is required (set SNAPVALUE_VISION_API_KEY)")
	}

	if config.Retail.MaxCandidates < 1 {
		return fmt.Errorf("retail max candidates must be at least 1, got: %d", config.Retail.MaxCandidates)
	}

	if config.Pricing.MaxConcurrentObjects < 1 {
		return fmt.Errorf("max concurrent objects must be at least 1, got: %d", config.Pricing.MaxConcurrentObjects)
	}

	return nil
}
