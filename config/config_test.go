package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("SNAPVALUE_SERVER_PORT")
		os.Unsetenv("SNAPVALUE_SERVER_ENVIRONMENT")
		os.Unsetenv("SNAPVALUE_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("SNAPVALUE_SERVER_MAX_UPLOAD_MB")
		os.Unsetenv("SNAPVALUE_DETECTOR_BASE_URL")
		os.Unsetenv("SNAPVALUE_DETECTOR_MIN_CONFIDENCE")
		os.Unsetenv("SNAPVALUE_VISION_API_KEY")
		os.Unsetenv("SNAPVALUE_VISION_MODEL")
		os.Unsetenv("SNAPVALUE_RETAIL_TIMEOUT")
		os.Unsetenv("SNAPVALUE_RETAIL_MAX_CANDIDATES")
		os.Unsetenv("SNAPVALUE_CACHE_TTL")
		os.Unsetenv("SNAPVALUE_PRICING_MAX_CONCURRENT_OBJECTS")
	}

	setRequired := func() {
		os.Setenv("SNAPVALUE_DETECTOR_BASE_URL", "http://localhost:8001")
		os.Setenv("SNAPVALUE_VISION_API_KEY", "test-key")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		setRequired()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Detector.MinConfidence != 0.25 {
			t.Errorf("Detector.MinConfidence = %v, want 0.25", cfg.Detector.MinConfidence)
		}
		if cfg.Vision.Model != "gemini-2.5-flash" {
			t.Errorf("Vision.Model = %s, want gemini-2.5-flash", cfg.Vision.Model)
		}
		if cfg.Retail.Timeout != 10*time.Second {
			t.Errorf("Retail.Timeout = %v, want 10s", cfg.Retail.Timeout)
		}
		if cfg.Retail.MaxCandidates != 3 {
			t.Errorf("Retail.MaxCandidates = %d, want 3", cfg.Retail.MaxCandidates)
		}
		if cfg.Retail.WalmartBaseURL != "https://www.walmart.com" {
			t.Errorf("Retail.WalmartBaseURL = %s, want https://www.walmart.com", cfg.Retail.WalmartBaseURL)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Pricing.MaxConcurrentObjects != 4 {
			t.Errorf("Pricing.MaxConcurrentObjects = %d, want 4", cfg.Pricing.MaxConcurrentObjects)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		setRequired()
		os.Setenv("SNAPVALUE_SERVER_PORT", "9090")
		os.Setenv("SNAPVALUE_SERVER_ENVIRONMENT", "production")
		os.Setenv("SNAPVALUE_VISION_MODEL", "gemini-2.0-flash")
		os.Setenv("SNAPVALUE_RETAIL_TIMEOUT", "5s")
		os.Setenv("SNAPVALUE_RETAIL_MAX_CANDIDATES", "5")
		os.Setenv("SNAPVALUE_CACHE_TTL", "48h")
		os.Setenv("SNAPVALUE_PRICING_MAX_CONCURRENT_OBJECTS", "8")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Detector.BaseURL != "http://localhost:8001" {
			t.Errorf("Detector.BaseURL = %s, want http://localhost:8001", cfg.Detector.BaseURL)
		}
		if cfg.Vision.Model != "gemini-2.0-flash" {
			t.Errorf("Vision.Model = %s, want gemini-2.0-flash", cfg.Vision.Model)
		}
		if cfg.Retail.Timeout != 5*time.Second {
			t.Errorf("Retail.Timeout = %v, want 5s", cfg.Retail.Timeout)
		}
		if cfg.Retail.MaxCandidates != 5 {
			t.Errorf("Retail.MaxCandidates = %d, want 5", cfg.Retail.MaxCandidates)
		}
		if cfg.Cache.TTL != 48*time.Hour {
			t.Errorf("Cache.TTL = %v, want 48h", cfg.Cache.TTL)
		}
		if cfg.Pricing.MaxConcurrentObjects != 8 {
			t.Errorf("Pricing.MaxConcurrentObjects = %d, want 8", cfg.Pricing.MaxConcurrentObjects)
		}
	})

	t.Run("fails validation when detector base URL is missing", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SNAPVALUE_VISION_API_KEY", "test-key")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing detector base URL")
		}
	})

	t.Run("fails validation when vision API key is missing", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SNAPVALUE_DETECTOR_BASE_URL", "http://localhost:8001")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing vision API key")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	chdirTemp := func(t *testing.T) {
		t.Helper()
		originalDir, _ := os.Getwd()
		t.Cleanup(func() { os.Chdir(originalDir) })
		os.Chdir(t.TempDir())
	}

	t.Run("loads without error when .env file doesn't exist", func(t *testing.T) {
		chdirTemp(t)
		os.Setenv("SNAPVALUE_DETECTOR_BASE_URL", "http://localhost:8001")
		os.Setenv("SNAPVALUE_VISION_API_KEY", "test-key")
		defer func() {
			os.Unsetenv("SNAPVALUE_DETECTOR_BASE_URL")
			os.Unsetenv("SNAPVALUE_VISION_API_KEY")
		}()

		if _, err := Load(); err != nil {
			t.Errorf("Load() error = %v, want nil when .env doesn't exist", err)
		}
	})

	t.Run("picks up required settings from a .env file", func(t *testing.T) {
		chdirTemp(t)
		os.Unsetenv("SNAPVALUE_DETECTOR_BASE_URL")
		os.Unsetenv("SNAPVALUE_VISION_API_KEY")
		defer func() {
			os.Unsetenv("SNAPVALUE_DETECTOR_BASE_URL")
			os.Unsetenv("SNAPVALUE_VISION_API_KEY")
		}()

		envContent := `
# Local development settings
SNAPVALUE_DETECTOR_BASE_URL=http://localhost:8001
SNAPVALUE_VISION_API_KEY=dotenv-key
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Detector.BaseURL != "http://localhost:8001" {
			t.Errorf("Detector.BaseURL = %s, want http://localhost:8001", cfg.Detector.BaseURL)
		}
		if cfg.Vision.APIKey != "dotenv-key" {
			t.Errorf("Vision.APIKey = %s, want dotenv-key", cfg.Vision.APIKey)
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		chdirTemp(t)
		os.Setenv("SNAPVALUE_DETECTOR_BASE_URL", "http://real:8001")
		os.Setenv("SNAPVALUE_VISION_API_KEY", "real-key")
		defer func() {
			os.Unsetenv("SNAPVALUE_DETECTOR_BASE_URL")
			os.Unsetenv("SNAPVALUE_VISION_API_KEY")
		}()

		if err := os.WriteFile(".env", []byte("SNAPVALUE_VISION_API_KEY=dotenv-key"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Vision.APIKey != "real-key" {
			t.Errorf("Vision.APIKey = %s, want real-key (.env should not override)", cfg.Vision.APIKey)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Detector: DetectorConfig{BaseURL: "http://localhost:8001"},
			Vision:   VisionConfig{APIKey: "test-key"},
			Retail:   RetailConfig{MaxCandidates: 3},
			Pricing:  PricingConfig{MaxConcurrentObjects: 4},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when detector base URL is empty", func(t *testing.T) {
		cfg := valid()
		cfg.Detector.BaseURL = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty detector base URL")
		}
	})

	t.Run("fails when vision API key is empty", func(t *testing.T) {
		cfg := valid()
		cfg.Vision.APIKey = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty vision API key")
		}
	})

	t.Run("fails for zero max candidates", func(t *testing.T) {
		cfg := valid()
		cfg.Retail.MaxCandidates = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero max candidates")
		}
	})

	t.Run("fails for zero concurrency", func(t *testing.T) {
		cfg := valid()
		cfg.Pricing.MaxConcurrentObjects = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero concurrency")
		}
	})
}
