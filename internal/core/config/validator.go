package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/gobwas/glob"
)

// Validate checks a config that already has defaults applied.
func Validate(cfg *Config) error {
	validators := []func(*Config) error{
		validateVersion,
		validateApp,
		validateAnalysis,
		validateImage,
		validateAPI,
		validateObservability,
		validateCenters,
	}
	for _, validate := range validators {
		if err := validate(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateApp(cfg *Config) error {
	if cfg.App.SplashDuration < 0 {
		return fmt.Errorf("app.splash_duration must not be negative, got %v", cfg.App.SplashDuration)
	}
	return nil
}

func validateAnalysis(cfg *Config) error {
	if err := cfg.AnalysisSettings().Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

func validateImage(cfg *Config) error {
	if cfg.Image.MaxBytes <= 0 {
		return fmt.Errorf("image.max_bytes must be > 0, got %d", cfg.Image.MaxBytes)
	}
	for i, pattern := range cfg.Image.Accept {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("image.accept[%d] must not be empty", i)
		}
		if _, err := glob.Compile(strings.ToLower(pattern)); err != nil {
			return fmt.Errorf("image.accept[%d] %q is not a valid glob: %w", i, pattern, err)
		}
	}
	return nil
}

func validateAPI(cfg *Config) error {
	if err := validateAddress("api.address", cfg.API.Address); err != nil {
		return err
	}
	if cfg.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate_limit must be > 0, got %v", cfg.API.RateLimit)
	}
	if cfg.API.Burst <= 0 {
		return fmt.Errorf("api.burst must be > 0, got %d", cfg.API.Burst)
	}
	if cfg.API.LimiterTTL <= 0 {
		return fmt.Errorf("api.limiter_ttl must be > 0, got %v", cfg.API.LimiterTTL)
	}
	if cfg.API.MaxUploadBytes <= 0 {
		return fmt.Errorf("api.max_upload_bytes must be > 0, got %d", cfg.API.MaxUploadBytes)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if !cfg.Observability.Enabled {
		return nil
	}
	if err := validateAddress("observability.address", cfg.Observability.Address); err != nil {
		return err
	}
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		return fmt.Errorf("observability.otlp_endpoint is required when enable_tracing is true")
	}
	return nil
}

func validateCenters(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Centers))
	for i, center := range cfg.Centers {
		name := strings.TrimSpace(center.Name)
		if name == "" {
			return fmt.Errorf("centers[%d].name must not be empty", i)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("centers[%d].name %q is duplicated", i, center.Name)
		}
		seen[key] = true
	}
	return nil
}

func validateAddress(field, addr string) error {
	if _, _, err := net.SplitHostPort(strings.TrimSpace(addr)); err != nil {
		return fmt.Errorf("%s %q must be host:port: %w", field, addr, err)
	}
	return nil
}
