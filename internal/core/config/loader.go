package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cropcare/internal/data/leafimage"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "data/config/cropcare.toml"

// Load decodes path, fills defaults, applies CROPCARE_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	applyDefaults(&cfg, meta.IsDefined)
	ApplyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Candidates lists the paths tried when no -config flag is given, in order.
func Candidates(cwd string) []string {
	return []string{
		filepath.Clean(filepath.Join(cwd, DefaultPath)),
		filepath.Clean(filepath.Join(cwd, "cropcare.toml")),
		filepath.Clean(filepath.Join(cwd, "data/config/cropcare.example.toml")),
	}
}

// Discover returns the first candidate that exists, or "" when none does.
func Discover(cwd string) string {
	for _, candidate := range Candidates(cwd) {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// applyDefaults fills zero values. Keys where zero is a meaningful setting
// are only filled when defined reports them absent from the file.
func applyDefaults(cfg *Config, defined func(key ...string) bool) {
	if defined == nil {
		defined = func(...string) bool { return false }
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if cfg.App.SplashDuration == 0 {
		cfg.App.SplashDuration = 2500 * time.Millisecond
	}

	a := &cfg.Analysis
	if a.TickInterval == 0 {
		a.TickInterval = 200 * time.Millisecond
	}
	if a.FinalizeDelay == 0 {
		a.FinalizeDelay = 500 * time.Millisecond
	}
	if a.MaxIncrement == 0 {
		a.MaxIncrement = 15
	}
	if a.MinIncrement == 0 && !defined("analysis", "min_increment") {
		a.MinIncrement = 1
	}
	if a.HealthyThreshold == 0 && !defined("analysis", "healthy_threshold") {
		a.HealthyThreshold = 0.4
	}
	if a.HealthyConfidenceMin == 0 {
		a.HealthyConfidenceMin = 92
	}
	if a.HealthyConfidenceSpan == 0 {
		a.HealthyConfidenceSpan = 7
	}
	if a.DiseasedConfidenceMin == 0 {
		a.DiseasedConfidenceMin = 85
	}
	if a.DiseasedConfidenceSpan == 0 {
		a.DiseasedConfidenceSpan = 10
	}

	if len(cfg.Image.Accept) == 0 {
		cfg.Image.Accept = append([]string(nil), leafimage.DefaultAccept...)
	}
	if cfg.Image.MaxBytes == 0 {
		cfg.Image.MaxBytes = leafimage.DefaultMaxBytes
	}

	if strings.TrimSpace(cfg.API.Address) == "" {
		cfg.API.Address = "127.0.0.1:8000"
	}
	if cfg.API.RateLimit == 0 {
		cfg.API.RateLimit = 5
	}
	if cfg.API.Burst == 0 {
		cfg.API.Burst = 10
	}
	if cfg.API.LimiterTTL == 0 {
		cfg.API.LimiterTTL = 10 * time.Minute
	}
	if cfg.API.MaxUploadBytes == 0 {
		cfg.API.MaxUploadBytes = cfg.Image.MaxBytes
	}

	if strings.TrimSpace(cfg.Observability.Address) == "" {
		cfg.Observability.Address = "127.0.0.1:9464"
	}
	if cfg.Observability.Enabled && !cfg.Observability.EnableMetrics && !cfg.Observability.EnableTracing {
		cfg.Observability.EnableMetrics = true
	}

	if len(cfg.Centers) == 0 {
		cfg.Centers = defaultCenters()
	}
}
