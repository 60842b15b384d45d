package config

import (
	"time"

	"cropcare/internal/engine/analysis"
)

type Config struct {
	Version       int           `toml:"version"`
	App           App           `toml:"app"`
	Analysis      Analysis      `toml:"analysis"`
	Image         Image         `toml:"image"`
	API           API           `toml:"api"`
	Observability Observability `toml:"observability"`
	Centers       []Center      `toml:"centers"`
}

type App struct {
	SplashDuration time.Duration `toml:"splash_duration"`
	// Seed 0 draws a fresh seed on every start.
	Seed uint64 `toml:"seed"`
}

type Analysis struct {
	TickInterval           time.Duration `toml:"tick_interval"`
	FinalizeDelay          time.Duration `toml:"finalize_delay"`
	MaxIncrement           float64       `toml:"max_increment"`
	MinIncrement           float64       `toml:"min_increment"`
	HealthyThreshold       float64       `toml:"healthy_threshold"`
	HealthyConfidenceMin   float64       `toml:"healthy_confidence_min"`
	HealthyConfidenceSpan  float64       `toml:"healthy_confidence_span"`
	DiseasedConfidenceMin  float64       `toml:"diseased_confidence_min"`
	DiseasedConfidenceSpan float64       `toml:"diseased_confidence_span"`
}

type Image struct {
	Accept   []string `toml:"accept"`
	MaxBytes int64    `toml:"max_bytes"`
}

type API struct {
	Enabled        bool          `toml:"enabled"`
	Address        string        `toml:"address"`
	RateLimit      float64       `toml:"rate_limit"`
	Burst          int           `toml:"burst"`
	LimiterTTL     time.Duration `toml:"limiter_ttl"`
	MaxUploadBytes int64         `toml:"max_upload_bytes"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Address       string `toml:"address"`
	EnableMetrics bool   `toml:"enable_metrics"`
	EnableTracing bool   `toml:"enable_tracing"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
}

// Center is an agricultural service center shown on the about screen and
// served by the API.
type Center struct {
	Name     string   `toml:"name" json:"name"`
	Region   string   `toml:"region" json:"region"`
	Phone    string   `toml:"phone" json:"phone"`
	Services []string `toml:"services" json:"services"`
}

// DefaultConfig is what an empty file decodes to.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg, nil)
	return cfg
}

// AnalysisSettings converts the [analysis] section for the engine.
func (c *Config) AnalysisSettings() analysis.Settings {
	a := c.Analysis
	return analysis.Settings{
		TickInterval:       a.TickInterval,
		FinalizeDelay:      a.FinalizeDelay,
		MaxIncrement:       a.MaxIncrement,
		MinIncrement:       a.MinIncrement,
		HealthyThreshold:   a.HealthyThreshold,
		HealthyConfidence:  analysis.ConfidenceBand{Min: a.HealthyConfidenceMin, Span: a.HealthyConfidenceSpan},
		DiseasedConfidence: analysis.ConfidenceBand{Min: a.DiseasedConfidenceMin, Span: a.DiseasedConfidenceSpan},
	}
}

func defaultCenters() []Center {
	return []Center{
		{
			Name:     "District Krishi Vigyan Kendra",
			Region:   "Local district",
			Phone:    "1800-180-1551",
			Services: []string{"Soil testing", "Disease diagnosis", "Farmer training"},
		},
		{
			Name:     "State Agricultural Extension Office",
			Region:   "State",
			Phone:    "1800-180-1551",
			Services: []string{"Crop advisory", "Seed distribution"},
		},
	}
}
