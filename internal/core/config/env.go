package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: CROPCARE_[SECTION]_[KEY] (e.g., CROPCARE_API_ADDRESS).
func ApplyEnvOverrides(cfg *Config) {
	// App
	setEnvDuration(&cfg.App.SplashDuration, "CROPCARE_APP_SPLASH_DURATION")
	setEnvUint64(&cfg.App.Seed, "CROPCARE_APP_SEED")

	// Analysis
	setEnvDuration(&cfg.Analysis.TickInterval, "CROPCARE_ANALYSIS_TICK_INTERVAL")
	setEnvDuration(&cfg.Analysis.FinalizeDelay, "CROPCARE_ANALYSIS_FINALIZE_DELAY")
	setEnvFloat64(&cfg.Analysis.HealthyThreshold, "CROPCARE_ANALYSIS_HEALTHY_THRESHOLD")

	// Image
	setEnvList(&cfg.Image.Accept, "CROPCARE_IMAGE_ACCEPT")
	setEnvInt64(&cfg.Image.MaxBytes, "CROPCARE_IMAGE_MAX_BYTES")

	// API
	setEnvBool(&cfg.API.Enabled, "CROPCARE_API_ENABLED")
	setEnvString(&cfg.API.Address, "CROPCARE_API_ADDRESS")
	setEnvFloat64(&cfg.API.RateLimit, "CROPCARE_API_RATE_LIMIT")
	setEnvInt(&cfg.API.Burst, "CROPCARE_API_BURST")
	setEnvInt64(&cfg.API.MaxUploadBytes, "CROPCARE_API_MAX_UPLOAD_BYTES")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "CROPCARE_OBSERVABILITY_ENABLED")
	setEnvString(&cfg.Observability.Address, "CROPCARE_OBSERVABILITY_ADDRESS")
	setEnvString(&cfg.Observability.OTLPEndpoint, "CROPCARE_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "CROPCARE_OBSERVABILITY_ENABLE_TRACING")
	setEnvBool(&cfg.Observability.EnableMetrics, "CROPCARE_OBSERVABILITY_ENABLE_METRICS")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		log.Printf("Applying env override: %s=%s", key, val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		var items []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = items
		}
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = i
		}
	}
}

func setEnvInt64(target *int64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = i
		}
	}
}

func setEnvUint64(target *uint64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if u, err := strconv.ParseUint(val, 10, 64); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = u
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = d
		}
	}
}
