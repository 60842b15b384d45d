package analysis

import (
	"fmt"
	"time"
)

// ConfidenceBand draws confidence uniformly from [Min, Min+Span).
type ConfidenceBand struct {
	Min  float64
	Span float64
}

func (b ConfidenceBand) draw(r float64) float64 {
	return b.Min + r*b.Span
}

func (b ConfidenceBand) Max() float64 {
	return b.Min + b.Span
}

type Settings struct {
	TickInterval  time.Duration
	FinalizeDelay time.Duration
	// Each tick adds max(r*MaxIncrement, MinIncrement) percent. MinIncrement 0
	// gives the plain r*MaxIncrement step, which stalls while r stays at 0.
	MaxIncrement float64
	MinIncrement float64
	// A draw strictly above HealthyThreshold is a healthy leaf.
	HealthyThreshold   float64
	HealthyConfidence  ConfidenceBand
	DiseasedConfidence ConfidenceBand
}

func DefaultSettings() Settings {
	return Settings{
		TickInterval:       200 * time.Millisecond,
		FinalizeDelay:      500 * time.Millisecond,
		MaxIncrement:       15,
		MinIncrement:       1,
		HealthyThreshold:   0.4,
		HealthyConfidence:  ConfidenceBand{Min: 92, Span: 7},
		DiseasedConfidence: ConfidenceBand{Min: 85, Span: 10},
	}
}

func (s Settings) Validate() error {
	if s.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", s.TickInterval)
	}
	if s.FinalizeDelay < 0 {
		return fmt.Errorf("finalize delay must not be negative, got %v", s.FinalizeDelay)
	}
	if s.MaxIncrement <= 0 || s.MaxIncrement > 100 {
		return fmt.Errorf("max increment must be in (0,100], got %v", s.MaxIncrement)
	}
	if s.MinIncrement < 0 || s.MinIncrement > s.MaxIncrement {
		return fmt.Errorf("min increment must be in [0,max_increment], got %v", s.MinIncrement)
	}
	if s.HealthyThreshold < 0 || s.HealthyThreshold >= 1 {
		return fmt.Errorf("healthy threshold must be in [0,1), got %v", s.HealthyThreshold)
	}
	for name, band := range map[string]ConfidenceBand{
		"healthy":  s.HealthyConfidence,
		"diseased": s.DiseasedConfidence,
	} {
		if band.Min <= 0 || band.Span < 0 || band.Max() > 100 {
			return fmt.Errorf("%s confidence band [%v,%v] must lie within (0,100]", name, band.Min, band.Max())
		}
	}
	return nil
}
