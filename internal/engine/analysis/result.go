package analysis

import (
	"fmt"
	"strings"
	"time"

	"cropcare/internal/data/catalog"
	"cropcare/internal/data/leafimage"
)

// UnknownDisease is reported when a crop has no catalog entries but the
// draw came out diseased.
const UnknownDisease = "Unknown Disease"

const (
	OutcomeHealthy  = "healthy"
	OutcomeDiseased = "diseased"
)

// Result is the outcome of one completed analysis. Disease fields are set
// only when Healthy is false.
type Result struct {
	ID          string           `json:"id"`
	Date        time.Time        `json:"date"`
	Crop        catalog.CropType `json:"cropType"`
	Healthy     bool             `json:"isHealthy"`
	DiseaseName string           `json:"diseaseName,omitempty"`
	Cause       string           `json:"cause,omitempty"`
	Symptoms    []string         `json:"symptoms,omitempty"`
	Treatment   []string         `json:"treatment,omitempty"`
	Prevention  []string         `json:"prevention,omitempty"`
	Confidence  float64          `json:"confidence"`
	Image       leafimage.Ref    `json:"image"`
}

func (r Result) Outcome() string {
	if r.Healthy {
		return OutcomeHealthy
	}
	return OutcomeDiseased
}

// IsSentinel reports the degraded diagnosis produced for crops without
// catalog entries.
func (r Result) IsSentinel() bool {
	return !r.Healthy && r.DiseaseName == UnknownDisease && !r.hasDetails()
}

func (r Result) hasDetails() bool {
	return r.Cause != "" || len(r.Symptoms) > 0 || len(r.Treatment) > 0 || len(r.Prevention) > 0
}

// Validate checks the healthy-xor-diagnosed invariant and the confidence range.
func (r Result) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("result id must not be empty")
	}
	if !r.Crop.Valid() {
		return fmt.Errorf("result crop %q is not supported", r.Crop)
	}
	if r.Image.IsZero() {
		return fmt.Errorf("result has no image reference")
	}
	if r.Confidence <= 0 || r.Confidence > 100 {
		return fmt.Errorf("confidence %.2f outside (0,100]", r.Confidence)
	}
	if r.Healthy {
		if r.DiseaseName != "" || r.hasDetails() {
			return fmt.Errorf("healthy result must not carry disease data")
		}
		return nil
	}
	if r.DiseaseName == "" {
		return fmt.Errorf("diseased result must name the disease")
	}
	if r.IsSentinel() {
		return nil
	}
	if r.Cause == "" || len(r.Symptoms) == 0 || len(r.Treatment) == 0 || len(r.Prevention) == 0 {
		return fmt.Errorf("diseased result %q has partial disease data", r.DiseaseName)
	}
	return nil
}
