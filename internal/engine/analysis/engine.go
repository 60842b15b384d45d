package analysis

import (
	"context"
	"math"
	"sync"
	"time"

	domainerrors "cropcare/internal/core/errors"
	"cropcare/internal/data/catalog"
	"cropcare/internal/data/leafimage"
	"cropcare/internal/shared/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Engine produces mock diagnoses. It performs no image analysis; outcomes
// come from the random source and the disease catalog.
type Engine struct {
	catalog catalog.Catalog
	rng     RandomSource
	now     func() time.Time
	newID   func() string
	tracer  trace.Tracer

	mu       sync.RWMutex
	settings Settings
}

type Option func(*Engine)

func WithRandomSource(rng RandomSource) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

func NewEngine(cat catalog.Catalog, settings Settings, opts ...Option) (*Engine, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid analysis settings")
	}
	e := &Engine{
		catalog:  cat,
		rng:      NewRandomSource(0),
		now:      time.Now,
		newID:    uuid.NewString,
		tracer:   observability.Tracer("analysis"),
		settings: settings,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Settings() Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// SetSettings replaces the settings used by future runs.
func (e *Engine) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid analysis settings")
	}
	e.mu.Lock()
	e.settings = s
	e.mu.Unlock()
	return nil
}

// Diagnose performs the finalization step immediately, without the progress
// simulation.
func (e *Engine) Diagnose(ctx context.Context, crop catalog.CropType, img leafimage.Ref) (Result, error) {
	if err := checkInputs("diagnose", crop, img); err != nil {
		return Result{}, err
	}
	return e.finalize(ctx, e.Settings(), crop, img), nil
}

func checkInputs(op string, crop catalog.CropType, img leafimage.Ref) error {
	if !crop.Valid() {
		return domainerrors.Precondition(op, "crop type is not selected or unsupported").
			WithContext(domainerrors.CtxCrop, string(crop))
	}
	if img.IsZero() {
		return domainerrors.Precondition(op, "image reference is empty")
	}
	return nil
}

func (e *Engine) finalize(ctx context.Context, s Settings, crop catalog.CropType, img leafimage.Ref) Result {
	result := e.draw(s, crop, img)
	e.record(ctx, result)
	return result
}

// draw picks the outcome. It has no side effects beyond consuming the
// random source, so a run can discard the draw if it was cancelled meanwhile.
func (e *Engine) draw(s Settings, crop catalog.CropType, img leafimage.Ref) Result {
	result := Result{
		ID:    e.newID(),
		Date:  e.now().UTC(),
		Crop:  crop,
		Image: img,
	}

	if e.rng.Float64() > s.HealthyThreshold {
		result.Healthy = true
		result.Confidence = s.HealthyConfidence.draw(e.rng.Float64())
	} else {
		records := e.catalog.Diseases(crop)
		idx := int(math.Floor(e.rng.Float64() * float64(len(records))))
		if len(records) == 0 {
			result.DiseaseName = UnknownDisease
		} else {
			if idx >= len(records) {
				idx = len(records) - 1
			}
			rec := records[idx]
			result.DiseaseName = rec.Name
			result.Cause = rec.Cause
			result.Symptoms = rec.Symptoms
			result.Treatment = rec.Treatment
			result.Prevention = rec.Prevention
		}
		result.Confidence = s.DiseasedConfidence.draw(e.rng.Float64())
	}
	return result
}

// record traces and counts a committed diagnosis.
func (e *Engine) record(ctx context.Context, result Result) {
	_, span := e.tracer.Start(ctx, "analysis.finalize")
	defer span.End()
	span.SetAttributes(
		attribute.String("crop", string(result.Crop)),
		attribute.String("outcome", result.Outcome()),
		attribute.Float64("confidence", result.Confidence),
	)
	observability.AnalysesTotal.WithLabelValues(string(result.Crop), result.Outcome()).Inc()
}

func (e *Engine) increment(s Settings) float64 {
	return math.Max(e.rng.Float64()*s.MaxIncrement, s.MinIncrement)
}
