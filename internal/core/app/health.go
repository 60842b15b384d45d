package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"cropcare/internal/data/catalog"
)

const (
	StatusUp       = "up"
	StatusDegraded = "degraded"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

func (s HealthStatus) Healthy() bool {
	return s.Status == StatusUp
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     StatusUp,
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	// Catalog
	if s.app.Catalog == nil {
		status.Status = StatusDegraded
		status.Components["catalog"] = "missing"
	} else {
		covered := 0
		for _, crop := range catalog.AllCrops() {
			if len(s.app.Catalog.Diseases(crop)) > 0 {
				covered++
			}
		}
		status.Components["catalog"] = fmt.Sprintf("ok (%d/%d crops covered)", covered, len(catalog.AllCrops()))
	}

	// Engine
	if s.app.Engine == nil {
		status.Status = StatusDegraded
		status.Components["engine"] = "missing"
	} else if err := s.app.Engine.Settings().Validate(); err != nil {
		status.Status = StatusDegraded
		status.Components["engine"] = "invalid settings: " + err.Error()
	} else {
		status.Components["engine"] = "ok"
	}

	// Image loader
	if images := s.app.Images(); images == nil {
		status.Status = StatusDegraded
		status.Components["images"] = "missing"
	} else {
		status.Components["images"] = fmt.Sprintf("ok (%d patterns, max %d bytes)", len(images.Patterns()), images.MaxBytes())
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	status.Components["memory"] = fmt.Sprintf("%d MB heap, %d goroutines", mem.Alloc>>20, runtime.NumGoroutine())
	return status
}
