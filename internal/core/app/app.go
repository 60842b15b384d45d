package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cropcare/internal/core/config"
	domainerrors "cropcare/internal/core/errors"
	"cropcare/internal/core/navigation"
	"cropcare/internal/core/ports"
	"cropcare/internal/data/catalog"
	"cropcare/internal/data/history"
	"cropcare/internal/data/leafimage"
	"cropcare/internal/engine/analysis"
	"cropcare/internal/shared/schedule"
)

// ClearHistoryPrompt is the question asked before the session history is wiped.
const ClearHistoryPrompt = "Are you sure you want to clear all history? (y/n)"

// App wires the navigation machine to the analysis engine. Navigation
// methods are called from a single goroutine (the TUI loop); ApplyConfig may
// be called from the config watcher.
type App struct {
	Catalog catalog.Catalog
	Engine  *analysis.Engine

	nav   *navigation.Machine
	sched schedule.Scheduler

	mu     sync.RWMutex
	config *config.Config
	images *leafimage.Loader
	source ports.ImageSource
	run    *analysis.Run
}

type options struct {
	catalog    catalog.Catalog
	scheduler  schedule.Scheduler
	source     ports.ImageSource
	engineOpts []analysis.Option
	seeded     bool
}

type Option func(*options)

func WithCatalog(cat catalog.Catalog) Option {
	return func(o *options) { o.catalog = cat }
}

// WithScheduler replaces the wall-clock scheduler, usually with a
// schedule.Manual in tests.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithImageSource replaces the file loader used by SelectImage and Diagnose.
// Uploads through the API still go through the configured loader.
func WithImageSource(src ports.ImageSource) Option {
	return func(o *options) { o.source = src }
}

func WithRandomSource(rng analysis.RandomSource) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, analysis.WithRandomSource(rng))
		o.seeded = true
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, analysis.WithClock(now)) }
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = catalog.Default()
	}
	if o.scheduler == nil {
		o.scheduler = schedule.NewReal()
	}

	engineOpts := o.engineOpts
	if !o.seeded {
		engineOpts = append([]analysis.Option{analysis.WithRandomSource(analysis.NewRandomSource(cfg.App.Seed))}, engineOpts...)
	}
	engine, err := analysis.NewEngine(o.catalog, cfg.AnalysisSettings(), engineOpts...)
	if err != nil {
		return nil, err
	}
	images, err := leafimage.NewLoader(cfg.Image.Accept, cfg.Image.MaxBytes)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid image settings")
	}

	return &App{
		Catalog: o.catalog,
		Engine:  engine,
		nav:     navigation.New(),
		sched:   o.scheduler,
		config:  cfg,
		images:  images,
		source:  o.source,
	}, nil
}

func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

func (a *App) Images() *leafimage.Loader {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.images
}

// imageSource is the injected source, or the current loader.
func (a *App) imageSource() ports.ImageSource {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.source != nil {
		return a.source
	}
	return a.images
}

func (a *App) Centers() []config.Center {
	return append([]config.Center(nil), a.Config().Centers...)
}

// ApplyConfig swaps in reloaded settings. A run already in progress keeps the
// settings it started with.
func (a *App) ApplyConfig(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	images, err := leafimage.NewLoader(cfg.Image.Accept, cfg.Image.MaxBytes)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid image settings")
	}
	if err := a.Engine.SetSettings(cfg.AnalysisSettings()); err != nil {
		return err
	}
	a.mu.Lock()
	a.config = cfg
	a.images = images
	a.mu.Unlock()
	slog.Info("applied configuration", "tick_interval", cfg.Analysis.TickInterval, "accept", cfg.Image.Accept)
	return nil
}

func (a *App) State() navigation.State {
	return a.nav.State()
}

func (a *App) Screen() navigation.Screen {
	return a.nav.Screen()
}

func (a *App) Filtered(f history.Filter) []analysis.Result {
	return a.nav.Filtered(f)
}

func (a *App) CompleteSplash() bool {
	return a.nav.CompleteSplash()
}

// SelectImage loads the file at path and moves to the preview screen.
func (a *App) SelectImage(path string, crop catalog.CropType) error {
	if !crop.Valid() {
		return domainerrors.Precondition("select", "select a crop type first").
			WithContext(domainerrors.CtxCrop, string(crop))
	}
	ref, err := a.imageSource().Load(path)
	if err != nil {
		return err
	}
	return a.nav.Select(ref, crop)
}

// Analyze moves from preview to analysis and starts a progress run for the
// selected image. cb receives progress and the final result.
func (a *App) Analyze(cb analysis.Callbacks) (*analysis.Run, error) {
	st := a.nav.State()
	if st.Screen != navigation.ScreenPreview {
		return nil, domainerrors.Precondition("analyze", "nothing to analyze; select an image first").
			WithContext(domainerrors.CtxScreen, st.Screen.String())
	}
	run, err := a.Engine.Start(st.Crop, st.Image, a.sched, cb)
	if err != nil {
		return nil, err
	}
	a.nav.Analyze()

	a.mu.Lock()
	previous := a.run
	a.run = run
	a.mu.Unlock()
	if previous != nil {
		previous.Cancel()
	}
	slog.Debug("analysis started", "run", run.ID(), "crop", st.Crop, "image", st.Image.Name)
	return run, nil
}

// ActiveRun returns the current run, if any. It stays set after the run
// completes until navigation leaves the analysis screen.
func (a *App) ActiveRun() *analysis.Run {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.run
}

// IsCurrentRun reports whether id belongs to the active run. Screens use it
// to drop messages from cancelled runs.
func (a *App) IsCurrentRun(id string) bool {
	run := a.ActiveRun()
	return run != nil && run.ID() == id
}

func (a *App) Retake() bool {
	return a.nav.Retake()
}

func (a *App) GoBack() bool {
	return a.leaveAnalysis(a.nav.GoBack)
}

func (a *App) AnalyzeAnother() bool {
	return a.leaveAnalysis(a.nav.AnalyzeAnother)
}

func (a *App) ViewHistory() bool {
	return a.leaveAnalysis(a.nav.ViewHistory)
}

func (a *App) ViewAbout() bool {
	return a.leaveAnalysis(a.nav.ViewAbout)
}

func (a *App) leaveAnalysis(transition func() bool) bool {
	wasAnalysis := a.nav.Screen() == navigation.ScreenAnalysis
	if !transition() {
		return false
	}
	if wasAnalysis {
		a.cancelRun()
	}
	return true
}

func (a *App) cancelRun() {
	a.mu.Lock()
	run := a.run
	a.run = nil
	a.mu.Unlock()
	if run != nil && run.Cancel() {
		slog.Debug("analysis cancelled", "run", run.ID())
	}
}

// SaveResult stores the finished result of the active run.
func (a *App) SaveResult() (analysis.Result, error) {
	run := a.ActiveRun()
	if run == nil {
		return analysis.Result{}, domainerrors.Precondition("save", "no analysis to save")
	}
	result, ok := run.Result()
	if !ok {
		return analysis.Result{}, domainerrors.Precondition("save", "analysis is still running")
	}
	if err := a.nav.SaveResult(result); err != nil {
		return analysis.Result{}, err
	}
	return result, nil
}

// RequestClearHistory asks c first and clears only on a yes.
func (a *App) RequestClearHistory(c ports.Confirmer) bool {
	if a.nav.Screen() != navigation.ScreenHistory || c == nil {
		return false
	}
	if !c.Confirm(ClearHistoryPrompt) {
		return false
	}
	return a.nav.ClearHistory()
}

// Diagnose runs a one-shot diagnosis for the file at path without touching
// navigation or history.
func (a *App) Diagnose(ctx context.Context, path string, crop catalog.CropType) (analysis.Result, error) {
	ref, err := a.imageSource().Load(path)
	if err != nil {
		return analysis.Result{}, err
	}
	result, err := a.Engine.Diagnose(ctx, crop, ref)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("diagnose %s: %w", ref.Name, err)
	}
	return result, nil
}

// Close cancels any run still in flight.
func (a *App) Close() {
	a.cancelRun()
}
