package analysis

import (
	"context"
	"sync"
	"time"

	"cropcare/internal/data/catalog"
	"cropcare/internal/data/leafimage"
	"cropcare/internal/shared/observability"
	"cropcare/internal/shared/schedule"

	"github.com/google/uuid"
)

// Callbacks receive run updates. They may be invoked from timer goroutines,
// so they must not call back into the Run.
type Callbacks struct {
	OnProgress func(runID string, percent float64)
	OnResult   func(runID string, result Result)
}

type runState int

const (
	runTicking runState = iota
	runFinalizing
	runDone
	runCancelled
)

// Run is one simulated analysis: progress ticks up to 100, then a single
// delayed finalization produces the result.
type Run struct {
	id       string
	engine   *Engine
	settings Settings
	crop     catalog.CropType
	img      leafimage.Ref
	sched    schedule.Scheduler
	cb       Callbacks
	started  time.Time

	mu        sync.Mutex
	state     runState
	progress  float64
	ticker    schedule.Task
	finalizer schedule.Task
	result    Result
}

// Start begins a run on sched. The run keeps the engine settings current at
// start even if they are replaced later.
func (e *Engine) Start(crop catalog.CropType, img leafimage.Ref, sched schedule.Scheduler, cb Callbacks) (*Run, error) {
	if err := checkInputs("analyze", crop, img); err != nil {
		return nil, err
	}
	if sched == nil {
		sched = schedule.NewReal()
	}
	r := &Run{
		id:       uuid.NewString(),
		engine:   e,
		settings: e.Settings(),
		crop:     crop,
		img:      img,
		sched:    sched,
		cb:       cb,
		started:  e.now(),
	}

	r.mu.Lock()
	r.ticker = sched.Every(r.settings.TickInterval, r.tick)
	r.mu.Unlock()

	observability.AnalysisRunsStartedTotal.Inc()
	return r, nil
}

func (r *Run) ID() string {
	return r.id
}

func (r *Run) Crop() catalog.CropType {
	return r.crop
}

func (r *Run) Progress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// Done reports whether the run produced its result.
func (r *Run) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == runDone
}

func (r *Run) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == runCancelled
}

func (r *Run) Result() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result, r.state == runDone
}

// Cancel stops pending ticks and finalization. It reports whether anything
// was still pending. A callback already running on another goroutine may
// still complete, which is why callbacks carry the run id.
func (r *Run) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == runDone || r.state == runCancelled {
		return false
	}
	r.state = runCancelled
	if r.ticker != nil {
		r.ticker.Stop()
	}
	if r.finalizer != nil {
		r.finalizer.Stop()
	}
	observability.AnalysisRunsCancelledTotal.Inc()
	return true
}

func (r *Run) tick() {
	r.mu.Lock()
	if r.state != runTicking {
		r.mu.Unlock()
		return
	}
	r.progress += r.engine.increment(r.settings)
	if r.progress >= 100 {
		r.progress = 100
		r.state = runFinalizing
		r.ticker.Stop()
		r.finalizer = r.sched.After(r.settings.FinalizeDelay, r.finish)
	}
	progress := r.progress
	r.mu.Unlock()

	if r.cb.OnProgress != nil {
		r.cb.OnProgress(r.id, progress)
	}
}

func (r *Run) finish() {
	r.mu.Lock()
	if r.state != runFinalizing {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	result := r.engine.draw(r.settings, r.crop, r.img)

	r.mu.Lock()
	if r.state != runFinalizing {
		r.mu.Unlock()
		return
	}
	r.state = runDone
	r.result = result
	r.mu.Unlock()

	r.engine.record(context.Background(), result)
	observability.AnalysisRunSeconds.Observe(r.engine.now().Sub(r.started).Seconds())
	if r.cb.OnResult != nil {
		r.cb.OnResult(r.id, result)
	}
}
