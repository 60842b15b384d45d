// Package schedule provides cancellable timer tasks. Real drives production
// timers; Manual is a virtual clock for deterministic tests.
package schedule

import (
	"sync"
	"time"
)

// Task is a handle to a scheduled callback.
type Task interface {
	// Stop prevents any future invocation. It is safe to call more than once.
	Stop()
}

// Scheduler runs callbacks after a delay or repeatedly.
type Scheduler interface {
	After(d time.Duration, fn func()) Task
	Every(d time.Duration, fn func()) Task
}

// Real schedules on the Go runtime timers. Callbacks run on their own
// goroutines.
type Real struct{}

func NewReal() Real {
	return Real{}
}

type afterTask struct {
	timer *time.Timer
}

func (t *afterTask) Stop() {
	t.timer.Stop()
}

func (Real) After(d time.Duration, fn func()) Task {
	return &afterTask{timer: time.AfterFunc(d, fn)}
}

type tickerTask struct {
	once sync.Once
	stop chan struct{}
	done chan struct{}
}

// Stop does not wait for an in-flight callback; use Wait for that.
func (t *tickerTask) Stop() {
	t.once.Do(func() { close(t.stop) })
}

func (Real) Every(d time.Duration, fn func()) Task {
	t := &tickerTask{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	ticker := time.NewTicker(d)
	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				select {
				case <-t.stop:
					return
				default:
				}
				fn()
			}
		}
	}()
	return t
}

// Wait blocks until the ticker goroutine behind task has exited. It is a
// no-op for tasks that are not tickers created by Real.
func Wait(task Task) {
	if t, ok := task.(*tickerTask); ok {
		<-t.done
	}
}
