// Package history keeps the session's saved analyses and filters them for
// display. Nothing here outlives the process.
package history

import (
	"sync"

	"cropcare/internal/engine/analysis"
	"cropcare/internal/shared/observability"
)

// Log is an ordered newest-first list of saved results.
type Log struct {
	mu      sync.Mutex
	entries []analysis.Result
}

func NewLog() *Log {
	return &Log{}
}

// Prepend puts r at the front, keeping the existing entries in order.
func (l *Log) Prepend(r analysis.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]analysis.Result{cloneResult(r)}, l.entries...)
	observability.HistoryEntries.Set(float64(len(l.entries)))
}

func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	observability.HistoryEntries.Set(0)
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy; mutating it does not affect the log.
func (l *Log) Entries() []analysis.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]analysis.Result, len(l.entries))
	for i, r := range l.entries {
		out[i] = cloneResult(r)
	}
	return out
}

func cloneResult(r analysis.Result) analysis.Result {
	r.Symptoms = cloneStrings(r.Symptoms)
	r.Treatment = cloneStrings(r.Treatment)
	r.Prevention = cloneStrings(r.Prevention)
	return r
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
