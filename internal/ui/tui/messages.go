package tui

import (
	"sync"

	"cropcare/internal/engine/analysis"

	tea "github.com/charmbracelet/bubbletea"
)

type splashDoneMsg struct{}

// progressMsg and resultMsg carry the run id so updates from a cancelled
// run can be recognised and dropped.
type progressMsg struct {
	runID   string
	percent float64
}

type resultMsg struct {
	runID  string
	result analysis.Result
}

// sender forwards run callbacks into the program. The program does not exist
// when the model is built, so it is attached afterwards.
type sender struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func (s *sender) attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *sender) Send(msg tea.Msg) {
	s.mu.RLock()
	send := s.send
	s.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

func (s *sender) callbacks() analysis.Callbacks {
	return analysis.Callbacks{
		OnProgress: func(runID string, percent float64) {
			s.Send(progressMsg{runID: runID, percent: percent})
		},
		OnResult: func(runID string, result analysis.Result) {
			s.Send(resultMsg{runID: runID, result: result})
		},
	}
}
