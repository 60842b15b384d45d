package navigation

import (
	domainerrors "cropcare/internal/core/errors"
	"cropcare/internal/data/catalog"
	"cropcare/internal/data/history"
	"cropcare/internal/data/leafimage"
	"cropcare/internal/engine/analysis"
	"cropcare/internal/shared/observability"
)

// State is a snapshot of the machine. History is a copy.
type State struct {
	Screen  Screen
	Image   leafimage.Ref
	Crop    catalog.CropType
	History []analysis.Result
}

func (s State) HasImage() bool {
	return !s.Image.IsZero()
}

func (s State) HasCrop() bool {
	return s.Crop != ""
}

// Machine owns the current screen, the pending image and crop selection and
// the session history. Methods that return bool report whether a transition
// happened; calls that are not valid on the current screen change nothing.
type Machine struct {
	screen  Screen
	image   leafimage.Ref
	crop    catalog.CropType
	history *history.Log
}

func New() *Machine {
	return &Machine{screen: ScreenSplash, history: history.NewLog()}
}

func (m *Machine) Screen() Screen {
	return m.screen
}

func (m *Machine) State() State {
	return State{
		Screen:  m.screen,
		Image:   m.image,
		Crop:    m.crop,
		History: m.history.Entries(),
	}
}

// Filtered returns the saved results matching f, newest first.
func (m *Machine) Filtered(f history.Filter) []analysis.Result {
	return history.Apply(m.history.Entries(), f)
}

func (m *Machine) CompleteSplash() bool {
	if m.screen != ScreenSplash {
		return false
	}
	m.moveTo(ScreenHome)
	return true
}

// Select stores the chosen image and crop and opens the preview.
func (m *Machine) Select(img leafimage.Ref, crop catalog.CropType) error {
	if m.screen != ScreenHome {
		return domainerrors.Precondition("select", "a leaf image can only be selected from the home screen").
			WithContext(domainerrors.CtxScreen, m.screen.String())
	}
	if img.IsZero() {
		return domainerrors.Precondition("select", "no leaf image was provided")
	}
	if !crop.Valid() {
		return domainerrors.Precondition("select", "select a crop type first").
			WithContext(domainerrors.CtxCrop, string(crop))
	}
	m.image = img
	m.crop = crop
	m.moveTo(ScreenPreview)
	return nil
}

func (m *Machine) GoBack() bool {
	switch m.screen {
	case ScreenPreview, ScreenAnalysis:
		m.clearSelection()
	case ScreenHistory, ScreenAbout:
	default:
		return false
	}
	m.moveTo(ScreenHome)
	return true
}

func (m *Machine) Analyze() bool {
	if m.screen != ScreenPreview {
		return false
	}
	m.moveTo(ScreenAnalysis)
	return true
}

// Retake drops the image but keeps the crop so the user can pick another photo.
func (m *Machine) Retake() bool {
	if m.screen != ScreenPreview {
		return false
	}
	m.image = leafimage.Ref{}
	m.moveTo(ScreenHome)
	return true
}

// SaveResult prepends r to the session history. The screen does not change.
func (m *Machine) SaveResult(r analysis.Result) error {
	if m.screen != ScreenAnalysis {
		return domainerrors.Precondition("save", "results can only be saved from the analysis screen").
			WithContext(domainerrors.CtxScreen, m.screen.String())
	}
	if err := r.Validate(); err != nil {
		return domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodePreconditionFailed, "cannot save an invalid result"),
			domainerrors.CtxOperation, "save",
		)
	}
	m.history.Prepend(r)
	return nil
}

func (m *Machine) AnalyzeAnother() bool {
	if m.screen != ScreenAnalysis {
		return false
	}
	m.clearSelection()
	m.moveTo(ScreenHome)
	return true
}

func (m *Machine) ViewHistory() bool {
	if m.screen != ScreenHome && m.screen != ScreenAnalysis {
		return false
	}
	m.moveTo(ScreenHistory)
	return true
}

func (m *Machine) ViewAbout() bool {
	if m.screen != ScreenHome && m.screen != ScreenAnalysis {
		return false
	}
	m.moveTo(ScreenAbout)
	return true
}

// ClearHistory empties the history. Callers confirm with the user first.
func (m *Machine) ClearHistory() bool {
	if m.screen != ScreenHistory {
		return false
	}
	m.history.Clear()
	return true
}

func (m *Machine) clearSelection() {
	m.image = leafimage.Ref{}
	m.crop = ""
}

func (m *Machine) moveTo(next Screen) {
	observability.ScreenTransitionsTotal.WithLabelValues(m.screen.String(), next.String()).Inc()
	m.screen = next
}
