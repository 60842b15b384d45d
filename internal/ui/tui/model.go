// Package tui renders the CropCare screens with Bubble Tea. Every navigation
// intent is forwarded to the app; the model only keeps per-screen widget state.
package tui

import (
	"fmt"
	"time"

	coreapp "cropcare/internal/core/app"
	"cropcare/internal/core/navigation"
	"cropcare/internal/data/catalog"
	"cropcare/internal/data/history"
	"cropcare/internal/engine/analysis"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type homeStep int

const (
	stepChooseCrop homeStep = iota
	stepEnterPath
)

type cropItem struct {
	crop catalog.CropType
	desc string
}

func (i cropItem) Title() string       { return i.crop.Label() }
func (i cropItem) Description() string { return i.desc }
func (i cropItem) FilterValue() string { return string(i.crop) }

type model struct {
	app    *coreapp.App
	sender *sender
	splash time.Duration

	cropList  list.Model
	pathInput textinput.Model
	step      homeStep
	crop      catalog.CropType

	bar     progress.Model
	runID   string
	percent float64
	result  *analysis.Result
	saved   bool

	filter     history.Filter
	confirming bool

	status string
	err    string
	width  int
	height int
}

func newModel(a *coreapp.App, splash time.Duration) model {
	items := make([]list.Item, 0, len(catalog.AllCrops()))
	for _, crop := range catalog.AllCrops() {
		items = append(items, cropItem{crop: crop, desc: cropDescription(a.Catalog, crop)})
	}
	cropList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	cropList.Title = "Select Crop Type"
	cropList.SetShowStatusBar(false)
	cropList.SetFilteringEnabled(false)
	cropList.SetShowHelp(false)

	input := textinput.New()
	input.Placeholder = "/path/to/leaf.jpg"
	input.Prompt = "Leaf image: "
	input.CharLimit = 4096

	return model{
		app:       a,
		sender:    &sender{},
		splash:    splash,
		cropList:  cropList,
		pathInput: input,
		bar:       progress.New(progress.WithDefaultGradient()),
		filter:    history.NoFilter(),
	}
}

func cropDescription(cat catalog.Catalog, crop catalog.CropType) string {
	if cat == nil {
		return ""
	}
	n := len(cat.Diseases(crop))
	if n == 1 {
		return "1 known disease"
	}
	return fmt.Sprintf("%d known diseases", n)
}

func (m model) Init() tea.Cmd {
	return tea.Tick(m.splash, func(time.Time) tea.Msg { return splashDoneMsg{} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := docStyle.GetFrameSize()
		height := msg.Height - v - 8
		if height < 8 {
			height = 8
		}
		m.cropList.SetSize(msg.Width-h, height)
		m.bar.Width = min(msg.Width-h-4, 60)
		return m, nil
	case splashDoneMsg:
		m.app.CompleteSplash()
		return m, nil
	case progressMsg:
		if msg.runID != m.runID || !m.app.IsCurrentRun(msg.runID) {
			return m, nil
		}
		m.percent = msg.percent
		return m, nil
	case resultMsg:
		if msg.runID != m.runID || !m.app.IsCurrentRun(msg.runID) {
			return m, nil
		}
		result := msg.result
		m.result = &result
		m.percent = 100
		return m, nil
	}

	if m.app.Screen() == navigation.ScreenHome {
		return m.updateHomeWidgets(msg)
	}
	return m, nil
}

func (m model) updateHomeWidgets(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.step == stepEnterPath {
		m.pathInput, cmd = m.pathInput.Update(msg)
	} else {
		m.cropList, cmd = m.cropList.Update(msg)
	}
	return m, cmd
}

// resetAnalysis clears per-run widget state.
func (m *model) resetAnalysis() {
	m.runID = ""
	m.percent = 0
	m.result = nil
	m.saved = false
}

// syncHome puts the home screen widgets in line with the app state after a
// transition back to home.
func (m *model) syncHome() tea.Cmd {
	st := m.app.State()
	if st.HasCrop() {
		m.crop = st.Crop
		m.step = stepEnterPath
		m.pathInput.SetValue("")
		return m.pathInput.Focus()
	}
	m.crop = ""
	m.step = stepChooseCrop
	m.pathInput.Blur()
	m.pathInput.SetValue("")
	return nil
}
