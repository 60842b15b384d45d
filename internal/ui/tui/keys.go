package tui

import (
	coreapp "cropcare/internal/core/app"
	"cropcare/internal/core/navigation"
	"cropcare/internal/core/ports"

	tea "github.com/charmbracelet/bubbletea"
)

// promptAnswer is the user's reply to a y/n prompt, handed to the app as its
// confirmer.
type promptAnswer bool

func (a promptAnswer) Confirm(string) bool {
	return bool(a)
}

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.app.Screen() {
	case navigation.ScreenSplash:
		m.app.CompleteSplash()
		return m, nil
	case navigation.ScreenHome:
		return handleHomeKeys(msg, m)
	case navigation.ScreenPreview:
		return handlePreviewKeys(msg, m)
	case navigation.ScreenAnalysis:
		return handleAnalysisKeys(msg, m)
	case navigation.ScreenHistory:
		return handleHistoryKeys(msg, m)
	case navigation.ScreenAbout:
		return handleAboutKeys(msg, m)
	}
	return m, nil
}

func handleHomeKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	if m.step == stepEnterPath {
		switch msg.String() {
		case "esc":
			m.step = stepChooseCrop
			m.pathInput.Blur()
			m.err = ""
			return m, nil
		case "enter":
			if err := m.app.SelectImage(m.pathInput.Value(), m.crop); err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.err = ""
			m.status = ""
			m.pathInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "h":
		m.app.ViewHistory()
		m.status = ""
		return m, nil
	case "a":
		m.app.ViewAbout()
		m.status = ""
		return m, nil
	case "enter":
		selected, ok := m.cropList.SelectedItem().(cropItem)
		if !ok {
			return m, nil
		}
		m.crop = selected.crop
		m.step = stepEnterPath
		m.err = ""
		return m, m.pathInput.Focus()
	}

	var cmd tea.Cmd
	m.cropList, cmd = m.cropList.Update(msg)
	return m, cmd
}

func handlePreviewKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		run, err := m.app.Analyze(m.sender.callbacks())
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.resetAnalysis()
		m.runID = run.ID()
		m.err = ""
		return m, nil
	case "r":
		m.app.Retake()
		return m, m.syncHome()
	case "esc":
		m.app.GoBack()
		return m, m.syncHome()
	}
	return m, nil
}

func handleAnalysisKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "s":
		if m.result == nil || m.saved {
			return m, nil
		}
		if _, err := m.app.SaveResult(); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.saved = true
		m.status = "Analysis saved to history!"
		return m, nil
	case "n":
		if m.app.AnalyzeAnother() {
			m.resetAnalysis()
			m.status = ""
			return m, m.syncHome()
		}
	case "h":
		if m.app.ViewHistory() {
			m.resetAnalysis()
			m.status = ""
		}
	case "a":
		if m.app.ViewAbout() {
			m.resetAnalysis()
			m.status = ""
		}
	case "esc":
		if m.app.GoBack() {
			m.resetAnalysis()
			m.status = ""
			return m, m.syncHome()
		}
	}
	return m, nil
}

func handleHistoryKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	if m.confirming {
		switch msg.String() {
		case "y", "Y":
			if m.app.RequestClearHistory(promptAnswer(true)) {
				m.status = "History cleared."
			}
		default:
			m.app.RequestClearHistory(promptAnswer(false))
		}
		m.confirming = false
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "f":
		m.filter.Crop = m.filter.Crop.Next()
	case "t":
		m.filter.Status = m.filter.Status.Next()
	case "c":
		if len(m.app.State().History) > 0 {
			m.confirming = true
			m.status = ""
		}
	case "esc":
		m.app.GoBack()
		m.status = ""
		return m, m.syncHome()
	}
	return m, nil
}

func handleAboutKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.app.GoBack()
		return m, m.syncHome()
	}
	return m, nil
}

var _ ports.Confirmer = promptAnswer(false)

// clearPrompt is shown while waiting for the y/n answer.
const clearPrompt = coreapp.ClearHistoryPrompt
