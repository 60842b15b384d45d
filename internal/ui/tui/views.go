package tui

import (
	"fmt"
	"strings"

	"cropcare/internal/core/navigation"
	"cropcare/internal/data/history"
	"cropcare/internal/engine/analysis"

	"github.com/dustin/go-humanize"
)

const historyDateLayout = "Jan 2, 2006, 03:04 PM"

var analysisSteps = []string{"Scanning Image", "Detecting Patterns", "Identifying Disease"}

func (m model) View() string {
	var body string
	switch m.app.Screen() {
	case navigation.ScreenSplash:
		body = renderSplash()
	case navigation.ScreenHome:
		body = renderHome(m)
	case navigation.ScreenPreview:
		body = renderPreview(m)
	case navigation.ScreenAnalysis:
		body = renderAnalysis(m)
	case navigation.ScreenHistory:
		body = renderHistory(m)
	case navigation.ScreenAbout:
		body = renderAbout(m)
	}
	if m.err != "" {
		body += "\n\n" + errorStyle.Render(m.err)
	}
	if m.status != "" {
		body += "\n\n" + successStyle.Render(m.status)
	}
	return docStyle.Render(body)
}

func renderSplash() string {
	return strings.Join([]string{
		titleStyle("CropCare AI"),
		"Smart Disease Detection",
		"",
		statusStyle.Render("Press any key to continue"),
	}, "\n")
}

func renderHome(m model) string {
	var b strings.Builder
	b.WriteString(titleStyle("CropCare AI") + "  " + statusStyle.Render("Smart Disease Detection") + "\n\n")
	b.WriteString(headingStyle.Render("Start Your Analysis") + "\n")
	b.WriteString("Pick a crop, then point to a photo of one of its leaves.\n\n")

	if m.step == stepEnterPath {
		b.WriteString(fmt.Sprintf("Crop: %s\n\n", successStyle.Render(m.crop.Label())))
		b.WriteString(m.pathInput.View() + "\n\n")
		b.WriteString(statusStyle.Render("enter: preview • esc: change crop • ctrl+c: quit"))
		return b.String()
	}

	b.WriteString(m.cropList.View() + "\n")
	b.WriteString(cardStyle.Render("How it works\nThe leaf's texture, color and patterns are checked for known diseases,\nwith treatment recommendations for anything found.") + "\n\n")
	b.WriteString(statusStyle.Render("enter: select crop • h: history • a: about • q: quit"))
	return b.String()
}

func renderPreview(m model) string {
	st := m.app.State()
	var b strings.Builder
	b.WriteString(titleStyle("Preview Image") + "  " + statusStyle.Render("Confirm before analysis") + "\n\n")
	b.WriteString(cardStyle.Render(strings.Join([]string{
		fmt.Sprintf("Crop:  %s", st.Crop.Label()),
		fmt.Sprintf("File:  %s", st.Image.Name),
		fmt.Sprintf("Type:  %s", st.Image.MIME),
		fmt.Sprintf("Size:  %s", humanize.Bytes(uint64(st.Image.Size))),
	}, "\n")) + "\n\n")
	b.WriteString("Make sure the leaf is clearly visible and well-lit for best results.\n\n")
	b.WriteString(statusStyle.Render("enter: analyze • r: retake • esc: back"))
	return b.String()
}

func renderAnalysis(m model) string {
	var b strings.Builder
	b.WriteString(titleStyle("Analysis Results") + "  " + statusStyle.Render("AI-powered detection") + "\n\n")

	if m.result == nil {
		b.WriteString(headingStyle.Render("Analyzing Leaf...") + "\n")
		b.WriteString("Examining texture, color patterns, and disease signatures\n\n")
		b.WriteString(m.bar.ViewAs(m.percent/100) + "\n")
		b.WriteString(statusStyle.Render(fmt.Sprintf("%.0f%% complete", m.percent)) + "\n\n")
		for i, step := range analysisSteps {
			if m.percent > float64(i*30) {
				b.WriteString(activeStepStyle.Render("● "+step) + "\n")
			} else {
				b.WriteString(pendingStepStyle.Render("○ "+step) + "\n")
			}
		}
		b.WriteString("\n" + statusStyle.Render("esc: back • h: history • a: about"))
		return b.String()
	}

	b.WriteString(renderResult(*m.result) + "\n\n")
	help := "s: save • n: analyze another • h: history • a: about • esc: back"
	if m.saved {
		help = "n: analyze another • h: history • a: about • esc: back"
	}
	b.WriteString(statusStyle.Render(help))
	return b.String()
}

func renderResult(r analysis.Result) string {
	confidence := fmt.Sprintf("%.1f%% Confidence", r.Confidence)
	if r.Healthy {
		return cardStyle.Render(strings.Join([]string{
			successStyle.Render("Healthy Leaf!"),
			fmt.Sprintf("No diseases detected in your %s crop", r.Crop.Label()),
			statusStyle.Render(confidence),
			"",
			headingStyle.Render("What this means:"),
			"• Your crop appears to be in good health",
			"• Continue regular monitoring and maintenance",
			"• Keep following good agricultural practices",
			"• Check plants regularly for early signs of issues",
		}, "\n"))
	}

	lines := []string{
		diseaseStyle.Render("Disease Detected"),
		r.DiseaseName,
		statusStyle.Render(confidence),
	}
	if r.Cause != "" {
		lines = append(lines, "", headingStyle.Render("Cause:"), r.Cause)
	}
	lines = appendSection(lines, "Symptoms:", r.Symptoms)
	lines = appendSection(lines, "Treatment:", r.Treatment)
	lines = appendSection(lines, "Prevention:", r.Prevention)
	if r.IsSentinel() {
		lines = append(lines, "", "No catalog details are available for this crop.", "Consult a local agricultural expert.")
	}
	return warningCardStyle.Render(strings.Join(lines, "\n"))
}

func appendSection(lines []string, heading string, items []string) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, "", headingStyle.Render(heading))
	for _, item := range items {
		lines = append(lines, "• "+item)
	}
	return lines
}

func renderHistory(m model) string {
	all := m.app.State().History
	var b strings.Builder
	b.WriteString(titleStyle("Analysis History") + "  " + statusStyle.Render(fmt.Sprintf("%d total analyses", len(all))) + "\n\n")

	if m.confirming {
		b.WriteString(warningCardStyle.Render(clearPrompt) + "\n")
		return b.String()
	}

	if len(all) == 0 {
		b.WriteString(headingStyle.Render("No History Yet") + "\n")
		b.WriteString("Your analysis history will appear here once you start detecting diseases.\n\n")
		b.WriteString(statusStyle.Render("esc: back"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Crop: %s   Status: %s\n\n", m.filter.Crop.Label(), m.filter.Status.Label()))

	entries := m.app.Filtered(m.filter)
	if len(entries) == 0 {
		b.WriteString("No results match your filters\n")
	}
	for _, r := range entries {
		b.WriteString(renderHistoryEntry(r) + "\n")
	}

	healthy := len(history.Apply(all, history.Filter{Status: history.StatusHealthy}))
	b.WriteString(fmt.Sprintf("\nTotal Analyses: %d   Healthy Detected: %d   Diseases Found: %d\n\n", len(all), healthy, len(all)-healthy))
	b.WriteString(statusStyle.Render("f: crop filter • t: status filter • c: clear history • esc: back"))
	return b.String()
}

func renderHistoryEntry(r analysis.Result) string {
	title := successStyle.Render("Healthy Leaf")
	if !r.Healthy {
		title = diseaseStyle.Render(r.DiseaseName)
	}
	return fmt.Sprintf("%s  %s · %s · %.1f%%",
		title,
		r.Crop.Label(),
		r.Date.Local().Format(historyDateLayout),
		r.Confidence,
	)
}
