// Package navigation holds the screen state machine. It is driven from a
// single goroutine (the TUI update loop) and never blocks.
package navigation

type Screen int

const (
	ScreenSplash Screen = iota
	ScreenHome
	ScreenPreview
	ScreenAnalysis
	ScreenHistory
	ScreenAbout
)

var screenNames = map[Screen]string{
	ScreenSplash:   "splash",
	ScreenHome:     "home",
	ScreenPreview:  "preview",
	ScreenAnalysis: "analysis",
	ScreenHistory:  "history",
	ScreenAbout:    "about",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return "unknown"
}
