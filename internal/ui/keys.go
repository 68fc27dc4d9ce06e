package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(hasContour, video bool) string {
	var s string
	if hasContour {
		s = "space play/pause  . step  s snapshot  r reset"
	} else {
		s = "click add point  backspace undo  m mode  enter start"
	}
	if video {
		s += "  ] next frame"
	}
	s += "  q quit"
	return s
}
