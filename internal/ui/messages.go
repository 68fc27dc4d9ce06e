package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/snakes/internal/frame"
	"github.com/olivier-w/snakes/internal/snake"
)

type tickMsg time.Time

// stepRequestMsg asks for the next step while playing.
type stepRequestMsg struct{}

type stepDoneMsg struct {
	contour   *snake.Contour
	report    snake.StepReport
	iteration int
	err       error
}

type frameDoneMsg struct {
	ok    bool
	frame *frame.Frame
	index int
	err   error
}

type snapshotSavedMsg struct {
	name string
	err  error
}

const (
	gaugeFPS     = 20
	stepInterval = 30 * time.Millisecond
)

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/gaugeFPS, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func stepRequestCmd() tea.Cmd {
	return tea.Tick(stepInterval, func(time.Time) tea.Msg {
		return stepRequestMsg{}
	})
}
