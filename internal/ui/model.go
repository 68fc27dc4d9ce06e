package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/snakes/internal/frame"
	"github.com/olivier-w/snakes/internal/render"
	"github.com/olivier-w/snakes/internal/sim"
	"github.com/olivier-w/snakes/internal/snake"
	"github.com/olivier-w/snakes/internal/util"
	"github.com/olivier-w/snakes/internal/video"
	"honnef.co/go/curve"
)

const (
	// The image starts below the title and a blank line, indented like the
	// rest of the view.
	imageTop  = 2
	imageLeft = 2
	// title, blank, blank, progress, status, message, help
	chromeRows = 7

	defaultRadialCount = 32
	statusTimeout      = 3 * time.Second
)

// Model is the interactive front end. It owns the driver; every call into
// the driver that may take a while runs inside a command, and busy keeps a
// second one from starting until the first reports back.
type Model struct {
	driver   *sim.Driver
	renderer *render.Renderer
	viewport render.Viewport

	name    string
	frame   *frame.Frame
	index   int
	frames  int    // total frames, 0 when unknown
	length  string // clip duration, video only
	contour *snake.Contour

	mode     InitMode
	vertices []curve.Point

	iteration int
	report    snake.StepReport
	playing   bool
	busy      bool
	ended     bool
	snapshots int

	progress progress.Model
	gauge    shiftGauge

	status     string
	statusErr  bool
	statusTime time.Time

	width    int
	height   int
	quitting bool
}

// New creates the model around a driver whose force field is built. If the
// driver already holds a contour, the model starts with it.
func New(d *sim.Driver) Model {
	m := Model{
		driver:   d,
		renderer: render.NewRenderer(),
		frame:    d.Frame(),
		progress: progress.New(progress.WithScaledGradient("#5A56E0", "#EE6FF8"), progress.WithoutPercentage()),
		gauge:    newShiftGauge(),
	}
	m.index = d.Source().Index()
	m.name = d.Source().Path()
	if m.name == "" {
		m.name, _ = d.Params().Source()
	}
	m.name = filepath.Base(m.name)
	switch src := d.Source().(type) {
	case *video.Source:
		m.frames = src.Probe().Frames
		if dur := src.Probe().Duration; dur > 0 {
			m.length = util.FormatDuration(dur)
		}
	case *frame.Sequence:
		m.frames = src.Len()
	}
	if c := d.Contour(); c != nil {
		m.contour = c.Clone()
		m.iteration = d.Iteration()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("snakes - "+m.name),
		tickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-2*imageLeft-24, 10)
		m.fit()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		m.gauge.step()
		if !m.statusTime.IsZero() && time.Since(m.statusTime) > statusTimeout {
			m.status = ""
			m.statusErr = false
			m.statusTime = time.Time{}
		}
		return m, tickCmd()

	case stepRequestMsg:
		if !m.playing || m.busy || m.contour == nil {
			return m, nil
		}
		return m.startStep()

	case stepDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.playing = false
			m.setError(msg.err)
			return m, nil
		}
		m.contour = msg.contour
		m.iteration = msg.iteration
		m.report = msg.report
		m.gauge.set(msg.report.MaxShift)
		if m.playing && m.target() > 0 && m.iteration == m.target() {
			m.playing = false
			m.setStatus(fmt.Sprintf("Stopped after %d iterations", m.iteration))
		}
		if m.playing {
			return m, stepRequestCmd()
		}
		return m, nil

	case frameDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.playing = false
			m.setError(msg.err)
			return m, nil
		}
		if !msg.ok {
			m.ended = true
			m.setStatus("No more frames")
			if m.playing {
				return m, stepRequestCmd()
			}
			return m, nil
		}
		m.frame = msg.frame
		m.index = msg.index
		m.iteration = 0
		m.fit()
		m.setStatus(fmt.Sprintf("Frame %d", msg.index))
		if m.playing {
			return m, stepRequestCmd()
		}
		return m, nil

	case snapshotSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.playing = false
			m.setError(msg.err)
			return m, nil
		}
		m.snapshots++
		m.setStatus("Saved " + msg.name)
		if m.playing {
			return m, stepRequestCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		m.playing = false
		return m, tea.Quit
	}

	switch msg.String() {
	case " ":
		if m.contour == nil {
			return m, nil
		}
		m.playing = !m.playing
		if m.playing && !m.busy {
			return m.startStep()
		}
		return m, nil

	case ".":
		if m.contour == nil || m.busy || m.playing {
			return m, nil
		}
		return m.startStep()

	case "enter":
		if m.contour != nil || m.busy {
			return m, nil
		}
		return m.initContour()

	case "m":
		if m.contour != nil {
			return m, nil
		}
		m.mode = m.mode.Next()
		m.vertices = nil
		m.setStatus("Mode: " + m.mode.String())
		return m, nil

	case "backspace":
		if m.contour == nil && len(m.vertices) > 0 {
			m.vertices = m.vertices[:len(m.vertices)-1]
		}
		return m, nil

	case "r":
		if m.busy {
			return m, nil
		}
		m.driver.Reset()
		m.contour = nil
		m.vertices = nil
		m.playing = false
		m.iteration = 0
		m.report = snake.StepReport{}
		m.gauge.set(0)
		return m, nil

	case "]":
		if m.busy || m.ended {
			return m, nil
		}
		m.busy = true
		return m, nextFrameCmd(m.driver)

	case "s":
		if m.busy || m.contour == nil {
			return m, nil
		}
		m.busy = true
		name := sim.FrameName(m.driver.Params().End, m.snapshots)
		return m, snapshotCmd(m.driver, name)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.contour != nil {
		m.setStatus("Press r to draw a new contour")
		return m, nil
	}
	p, ok := m.viewport.ToFrame(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	if m.mode == ModeRadial && len(m.vertices) == 2 {
		m.vertices[1] = p
		return m, nil
	}
	m.vertices = append(m.vertices, p)
	return m, nil
}

// authoredInit turns the clicked points into an initialization.
func (m Model) authoredInit() (snake.Init, error) {
	switch m.mode {
	case ModeRadial:
		if len(m.vertices) < 2 {
			return nil, fmt.Errorf("click a center and a point on the circle")
		}
		count := defaultRadialCount
		if r := m.driver.Params().Radial; r != nil {
			count = r.Count
		}
		return snake.Radial{
			Center: m.vertices[0],
			Radius: m.vertices[0].Distance(m.vertices[1]),
			Count:  count,
		}, nil
	default:
		if len(m.vertices) < 2 {
			return nil, fmt.Errorf("click at least 2 points")
		}
		return snake.Polyline{Vertices: append([]curve.Point(nil), m.vertices...)}, nil
	}
}

func (m Model) initContour() (tea.Model, tea.Cmd) {
	init, err := m.authoredInit()
	if err != nil {
		m.setError(err)
		return m, nil
	}
	if err := m.driver.Init(init); err != nil {
		m.setError(err)
		return m, nil
	}
	m.contour = m.driver.Contour().Clone()
	m.vertices = nil
	m.iteration = 0
	m.report = snake.StepReport{}
	m.setStatus(fmt.Sprintf("Contour with %d nodes", m.contour.Len()))
	return m, nil
}

func (m Model) startStep() (tea.Model, tea.Cmd) {
	m.busy = true
	return m, stepCmd(m.driver)
}

func stepCmd(d *sim.Driver) tea.Cmd {
	return func() tea.Msg {
		rep, err := d.Step()
		if err != nil {
			return stepDoneMsg{err: err}
		}
		return stepDoneMsg{contour: d.Contour().Clone(), report: rep, iteration: d.Iteration()}
	}
}

func nextFrameCmd(d *sim.Driver) tea.Cmd {
	return func() tea.Msg {
		ok, err := d.NextFrame()
		return frameDoneMsg{ok: ok, frame: d.Frame(), index: d.Source().Index(), err: err}
	}
}

func snapshotCmd(d *sim.Driver, name string) tea.Cmd {
	return func() tea.Msg {
		return snapshotSavedMsg{name: name, err: d.Snapshot(name)}
	}
}

func (m *Model) fit() {
	if m.width == 0 || m.height == 0 {
		return
	}
	v := m.renderer.Fit(m.frame, m.width-2*imageLeft, m.height-chromeRows)
	v.Left = imageLeft
	v.Top = imageTop
	m.viewport = v
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
	m.statusTime = time.Now()
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	m.statusTime = time.Now()
}

// target is the iteration count at which playback pauses.
func (m Model) target() int { return m.driver.Params().Iterations }

// Playing reports whether the contour is advancing on its own.
func (m Model) Playing() bool { return m.playing }

// Contour returns the last contour the model has seen.
func (m Model) Contour() *snake.Contour { return m.contour }

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	indent := strings.Repeat(" ", imageLeft)

	title := titleStyle.Render("snakes") + "  " + pathStyle.Render(m.name)
	switch {
	case m.frames > 1:
		title += pathStyle.Render(fmt.Sprintf("  frame %d/%d", m.index+1, m.frames))
	case m.index > 0 || m.ended:
		title += pathStyle.Render(fmt.Sprintf("  frame %d", m.index+1))
	}
	if m.length != "" {
		title += pathStyle.Render("  " + m.length)
	}
	b.WriteString(indent + title + "\n\n")

	marks := render.Marks{Vertices: m.vertices}
	if m.contour != nil {
		marks.Contour = m.contour.Nodes
		marks.Closed = m.contour.Closed
	}
	if img := m.renderer.Render(m.frame, m.viewport, marks); img != "" {
		for _, line := range strings.Split(strings.TrimSuffix(img, "\n"), "\n") {
			b.WriteString(indent + line + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(indent + m.progressLine() + "\n")
	b.WriteString(indent + statusStyle.Render(m.statusLine()) + "\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(indent + errorStyle.Render(m.status) + "\n")
		} else {
			b.WriteString(indent + statusStyle.Render(m.status) + "\n")
		}
	} else {
		b.WriteString("\n")
	}
	_, multi := m.driver.Params().Source()
	b.WriteString(indent + helpStyle.Render(helpText(m.contour != nil, multi)))
	return b.String()
}

func (m Model) progressLine() string {
	target := m.target()
	ratio := 0.0
	if target > 0 {
		ratio = min(float64(m.iteration)/float64(target), 1)
	}
	state := "paused"
	switch {
	case m.playing:
		state = "playing"
	case m.contour == nil:
		state = "drawing"
	}
	return fmt.Sprintf("%-8s %s %d/%d", state, m.progress.ViewAs(ratio), m.iteration, target)
}

func (m Model) statusLine() string {
	if m.contour == nil {
		s := m.mode.Icon() + fmt.Sprintf("  %d points", len(m.vertices))
		if n := len(m.vertices); n > 0 {
			s += "  last " + util.FormatPoint(m.vertices[n-1])
		}
		return s
	}
	c := m.contour
	s := fmt.Sprintf("%d nodes  perimeter %.1f", c.Len(), c.Perimeter())
	if c.Closed {
		s += fmt.Sprintf("  area %.1f", c.Area())
	}
	s += "  shift " + m.gauge.view(12) + " " + util.FormatShift(m.report.MaxShift)
	if m.report.Clamped > 0 {
		s += fmt.Sprintf("  %d clamped", m.report.Clamped)
	}
	return s
}

// Close releases the image source.
func (m Model) Close() error {
	if m.driver == nil {
		return nil
	}
	return m.driver.Source().Close()
}
