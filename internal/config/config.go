package config

import (
	"fmt"
	"math"
	"os"

	"github.com/olivier-w/snakes/internal/snake"
	"gopkg.in/yaml.v3"
	"honnef.co/go/curve"
)

const (
	DefaultIterations = 40
	DefaultStart      = "start.png"
	DefaultEnd        = "end.png"
	DefaultOverlay    = "#ff0000"
)

// Params holds the parameters of one run. It is immutable once loaded.
type Params struct {
	// Input, at most one of these is set. With neither, the input is
	// chosen at startup.
	Image string
	Video string

	Tension    float64
	Stiffness  float64
	LineWeight float64
	EdgeWeight float64
	// TermWeight is accepted and validated for compatibility with existing
	// configuration files. It does not enter the force computation.
	TermWeight float64
	Atom       float64
	Tick       float64
	Threshold  float64
	Smoothing  int

	Closed   bool
	Pinned   int
	Implicit int

	Iterations   int
	Start        string
	End          string
	Overlay      string
	OverlayWidth float64

	// Initialization, at most one of these is set.
	Radial   *Radial
	Polyline []curve.Point
}

// Radial is the radial initialization block.
type Radial struct {
	Center curve.Point
	Radius float64
	Count  int
}

// document is the on-disk layout. Pointers distinguish a missing field from
// a zero value.
type document struct {
	Image string `yaml:"image"`
	Video string `yaml:"video"`

	Tension    *float64 `yaml:"tension"`
	Stiffness  *float64 `yaml:"stiffness"`
	LineWeight *float64 `yaml:"line_weight"`
	EdgeWeight *float64 `yaml:"edge_weight"`
	TermWeight *float64 `yaml:"term_weight"`
	Atom       *float64 `yaml:"atom"`
	Tick       *float64 `yaml:"tick"`
	Threshold  *float64 `yaml:"threshold"`
	Smoothing  *int     `yaml:"smoothing"`

	Closed   bool `yaml:"closed"`
	Fixed    bool `yaml:"fixed"`
	Pinned   int  `yaml:"pinned"`
	Implicit *int `yaml:"implicit"`

	Iterations *int   `yaml:"iterations"`
	Output     output `yaml:"output"`

	Init *initBlock `yaml:"init"`
	// Xs and Ys are the flat vertex layout of older configuration files.
	Xs []float64 `yaml:"xs"`
	Ys []float64 `yaml:"ys"`
}

type output struct {
	Start        string  `yaml:"start"`
	End          string  `yaml:"end"`
	Overlay      string  `yaml:"overlay"`
	OverlayWidth float64 `yaml:"overlay_width"`
}

type initBlock struct {
	Radial *struct {
		Center [2]float64 `yaml:"center"`
		Radius float64    `yaml:"radius"`
		Count  int        `yaml:"count"`
	} `yaml:"radial"`
	Polyline [][2]float64 `yaml:"polyline"`
}

// Load reads and parses a configuration file.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a YAML (or JSON) document, applies defaults and validates
// the result. Validation failures wrap snake.ErrInvalidInput.
func Parse(data []byte) (*Params, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var missing []string
	req := func(name string, v *float64) float64 {
		if v == nil {
			missing = append(missing, name)
			return 0
		}
		return *v
	}
	p := &Params{
		Image:      doc.Image,
		Video:      doc.Video,
		Tension:    req("tension", doc.Tension),
		Stiffness:  req("stiffness", doc.Stiffness),
		LineWeight: req("line_weight", doc.LineWeight),
		EdgeWeight: req("edge_weight", doc.EdgeWeight),
		TermWeight: req("term_weight", doc.TermWeight),
		Atom:       req("atom", doc.Atom),
		Tick:       req("tick", doc.Tick),
		Threshold:  req("threshold", doc.Threshold),
		Closed:     doc.Closed,
		Pinned:     doc.Pinned,
		Implicit:   1,
		Iterations: DefaultIterations,
		Start:      DefaultStart,
		End:        DefaultEnd,
		Overlay:    DefaultOverlay,

		OverlayWidth: doc.Output.OverlayWidth,
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %v", snake.ErrInvalidInput, missing)
	}

	if doc.Smoothing != nil {
		p.Smoothing = *doc.Smoothing
	}
	if doc.Implicit != nil {
		p.Implicit = *doc.Implicit
	}
	if doc.Iterations != nil {
		p.Iterations = *doc.Iterations
	}
	if doc.Output.Start != "" {
		p.Start = doc.Output.Start
	}
	if doc.Output.End != "" {
		p.End = doc.Output.End
	}
	if doc.Output.Overlay != "" {
		p.Overlay = doc.Output.Overlay
	}
	if doc.Fixed && p.Pinned == 0 {
		p.Pinned = 1
	}

	if err := p.readInit(&doc); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Params) readInit(doc *document) error {
	if len(doc.Xs) != len(doc.Ys) {
		return fmt.Errorf("%w: xs has %d values, ys %d", snake.ErrInvalidInput, len(doc.Xs), len(doc.Ys))
	}
	flat := len(doc.Xs) > 0

	if doc.Init == nil {
		for i := range doc.Xs {
			p.Polyline = append(p.Polyline, curve.Pt(doc.Xs[i], doc.Ys[i]))
		}
		return nil
	}

	radial := doc.Init.Radial != nil
	poly := len(doc.Init.Polyline) > 0
	switch {
	case radial && (poly || flat), poly && flat:
		return fmt.Errorf("%w: more than one initialization given", snake.ErrInvalidInput)
	case radial:
		r := doc.Init.Radial
		p.Radial = &Radial{
			Center: curve.Pt(r.Center[0], r.Center[1]),
			Radius: r.Radius,
			Count:  r.Count,
		}
	case poly:
		for _, v := range doc.Init.Polyline {
			p.Polyline = append(p.Polyline, curve.Pt(v[0], v[1]))
		}
	}
	for i := range doc.Xs {
		p.Polyline = append(p.Polyline, curve.Pt(doc.Xs[i], doc.Ys[i]))
	}
	return nil
}

// Validate checks the parameters for consistency.
func (p *Params) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{snake.ErrInvalidInput}, args...)...)
	}

	if p.Image != "" && p.Video != "" {
		return bad("only one of image and video may be set")
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"tension", p.Tension},
		{"stiffness", p.Stiffness},
		{"line_weight", p.LineWeight},
		{"edge_weight", p.EdgeWeight},
		{"term_weight", p.TermWeight},
		{"atom", p.Atom},
		{"tick", p.Tick},
		{"threshold", p.Threshold},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return bad("%s is not finite", f.name)
		}
	}
	if p.Threshold < 0 || p.Threshold > 100 {
		return bad("threshold %g outside [0, 100]", p.Threshold)
	}
	if p.Atom <= 0 {
		return bad("atom must be positive, got %g", p.Atom)
	}
	if p.Tick < 0 {
		return bad("tick must not be negative, got %g", p.Tick)
	}
	if p.Smoothing < 0 {
		return bad("smoothing must not be negative, got %d", p.Smoothing)
	}
	if p.Implicit < 1 {
		return bad("implicit must be at least 1, got %d", p.Implicit)
	}
	if p.Pinned < 0 {
		return bad("pinned must not be negative, got %d", p.Pinned)
	}
	if p.Iterations < 0 {
		return bad("iterations must not be negative, got %d", p.Iterations)
	}
	if p.Radial != nil {
		if !p.Closed {
			return bad("radial initialization requires closed: true")
		}
		if p.Radial.Count < 3 {
			return bad("radial count must be at least 3, got %d", p.Radial.Count)
		}
		if p.Radial.Radius <= 0 {
			return bad("radial radius must be positive, got %g", p.Radial.Radius)
		}
	}
	if p.Polyline != nil && len(p.Polyline) < 2 {
		return bad("polyline needs at least 2 vertices, got %d", len(p.Polyline))
	}
	return nil
}

// Source returns the configured input path and whether it is a video. The
// path is empty when no input is configured.
func (p *Params) Source() (path string, video bool) {
	if p.Video != "" {
		return p.Video, true
	}
	return p.Image, false
}

// WithInput returns a copy of p reading from path instead of the configured
// input. Multi-frame inputs set Video.
func (p *Params) WithInput(path string, video bool) *Params {
	q := *p
	q.Image, q.Video = "", ""
	if video {
		q.Video = path
	} else {
		q.Image = path
	}
	return &q
}

// Energy returns the internal energy parameters.
func (p *Params) Energy() snake.EnergyParams {
	return snake.EnergyParams{
		Tension:   p.Tension,
		Stiffness: p.Stiffness,
		Atom:      p.Atom,
		Tick:      p.Tick,
	}
}

// Weights returns the external energy weights.
func (p *Params) Weights() snake.Weights {
	return snake.Weights{Line: p.LineWeight, Edge: p.EdgeWeight}
}

// Options returns the contour boundary policy.
func (p *Params) Options() snake.Options {
	return snake.Options{Closed: p.Closed, Pinned: p.Pinned, Implicit: p.Implicit}
}

// Init returns the configured initialization, or nil when the file leaves
// it to the interactive front end.
func (p *Params) Init() snake.Init {
	switch {
	case p.Radial != nil:
		return snake.Radial{Center: p.Radial.Center, Radius: p.Radial.Radius, Count: p.Radial.Count}
	case len(p.Polyline) > 0:
		return snake.Polyline{Vertices: p.Polyline}
	}
	return nil
}
