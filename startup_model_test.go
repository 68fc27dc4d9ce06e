package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olivier-w/snakes/internal/config"
	"github.com/olivier-w/snakes/internal/ui"
)

func testParams(t *testing.T) *config.Params {
	t.Helper()
	p, err := config.Parse([]byte("tension: 0.1\nstiffness: 0.1\nline_weight: 1\nedge_weight: 1\n" +
		"term_weight: 0\natom: 1\ntick: 0.05\nthreshold: 0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStartupModelSelectionEntersOpeningPhase(t *testing.T) {
	model, cmd := newStartupModel(testParams(t)).Update(ui.BrowserSelectedMsg{Path: "cells.png"})
	if cmd == nil {
		t.Fatal("expected opening command")
	}

	startup, ok := model.(startupModel)
	if !ok {
		t.Fatalf("expected startupModel, got %T", model)
	}
	if startup.phase != phaseOpening {
		t.Fatalf("expected phaseOpening, got %v", startup.phase)
	}
	if !strings.Contains(startup.View(), "cells.png") {
		t.Fatal("expected the opening view to name the input")
	}
}

func TestStartupModelRejectsUnsupportedSelection(t *testing.T) {
	model, cmd := newStartupModel(testParams(t)).Update(ui.BrowserSelectedMsg{Path: "notes.txt"})
	if cmd != nil {
		t.Fatal("expected no command for an unsupported file")
	}
	startup := model.(startupModel)
	if startup.phase != phaseBrowse || startup.errMsg == "" {
		t.Fatalf("expected an error in the browse phase, got phase %v error %q", startup.phase, startup.errMsg)
	}
}

func TestStartupModelErrorReturnsToBrowsePhase(t *testing.T) {
	m := newStartupModel(testParams(t))
	m.phase = phaseOpening

	model, cmd := m.Update(startupResolvedMsg{err: errBoom{}})
	if cmd != nil {
		t.Fatal("expected no command on error return")
	}

	startup := model.(startupModel)
	if startup.phase != phaseBrowse {
		t.Fatalf("expected phaseBrowse, got %v", startup.phase)
	}
	if startup.errMsg == "" {
		t.Fatal("expected error message")
	}
}

func TestStartupModelHandsOverToSnakeModel(t *testing.T) {
	p, err := withInput(testParams(t), writePNG(t, 16, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := openSelectionCmd(p)().(startupResolvedMsg)
	if msg.err != nil {
		t.Fatalf("unexpected error: %v", msg.err)
	}
	defer msg.model.Close()

	m := newStartupModel(p)
	m.width, m.height = 80, 24
	model, cmd := m.Update(msg)
	if _, ok := model.(ui.Model); !ok {
		t.Fatalf("expected ui.Model, got %T", model)
	}
	if cmd == nil {
		t.Fatal("expected init and resize commands")
	}
}

func TestBuildModelMissingFile(t *testing.T) {
	p, err := withInput(testParams(t), filepath.Join(t.TempDir(), "missing.png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := buildModel(p); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestWithInputClassifies(t *testing.T) {
	p := testParams(t)
	for path, wantVideo := range map[string]bool{
		"a.png":      false,
		"clip.MP4":   true,
		"frames.lst": true,
	} {
		q, err := withInput(p, path)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", path, err)
		}
		if got, video := q.Source(); got != path || video != wantVideo {
			t.Fatalf("%s: got %q video=%v", path, got, video)
		}
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
