package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func keepDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestRunReturnsErrorsAndLogsThem(t *testing.T) {
	keepDefaultLogger(t)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "snakes.log")

	err := run(options{config: filepath.Join(dir, "missing.yaml"), headless: true, logPath: logPath, iterations: -1})
	if err == nil {
		t.Fatal("expected an error for a missing config")
	}

	data, readErr := os.ReadFile(logPath)
	if readErr != nil {
		t.Fatalf("unexpected error: %v", readErr)
	}
	if !strings.Contains(string(data), "msg=exiting") || !strings.Contains(string(data), "failed to read config file") {
		t.Fatalf("expected the failure in the log, got %q", data)
	}
}

func TestRunRejectsUnsupportedInput(t *testing.T) {
	keepDefaultLogger(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "snakes.yaml")
	doc := "tension: 0.1\nstiffness: 0.1\nline_weight: 1\nedge_weight: 1\n" +
		"term_weight: 0\natom: 1\ntick: 0.05\nthreshold: 0\n"
	if err := os.WriteFile(cfg, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	err := run(options{config: cfg, input: filepath.Join(dir, "notes.txt"), headless: true, iterations: -1})
	if err == nil {
		t.Fatal("expected an error for an unsupported input")
	}
}
