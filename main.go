package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/snakes/internal/config"
	"github.com/olivier-w/snakes/internal/sim"
	"github.com/olivier-w/snakes/internal/ui"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] config.yaml [input]\n\n", os.Args[0])
	flag.PrintDefaults()
}

type options struct {
	config     string
	input      string
	headless   bool
	iterations int
	logPath    string
	verbose    bool
}

func main() {
	var o options
	flag.BoolVar(&o.headless, "headless", false, "run the configured iterations and write the snapshots without a terminal UI")
	flag.IntVar(&o.iterations, "iterations", -1, "override the configured iteration count")
	flag.StringVar(&o.logPath, "log", "", "write logs to this file (the terminal UI discards them otherwise)")
	flag.BoolVar(&o.verbose, "v", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		usage()
		os.Exit(2)
	}
	o.config = flag.Arg(0)
	o.input = flag.Arg(1)

	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options) (err error) {
	closeLog, err := setupLogging(o.logPath, o.headless, o.verbose)
	if err != nil {
		return err
	}
	defer closeLog()
	defer func() {
		if err != nil {
			slog.Error("exiting", "err", err)
		}
	}()

	p, err := config.Load(o.config)
	if err != nil {
		return err
	}
	if o.iterations >= 0 {
		q := *p
		q.Iterations = o.iterations
		p = &q
	}
	if o.input != "" {
		if p, err = withInput(p, o.input); err != nil {
			return err
		}
	}

	if o.headless {
		return runHeadless(p)
	}

	var model tea.Model
	if path, _ := p.Source(); path == "" {
		model = newStartupModel(p)
	} else {
		m, err := buildModel(p)
		if err != nil {
			return err
		}
		model = m
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := program.Run()
	if m, ok := final.(ui.Model); ok {
		m.Close()
	}
	return err
}

func runHeadless(p *config.Params) error {
	src, err := openSource(p)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return sim.Headless(ctx, p, src)
}

// setupLogging installs the default slog logger. Headless runs log to
// stderr; the terminal UI owns the screen, so it logs to a file or nowhere.
func setupLogging(path string, headless, verbose bool) (func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	closer := func() {}
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	case headless:
		w = os.Stderr
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closer, nil
}
