package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"movecheck/internal/driver"
	"movecheck/internal/source"
	"movecheck/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// the progress view draws on stderr so that stdout stays clean for reports
func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}

type diagnoseOutcome struct {
	fs      *source.FileSet
	results []driver.FileResult
	err     error
}

// diagnoseWithUI runs the driver while a Bubble Tea view follows it.
func diagnoseWithUI(ctx context.Context, paths []string, opts driver.DiagnoseOptions, jobs int) (*source.FileSet, []driver.FileResult, error) {
	files, err := driver.ListSourceFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	for i := range files {
		files[i] = filepath.ToSlash(files[i])
	}

	events := make(chan ui.Event, 256)
	outcomeCh := make(chan diagnoseOutcome, 1)
	opts.Observer = func(ev driver.PhaseEvent) {
		if ev.Status == driver.PhaseStart {
			events <- ui.Event{File: ev.Path, Phase: ev.Name, Status: ui.StatusWorking}
		}
	}
	progress := func(_, _ int, res *driver.FileResult) {
		status := ui.StatusDone
		if res.Bag.HasErrors() {
			status = ui.StatusError
		}
		events <- ui.Event{File: filepath.ToSlash(res.Path), Status: status, Diagnostics: res.Bag.Len()}
	}

	go func() {
		fs, results, err := driver.DiagnosePaths(ctx, paths, opts, jobs, progress)
		outcomeCh <- diagnoseOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// view may quit early (ctrl+c); keep draining so workers never block
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
