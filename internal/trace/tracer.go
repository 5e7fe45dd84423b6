package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer receives trace events. Emit must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// Config describes the tracer built by New.
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer // если nil, используется OutputPath
	OutputPath string    // "-" или "" означает stderr
	RingSize   int       // 0 disables the crash ring
	Heartbeat  time.Duration
}

// Tracers is what New builds: the tracer to attach to the context and,
// when configured, the ring to dump after an internal error.
type Tracers struct {
	Tracer    Tracer
	Ring      *RingTracer
	heartbeat *Heartbeat
}

// New builds the tracer stack for cfg. At LevelError events only go to
// the ring; nothing is streamed.
func New(cfg Config) (*Tracers, error) {
	out := &Tracers{Tracer: Nop}
	if cfg.Level == LevelOff {
		return out, nil
	}
	var tracers []Tracer
	if cfg.RingSize > 0 || cfg.Level == LevelError {
		out.Ring = NewRingTracer(cfg.RingSize, cfg.Level)
		tracers = append(tracers, out.Ring)
	}
	if cfg.Level > LevelError {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		format := cfg.Format
		if format == FormatAuto {
			format = FormatText
			if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".json") {
				format = FormatNDJSON
			}
		}
		tracers = append(tracers, NewStreamTracer(w, cfg.Level, format))
	}
	if len(tracers) == 1 {
		out.Tracer = tracers[0]
	} else {
		out.Tracer = NewMultiTracer(cfg.Level, tracers...)
	}
	out.heartbeat = StartHeartbeat(out.Tracer, cfg.Heartbeat)
	return out, nil
}

// Close stops the heartbeat and closes the tracers.
func (t *Tracers) Close() error {
	if t == nil {
		return nil
	}
	t.heartbeat.Stop()
	return t.Tracer.Close()
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// stderr не закрываем
type nopCloser struct{ io.Writer }

// Nop discards everything.
var Nop Tracer = nopTracer{}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// MultiTracer fans events out to several tracers.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{tracers: tracers, level: level}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		// каждому трейсеру своя копия: они проставляют Seq
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error {
	var firstErr error
	for _, tr := range t.tracers {
		if err := tr.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *MultiTracer) Close() error {
	var firstErr error
	for _, tr := range t.tracers {
		if err := tr.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }
