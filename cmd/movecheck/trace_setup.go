package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"movecheck/internal/trace"
)

// setupTracing reads the trace flags, attaches the tracer to the command
// context and returns the tracer stack for cleanup and crash dumps.
func setupTracing(cmd *cobra.Command) (*trace.Tracers, error) {
	flags := cmd.Root().PersistentFlags()

	output, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeat, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracers, err := trace.New(trace.Config{
		Level:      level,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  heartbeat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracers.Tracer))
	return tracers, nil
}

// closeTracing flushes the tracers, reporting problems on errOut.
func closeTracing(tracers *trace.Tracers, errOut io.Writer) {
	if err := tracers.Close(); err != nil {
		fmt.Fprintf(errOut, "trace: close error: %v\n", err)
	}
}

// dumpTraceRing prints the crash ring after an internal error.
func dumpTraceRing(tracers *trace.Tracers, errOut io.Writer) {
	if tracers == nil || tracers.Ring == nil {
		return
	}
	fmt.Fprintln(errOut, "--- last trace events ---")
	if err := tracers.Ring.Dump(errOut, trace.FormatText); err != nil {
		fmt.Fprintf(errOut, "trace: dump error: %v\n", err)
	}
}
