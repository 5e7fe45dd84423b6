package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"movecheck/internal/prof"
	"movecheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "movecheck",
	Short:         "Type checker and diagnostics for Move sources",
	Long:          `movecheck type-checks the expressions of Move modules and reports errors with annotated source snippets`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// errFoundErrors is returned by check when diagnostics contain errors; it
// only sets the exit status.
var errFoundErrors = errors.New("errors found")

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 0, "keep the last N events for a dump on internal errors (0 = off)")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("exectrace", "", "write a Go execution trace to this file")

	rootCmd.PersistentPreRunE = startProfiling
	rootCmd.PersistentPostRunE = stopProfiling
}

var profSession *prof.Session

func startProfiling(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return err
	}
	if opts.Mem, err = flags.GetString("memprofile"); err != nil {
		return err
	}
	if opts.ExecTrace, err = flags.GetString("exectrace"); err != nil {
		return err
	}
	if opts == (prof.Options{}) {
		return nil
	}
	profSession, err = prof.Start(opts)
	return err
}

// cobra skips PersistentPostRunE when RunE fails; main stops the session too
func stopProfiling(*cobra.Command, []string) error {
	err := profSession.Stop()
	profSession = nil
	return err
}

func main() {
	err := rootCmd.Execute()
	if stopErr := stopProfiling(nil, nil); stopErr != nil && err == nil {
		err = stopErr
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFoundErrors):
		return 1
	default:
		fmt.Fprintf(os.Stderr, "movecheck: %v\n", err)
		return 2
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the terminal state of f.
func useColor(mode string, f *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}
