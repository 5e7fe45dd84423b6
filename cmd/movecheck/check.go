package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"movecheck/internal/diag"
	"movecheck/internal/diagfmt"
	"movecheck/internal/driver"
	"movecheck/internal/observ"
	"movecheck/internal/project"
	"movecheck/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.move|dir>...",
	Short: "Type-check Move sources and report diagnostics",
	Long: `Check parses, resolves and type-checks every .move file under the given paths.
Settings come from the nearest movecheck.toml; flags override it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel files (0 = GOMAXPROCS)")
	checkCmd.Flags().Int("func-jobs", 1, "max parallel functions inside one file")
	checkCmd.Flags().Int("gap", diagfmt.DefaultGapThreshold, "longest run of unlabelled lines printed inside a snippet")
	checkCmd.Flags().Int("context", 0, "context lines around labelled lines")
	checkCmd.Flags().String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
	checkCmd.Flags().String("stage", "types", "last stage to run (syntax|names|types)")
	checkCmd.Flags().Bool("cache", false, "reuse diagnostics of unchanged files from the disk cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop the disk cache before checking")
	checkCmd.Flags().String("ui", "off", "progress view (auto|on|off)")
	checkCmd.Flags().Bool("dump-types", false, "print the type of every checked expression")
	checkCmd.Flags().String("config", "", "path to movecheck.toml (default: search upward from the first path)")
}

// checkSettings is the merged view of movecheck.toml and flags.
type checkSettings struct {
	format         string
	jobs           int
	funcJobs       int
	maxDiagnostics int
	gap            int
	context        int
	pathMode       string
	color          string
	cache          bool
}

func defaultSettings() checkSettings {
	return checkSettings{
		format:         "pretty",
		funcJobs:       1,
		maxDiagnostics: 100,
		gap:            diagfmt.DefaultGapThreshold,
		pathMode:       "auto",
		color:          "auto",
	}
}

// applyConfig copies every value set in cfg unless the matching flag was
// given explicitly.
func (s *checkSettings) applyConfig(cfg project.Config, changed func(name string) bool) {
	setInt := func(flag string, dst *int, v int) {
		if v != 0 && !changed(flag) {
			*dst = v
		}
	}
	setStr := func(flag string, dst *string, v string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}
	setInt("jobs", &s.jobs, cfg.Check.Jobs)
	setInt("max-diagnostics", &s.maxDiagnostics, cfg.Check.MaxDiagnostics)
	setInt("gap", &s.gap, cfg.Render.Gap)
	setInt("context", &s.context, cfg.Render.Context)
	setStr("color", &s.color, cfg.Render.Color)
	setStr("path-mode", &s.pathMode, cfg.Render.PathMode)
	setStr("format", &s.format, cfg.Render.Format)
	if cfg.Check.Cache && !changed("cache") {
		s.cache = true
	}
}

func readCheckSettings(cmd *cobra.Command) (checkSettings, error) {
	s := defaultSettings()
	flags := cmd.Flags()
	var err error
	read := func(get func() error) {
		if err == nil {
			err = get()
		}
	}
	read(func() (e error) { s.format, e = flags.GetString("format"); return })
	read(func() (e error) { s.jobs, e = flags.GetInt("jobs"); return })
	read(func() (e error) { s.funcJobs, e = flags.GetInt("func-jobs"); return })
	read(func() (e error) { s.gap, e = flags.GetInt("gap"); return })
	read(func() (e error) { s.context, e = flags.GetInt("context"); return })
	read(func() (e error) { s.pathMode, e = flags.GetString("path-mode"); return })
	read(func() (e error) { s.cache, e = flags.GetBool("cache"); return })
	read(func() (e error) { s.maxDiagnostics, e = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); return })
	read(func() (e error) { s.color, e = cmd.Root().PersistentFlags().GetString("color"); return })
	if err != nil {
		return s, fmt.Errorf("failed to read flags: %w", err)
	}
	return s, nil
}

func loadManifest(cmd *cobra.Command, firstPath string) (*project.Manifest, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if explicit != "" {
		cfg, err := project.LoadConfig(explicit)
		if err != nil {
			return nil, err
		}
		return &project.Manifest{Path: explicit, Config: cfg}, nil
	}
	m, _, err := project.LoadManifest(firstPath)
	return m, err
}

func (s checkSettings) validate() error {
	switch s.format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format %q (expected pretty|short|json)", s.format)
	}
	if _, ok := diagfmt.ParsePathMode(s.pathMode); !ok {
		return fmt.Errorf("unknown path mode %q", s.pathMode)
	}
	if s.gap < 0 || s.context < 0 || s.context > 127 || s.maxDiagnostics < 0 {
		return fmt.Errorf("negative --gap, --context or --max-diagnostics")
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	settings, err := readCheckSettings(cmd)
	if err != nil {
		return err
	}
	manifest, err := loadManifest(cmd, args[0])
	if err != nil {
		return err
	}
	if manifest != nil {
		settings.applyConfig(manifest.Config, func(name string) bool {
			return cmd.Flags().Changed(name) || cmd.Root().PersistentFlags().Changed(name)
		})
	}
	if err := settings.validate(); err != nil {
		return err
	}

	stageStr, err := cmd.Flags().GetString("stage")
	if err != nil {
		return fmt.Errorf("failed to get stage flag: %w", err)
	}
	stage, err := driver.ParseStage(stageStr)
	if err != nil {
		return err
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	dumpTypes, err := cmd.Flags().GetBool("dump-types")
	if err != nil {
		return fmt.Errorf("failed to get dump-types flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}

	tracers, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer closeTracing(tracers, cmd.ErrOrStderr())

	opts := driver.DiagnoseOptions{
		Stage:          stage,
		MaxDiagnostics: settings.maxDiagnostics,
		FuncJobs:       settings.funcJobs,
		EnableTimings:  showTimings,
		KeepArtifacts:  dumpTypes,
	}
	if settings.cache || clearCache {
		cache, err := driver.OpenDiskCache("movecheck")
		if err != nil {
			return err
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return err
			}
		}
		if settings.cache {
			opts.Cache = cache
		}
	}

	var (
		fs      *source.FileSet
		results []driver.FileResult
	)
	if shouldUseTUI(mode) {
		fs, results, err = diagnoseWithUI(cmd.Context(), args, opts, settings.jobs)
	} else {
		fs, results, err = driver.DiagnosePaths(cmd.Context(), args, opts, settings.jobs, nil)
	}
	if err != nil {
		if errors.Is(err, driver.ErrInternal) {
			dumpTraceRing(tracers, cmd.ErrOrStderr())
		}
		return err
	}

	out := cmd.OutOrStdout()
	bag := driver.MergeBags(results)
	if err := writeReport(out, bag, fs, settings); err != nil {
		return err
	}
	if dumpTypes {
		if err := writeExprTypes(out, results, fs); err != nil {
			return err
		}
	}
	if showTimings {
		writeTimings(cmd.ErrOrStderr(), results)
	}
	if driver.HasErrors(results) {
		return errFoundErrors
	}
	return nil
}

func writeReport(w io.Writer, bag *diag.Bag, fs *source.FileSet, s checkSettings) error {
	pathMode, _ := diagfmt.ParsePathMode(s.pathMode)
	switch s.format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeLabels:    true,
		})
	case "short":
		text := diag.FormatShortDiagnostics(bag.Items(), fs, false)
		if text == "" {
			return nil
		}
		_, err := io.WriteString(w, text+"\n")
		return err
	default:
		context, err := safecast.Conv[int8](s.context)
		if err != nil {
			return fmt.Errorf("--context: %w", err)
		}
		return diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:        useColor(s.color, os.Stdout),
			Context:      context,
			PathMode:     pathMode,
			GapThreshold: s.gap,
		})
	}
}

func writeExprTypes(w io.Writer, results []driver.FileResult, fs *source.FileSet) error {
	for i := range results {
		res := &results[i]
		if res.Sema == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "== %s\n", res.Path); err != nil {
			return err
		}
		err := diagfmt.FormatExprTypes(w, diagfmt.ExprTypesInput{
			Builder:   res.Builder,
			Types:     res.Sema.TypeInterner,
			ExprTypes: res.Sema.ExprTypes,
		}, fs)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeTimings(w io.Writer, results []driver.FileResult) {
	reports := make([]*observ.Report, 0, len(results))
	cached := 0
	for i := range results {
		if results[i].Cached {
			cached++
		}
		reports = append(reports, results[i].Timing)
	}
	fmt.Fprint(w, observ.Aggregate(reports).Summary())
	if cached > 0 {
		fmt.Fprintf(w, "  %d of %d files from cache\n", cached, len(results))
	}
}
