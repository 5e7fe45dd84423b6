package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fortio.org/safecast"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/observ"
	"movecheck/internal/parser"
	"movecheck/internal/sema"
	"movecheck/internal/source"
	"movecheck/internal/symbols"
	"movecheck/internal/trace"
	"movecheck/internal/types"
)

// DiagnoseStage определяет уровень диагностики
type DiagnoseStage string

const (
	DiagnoseStageSyntax DiagnoseStage = "syntax"
	DiagnoseStageNames  DiagnoseStage = "names"
	DiagnoseStageTypes  DiagnoseStage = "types"
)

// ParseStage maps a flag value to a stage; empty means types.
func ParseStage(s string) (DiagnoseStage, error) {
	switch DiagnoseStage(s) {
	case "", DiagnoseStageTypes:
		return DiagnoseStageTypes, nil
	case DiagnoseStageSyntax, DiagnoseStageNames:
		return DiagnoseStage(s), nil
	}
	return "", fmt.Errorf("unknown stage %q (expected: syntax|names|types)", s)
}

// DiagnoseOptions содержит опции для диагностики
type DiagnoseOptions struct {
	Stage          DiagnoseStage
	MaxDiagnostics int
	// FuncJobs bounds parallel function checking inside one file.
	FuncJobs      int
	EnableTimings bool
	// KeepArtifacts keeps AST, symbols and types in the result and bypasses the cache.
	KeepArtifacts bool
	Cache         *DiskCache
	Observer      PhaseObserver
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Cached  bool
	Builder *ast.Builder
	ASTFile ast.FileID
	Symbols *symbols.Result
	Sema    *sema.Result
	Timing  *observ.Report
}

// ErrInternal wraps checker defects; such a file's diagnostics are incomplete.
var ErrInternal = errors.New("internal checker error")

// diagnoseFile runs parse, resolve and type checking on an already loaded
// file. User errors land in the bag; only checker defects are returned.
func diagnoseFile(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts *DiagnoseOptions) (FileResult, error) {
	file := fs.Get(fileID)
	res := FileResult{Path: file.Path, FileID: fileID, Bag: diag.NewBag(opts.MaxDiagnostics)}

	tracer := trace.FromContext(ctx)
	fileSpan := trace.Begin(tracer, trace.ScopeModule, "check_file", trace.CurrentSpan(ctx).SpanID).
		WithExtra("path", file.Path)
	defer fileSpan.End("")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: fileSpan.ID()})

	key := cacheKey(file, opts.Stage)
	if opts.Cache != nil && !opts.KeepArtifacts {
		if items, ok := opts.Cache.Load(key, fileID); ok {
			for _, d := range items {
				res.Bag.Add(d)
			}
			res.Cached = true
			fileSpan.WithExtra("cache", "hit")
			return res, nil
		}
	}

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	phase := func(name string, run func() error) error {
		idx := -1
		if timer != nil {
			idx = timer.Begin(name)
		}
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Path: file.Path, Name: name, Status: PhaseStart})
		}
		span := trace.Begin(tracer, trace.ScopePass, name, fileSpan.ID())
		start := time.Now()
		err := run()
		span.End("")
		if timer != nil {
			timer.End(idx, fmt.Sprintf("diags=%d", res.Bag.Len()))
		}
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Path: file.Path, Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
		}
		return err
	}
	reporter := diag.BagReporter{Bag: res.Bag}

	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		maxErrors = 0
	}
	builder := ast.NewBuilder(ast.Hints{})
	var astFile ast.FileID
	_ = phase("parse", func() error {
		pr := parser.ParseFile(file, builder, parser.Options{Reporter: reporter, MaxErrors: maxErrors})
		astFile = pr.File
		return nil
	})

	var syms *symbols.Result
	if opts.Stage != DiagnoseStageSyntax {
		_ = phase("resolve", func() error {
			syms = symbols.ResolveFile(builder, astFile, symbols.ResolveOptions{Reporter: reporter})
			return nil
		})
	}

	var semaRes *sema.Result
	if opts.Stage == DiagnoseStageTypes || opts.Stage == "" {
		err := phase("sema", func() error {
			r, err := sema.Check(ctx, builder, astFile, sema.Options{
				Reporter:  reporter,
				Symbols:   syms,
				Types:     types.NewInterner(),
				Jobs:      opts.FuncJobs,
				MaxErrors: opts.MaxDiagnostics,
			})
			semaRes = &r
			return err
		})
		if err != nil {
			return res, fmt.Errorf("%w: %s: %w", ErrInternal, file.Path, err)
		}
	}

	res.Bag.Sort()
	if timer != nil {
		report := timer.Report()
		res.Timing = &report
	}
	if opts.KeepArtifacts {
		res.Builder, res.ASTFile, res.Symbols, res.Sema = builder, astFile, syms, semaRes
	} else if opts.Cache != nil {
		if err := opts.Cache.Store(key, res.Bag.Items()); err != nil {
			fileSpan.WithExtra("cache_error", err.Error())
		}
	}
	return res, nil
}
