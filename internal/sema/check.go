package sema

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/symbols"
	"movecheck/internal/trace"
	"movecheck/internal/types"
)

// Options configure a semantic pass over a single AST file.
type Options struct {
	Reporter diag.Reporter
	Symbols  *symbols.Result
	Types    *types.Interner
	// Jobs bounds how many function bodies are checked at once; <=0 means 1.
	Jobs int
	// MaxErrors caps diagnostics collected per function; 0 means unlimited.
	MaxErrors int
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	TypeInterner *types.Interner
	// ExprTypes holds the fully resolved type of every checked expression.
	ExprTypes map[ast.ExprID]types.TypeID
}

type fnOutcome struct {
	bag       *diag.Bag
	exprTypes map[ast.ExprID]types.TypeID
}

// Check type-checks every function body of the file. User errors become
// diagnostics and never stop the pass; the returned error is reserved for
// checker defects such as an escaped type variable.
//
// Bodies are independent and may be checked concurrently; diagnostics are
// forwarded to opts.Reporter in declaration order either way.
func Check(ctx context.Context, builder *ast.Builder, fileID ast.FileID, opts Options) (Result, error) {
	in := opts.Types
	if in == nil {
		in = types.NewInterner()
	}
	res := Result{
		TypeInterner: in,
		ExprTypes:    make(map[ast.ExprID]types.TypeID),
	}
	if builder == nil || opts.Symbols == nil {
		return res, nil
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}

	tracer := trace.FromContext(ctx)
	passSpan := trace.Begin(tracer, trace.ScopePass, "sema_check", trace.CurrentSpan(ctx).SpanID)
	defer passSpan.End("")

	sigs := lowerSignatures(builder, fileID, opts.Symbols, in, reporter)
	fns := builder.Functions(fileID)
	passSpan.WithExtra("functions", strconv.Itoa(len(fns)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	outcomes := make([]fnOutcome, len(fns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, itemID := range fns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sig := sigs[itemID]
			fnSpan := trace.Begin(tracer, trace.ScopeNode, "check_fn", passSpan.ID())
			if sig != nil {
				fnSpan.WithExtra("fn", sig.Name)
			}
			defer fnSpan.End("")

			bag := diag.NewBag(opts.MaxErrors)
			tc := newTypeChecker(builder, opts.Symbols, in, sigs, diag.BagReporter{Bag: bag})
			err := tc.checkFunction(itemID)
			outcomes[i] = fnOutcome{bag: bag, exprTypes: tc.exprTypes}
			return err
		})
	}
	err := g.Wait()

	for _, out := range outcomes {
		if out.bag != nil {
			for _, d := range out.bag.Items() {
				reporter.Report(d)
			}
		}
		for id, t := range out.exprTypes {
			res.ExprTypes[id] = t
		}
	}
	if err != nil {
		return res, fmt.Errorf("sema: %w", err)
	}
	return res, nil
}
