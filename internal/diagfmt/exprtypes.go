package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"movecheck/internal/ast"
	"movecheck/internal/source"
	"movecheck/internal/types"
)

// ExprTypesInput carries what a type dump needs.
type ExprTypesInput struct {
	Builder   *ast.Builder
	Types     *types.Interner
	ExprTypes map[ast.ExprID]types.TypeID
}

// FormatExprTypes prints every checked expression with its resolved type,
// in source order (outer expressions before the ones they contain).
func FormatExprTypes(w io.Writer, in ExprTypesInput, fs *source.FileSet) error {
	type row struct {
		span source.Span
		text string
		typ  string
	}
	rows := make([]row, 0, len(in.ExprTypes))
	for id, t := range in.ExprTypes {
		expr := in.Builder.Exprs.Get(id)
		if expr == nil {
			continue
		}
		text := strings.Join(strings.Fields(fs.Slice(expr.Span)), " ")
		rows = append(rows, row{span: expr.Span, text: text, typ: types.Label(in.Types, t)})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].span, rows[j].span
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})
	for _, r := range rows {
		pos, _ := fs.Resolve(r.span)
		if _, err := fmt.Fprintf(w, "%d:%d\t%s\t: %s\n", pos.Line, pos.Col, r.text, r.typ); err != nil {
			return err
		}
	}
	return nil
}
