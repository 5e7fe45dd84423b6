package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) the file span is within the content bounds
// 2) every module span lies inside the file span
// 3) every item span is non-empty and lies inside its module span
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	if err := inBounds(f.Span, sf); err != nil {
		return fmt.Errorf("file span: %w", err)
	}

	for _, mid := range f.Modules {
		m := b.Files.Module(mid)
		if m == nil {
			return fmt.Errorf("nil module for id=%d", mid)
		}
		if !f.Span.Contains(m.Span) {
			return fmt.Errorf("module %s span %v is outside file span %v", m.Name, m.Span, f.Span)
		}
		for _, it := range m.Items {
			item := b.Items.Get(it)
			if item == nil {
				return fmt.Errorf("nil item for id=%d", it)
			}
			if item.Span.Empty() {
				return fmt.Errorf("empty item span: %v", item.Span)
			}
			if !m.Span.Contains(item.Span) {
				return fmt.Errorf("item %s span %v is outside module span %v", item.Name, item.Span, m.Span)
			}
			if !item.Span.Contains(item.NameSpan) {
				return fmt.Errorf("item %s name span %v is outside %v", item.Name, item.NameSpan, item.Span)
			}
		}
	}
	return nil
}

// CheckDiagnosticInvariants verifies that every label of every diagnostic
// points into a loaded file, and that a diagnostic with labels has a
// non-empty message on each secondary label.
func CheckDiagnosticInvariants(diags []diag.Diagnostic, fs *source.FileSet) error {
	for i, d := range diags {
		if d.Code == diag.UnknownCode {
			return fmt.Errorf("diagnostic %d has no code", i)
		}
		if d.Message == "" {
			return fmt.Errorf("diagnostic %d (%s) has an empty message", i, d.Code.ID())
		}
		if d.Code == diag.IOLoadFileError {
			continue
		}
		labels := append([]diag.Label{d.Primary}, d.Secondary...)
		for j, l := range labels {
			f := fs.Get(l.Span.File)
			if f == nil {
				return fmt.Errorf("%s label %d: unknown file %d", d.Code.ID(), j, l.Span.File)
			}
			if err := inBounds(l.Span, f); err != nil {
				return fmt.Errorf("%s label %d: %w", d.Code.ID(), j, err)
			}
			if j > 0 && l.Msg == "" {
				return fmt.Errorf("%s secondary label %d has no message", d.Code.ID(), j)
			}
		}
	}
	return nil
}

func inBounds(sp source.Span, f *source.File) error {
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span %v", sp)
	}
	if sp.End > size {
		return fmt.Errorf("span end beyond content: %d > %d", sp.End, size)
	}
	return nil
}
