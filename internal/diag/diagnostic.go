package diag

import (
	"sort"

	"movecheck/internal/source"
)

// Label attaches a message to a span.
type Label struct {
	Span source.Span
	Msg  string
}

// Diagnostic is an immutable report produced by a checking pass.
type Diagnostic struct {
	Severity  Severity
	Code      Code
	Message   string // defaults to Code.Title()
	Primary   Label
	Secondary []Label
}

// New creates a diagnostic whose summary is the code title.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  code.Title(),
		Primary:  Label{Span: primary, Msg: msg},
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithSecondary returns a copy of d with one more secondary label.
func (d Diagnostic) WithSecondary(sp source.Span, msg string) Diagnostic {
	secondary := make([]Label, len(d.Secondary), len(d.Secondary)+1)
	copy(secondary, d.Secondary)
	d.Secondary = append(secondary, Label{Span: sp, Msg: msg})
	return d
}

// Labels returns the primary label followed by the secondary ones, ordered by
// source position. The primary label wins ties.
func (d Diagnostic) Labels() []Label {
	out := make([]Label, 0, 1+len(d.Secondary))
	out = append(out, d.Primary)
	out = append(out, d.Secondary...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Before(out[j].Span)
	})
	return out
}
