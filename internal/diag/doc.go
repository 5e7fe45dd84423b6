// Package diag defines the diagnostic model shared by all checking phases.
//
// A Diagnostic carries a stable Code (E<category><number>, category 04 is
// typing), a severity, a summary line, one primary Label and any number of
// secondary Labels. A Label is a span plus a short message; secondary labels
// usually point at the place where an operand's type was established, which
// may be a declaration far from the use site.
//
// Producers emit through a Reporter. BagReporter appends into a Bag, which is
// append-only and safe for concurrent use so that parallel function checks can
// share one sink or be merged afterwards. Bag.Sort orders by primary span and
// keeps emission order for equal spans.
//
// Package diag performs no rendering; see internal/diagfmt. The short
// one-line-per-entry form in golden.go exists for tests and `--format short`.
package diag
