package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"movecheck/internal/diag"
	"movecheck/internal/source"
)

// Pretty renders every diagnostic of bag in bag order (call bag.Sort() first
// for source order), separated by blank lines.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := Render(w, d, fs, opts); err != nil {
			return err
		}
	}
	return nil
}

// Render writes one diagnostic as a header followed by annotated snippets:
//
//	error[E04003]: built-in operation not supported
//	  ┌─ m.move:2:13
//	  │
//	2 │   fun f() { 0 < true; }
//	  │             ^ Invalid argument to '<'
//
// Labels are shown in source order. Labels sharing a line share one snippet
// line; lines further apart than the gap threshold are joined by `·`.
func Render(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	var b strings.Builder

	b.WriteString(pal.severity(d.Severity).Sprintf("%s[%s]", d.Severity.Label(), d.Code.ID()))
	b.WriteString(pal.bold.Sprintf(": %s", d.Message))
	b.WriteByte('\n')

	groups := groupLabels(d, fs)
	gutter := 1
	for _, g := range groups {
		gutter = max(gutter, len(strconv.Itoa(int(g.lastLine(opts)))))
	}
	r := &snippetWriter{b: &b, pal: pal, pad: strings.Repeat(" ", gutter), gutter: gutter}
	for _, g := range groups {
		r.writeGroup(g, fs, opts)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// markedLabel is a label resolved to a line and display columns.
type markedLabel struct {
	primary  bool
	span     source.Span
	line     uint32
	startCol int
	endCol   int
	msgs     []string
}

// fileGroup holds the labels of one file. The primary file comes first.
type fileGroup struct {
	file   *source.File
	anchor source.Span
	lines  map[uint32][]*markedLabel
	order  []uint32
}

func (g *fileGroup) lastLine(opts PrettyOpts) uint32 {
	if len(g.order) == 0 {
		return 1
	}
	last := g.order[len(g.order)-1]
	if ctx := contextLines(opts); ctx > 0 && g.file != nil {
		last = min(last+ctx, g.file.LineCount())
	}
	return last
}

func contextLines(opts PrettyOpts) uint32 {
	if opts.Context <= 0 {
		return 0
	}
	return uint32(opts.Context)
}

func groupLabels(d diag.Diagnostic, fs *source.FileSet) []*fileGroup {
	type entry struct {
		label   diag.Label
		primary bool
	}
	entries := make([]entry, 0, 1+len(d.Secondary))
	entries = append(entries, entry{label: d.Primary, primary: true})
	for _, l := range d.Secondary {
		entries = append(entries, entry{label: l})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].label.Span.Before(entries[j].label.Span)
	})

	var groups []*fileGroup
	byFile := make(map[source.FileID]*fileGroup)
	get := func(id source.FileID) *fileGroup {
		if g, ok := byFile[id]; ok {
			return g
		}
		g := &fileGroup{file: fs.Get(id), lines: make(map[uint32][]*markedLabel)}
		byFile[id] = g
		groups = append(groups, g)
		return g
	}
	// файл основной метки идёт первым
	get(d.Primary.Span.File).anchor = d.Primary.Span

	for _, e := range entries {
		g := get(e.label.Span.File)
		if g.file == nil {
			continue
		}
		if g.anchor == (source.Span{}) {
			g.anchor = e.label.Span
		}
		line, startCol, endCol := labelColumns(g.file, fs, e.label.Span)
		merged := false
		for _, existing := range g.lines[line] {
			if existing.span == e.label.Span {
				existing.primary = existing.primary || e.primary
				if e.label.Msg != "" {
					if e.primary {
						existing.msgs = append([]string{e.label.Msg}, existing.msgs...)
					} else {
						existing.msgs = append(existing.msgs, e.label.Msg)
					}
				}
				merged = true
				break
			}
		}
		if merged {
			continue
		}
		ml := &markedLabel{primary: e.primary, span: e.label.Span, line: line, startCol: startCol, endCol: endCol}
		if e.label.Msg != "" {
			ml.msgs = []string{e.label.Msg}
		}
		if _, seen := g.lines[line]; !seen {
			g.order = append(g.order, line)
		}
		g.lines[line] = append(g.lines[line], ml)
	}

	for _, g := range groups {
		sort.Slice(g.order, func(i, j int) bool { return g.order[i] < g.order[j] })
		for _, labels := range g.lines {
			sort.SliceStable(labels, func(i, j int) bool { return labels[i].startCol < labels[j].startCol })
		}
	}
	return groups
}

// labelColumns maps a span to its first line and display columns. Spans
// running past the end of that line are clipped to it.
func labelColumns(f *source.File, fs *source.FileSet, sp source.Span) (line uint32, startCol, endCol int) {
	start, end := fs.Resolve(sp)
	line = start.Line
	text := f.GetLine(line)
	lineStart := f.LineStart(line)

	startOff := clampOffset(sp.Start, lineStart, len(text))
	endOff := len(text)
	if end.Line == start.Line {
		endOff = clampOffset(sp.End, lineStart, len(text))
	}
	startCol = displayWidth(text[:startOff])
	endCol = displayWidth(text[:endOff])
	if endCol <= startCol {
		endCol = startCol + 1
	}
	return line, startCol, endCol
}

func clampOffset(off, lineStart uint32, lineLen int) int {
	if off <= lineStart {
		return 0
	}
	rel, err := safecast.Conv[int](off - lineStart)
	if err != nil || rel > lineLen {
		return lineLen
	}
	return rel
}

type snippetWriter struct {
	b      *strings.Builder
	pal    palette
	pad    string
	gutter int
}

func (r *snippetWriter) writeGroup(g *fileGroup, fs *source.FileSet, opts PrettyOpts) {
	if g.file == nil || len(g.order) == 0 {
		return
	}
	loc, _ := fs.Resolve(g.anchor)
	fmt.Fprintf(r.b, "%s %s %s:%d:%d\n", r.pad, r.pal.gutter.Sprint("┌─"), formatPath(g.file, fs, opts.PathMode), loc.Line, loc.Col)
	r.emptyGutter()

	ctx := contextLines(opts)
	first := g.order[0]
	for n := first - min(ctx, first-1); n < first; n++ {
		r.sourceLine(g.file, n)
	}

	threshold, err := safecast.Conv[uint32](opts.gap())
	if err != nil {
		threshold = DefaultGapThreshold
	}
	for i, line := range g.order {
		if i > 0 {
			prev := g.order[i-1]
			if line-prev > threshold {
				fmt.Fprintf(r.b, "%s %s\n", r.pad, r.pal.gutter.Sprint("·"))
			} else {
				for n := prev + 1; n < line; n++ {
					r.sourceLine(g.file, n)
				}
			}
		}
		r.sourceLine(g.file, line)
		r.labelRows(g.lines[line])
	}

	last := g.order[len(g.order)-1]
	for n := last + 1; n <= min(last+ctx, g.file.LineCount()); n++ {
		r.sourceLine(g.file, n)
	}
}

func (r *snippetWriter) emptyGutter() {
	fmt.Fprintf(r.b, "%s %s\n", r.pad, r.pal.gutter.Sprint("│"))
}

func (r *snippetWriter) sourceLine(f *source.File, n uint32) {
	num := fmt.Sprintf("%*d", r.gutter, n)
	text := expandTabs(f.GetLine(n))
	if text == "" {
		fmt.Fprintf(r.b, "%s %s\n", r.pal.gutter.Sprint(num), r.pal.gutter.Sprint("│"))
		return
	}
	fmt.Fprintf(r.b, "%s %s %s\n", r.pal.gutter.Sprint(num), r.pal.gutter.Sprint("│"), text)
}

// hanging is a label message printed below the underline row.
type hanging struct {
	col     int
	primary bool
	msg     string
}

// labelRows writes the underline row for one source line, the trailing
// message of the rightmost label and the hanging messages of the others.
// A rightmost label carrying several merged messages gets a bare underline;
// its messages are stacked on the rows right below it.
func (r *snippetWriter) labelRows(labels []*markedLabel) {
	width := 0
	for _, l := range labels {
		width = max(width, l.endCol)
	}
	row := newCanvas(width)
	// основные метки рисуются последними и перекрывают второстепенные
	for pass := 0; pass < 2; pass++ {
		for _, l := range labels {
			if l.primary != (pass == 1) {
				continue
			}
			mark := '-'
			if l.primary {
				mark = '^'
			}
			row.fill(l.startCol, l.endCol, mark, styleFor(l.primary))
		}
	}

	trailing := labels[len(labels)-1]
	stacked := len(trailing.msgs) > 1
	var hangs []hanging
	for _, l := range labels[:len(labels)-1] {
		for _, msg := range l.msgs {
			hangs = append(hangs, hanging{col: l.startCol, primary: l.primary, msg: msg})
		}
	}
	if stacked {
		for _, msg := range trailing.msgs {
			hangs = append(hangs, hanging{col: trailing.startCol, primary: trailing.primary, msg: msg})
		}
	}

	line := row.render(r.pal)
	if len(trailing.msgs) == 1 {
		line += " " + r.pal.style(styleFor(trailing.primary)).Sprint(trailing.msgs[0])
	}
	r.labelRow(line)
	if len(hangs) == 0 {
		return
	}

	// справа налево: сообщение правой метки печатается первым
	sort.SliceStable(hangs, func(i, j int) bool { return hangs[i].col > hangs[j].col })
	cols := make([]int, 0, len(hangs))
	for _, h := range hangs {
		if len(cols) == 0 || cols[len(cols)-1] != h.col {
			cols = append(cols, h.col)
		}
	}

	if !stacked {
		conn := newCanvas(width)
		for _, c := range cols {
			conn.fill(c, c+1, '│', styleGutter)
		}
		r.labelRow(conn.render(r.pal))
	}

	for _, h := range hangs {
		msgRow := newCanvas(h.col)
		for _, c := range cols {
			if c < h.col {
				msgRow.fill(c, c+1, '│', styleGutter)
			}
		}
		r.labelRow(msgRow.render(r.pal) + r.pal.style(styleFor(h.primary)).Sprint(h.msg))
	}
}

func (r *snippetWriter) labelRow(content string) {
	fmt.Fprintf(r.b, "%s %s %s\n", r.pad, r.pal.gutter.Sprint("│"), strings.TrimRight(content, " "))
}
