package diagfmt

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"movecheck/internal/diag"
	"movecheck/internal/source"
)

func spanOf(t *testing.T, fs *source.FileSet, id source.FileID, needle string, nth int) source.Span {
	t.Helper()
	content := string(fs.Get(id).Content)
	off := -1
	for i := 0; i <= nth; i++ {
		next := strings.Index(content[off+1:], needle)
		if next < 0 {
			t.Fatalf("%q occurrence %d not found", needle, nth)
		}
		off += next + 1
	}
	return source.Span{File: id, Start: uint32(off), End: uint32(off + len(needle))}
}

func render(t *testing.T, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, d, fs, opts); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestRenderMergedLabels(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.move", []byte("module M {\n  fun f() { 0 < true; }\n}\n"))
	sp := spanOf(t, fs, id, "true", 0)
	d := diag.NewError(diag.TypeBuiltinOpNotSupported, sp, "Invalid argument to '<'").
		WithSecondary(sp, "Found: 'bool'. But expected: 'u8', 'u16', 'u32', 'u64', 'u128', 'u256'")

	want := strings.Join([]string{
		"error[E04003]: built-in operation not supported",
		"  ┌─ m.move:2:17",
		"  │",
		"2 │   fun f() { 0 < true; }",
		"  │                 ^^^^",
		"  │                 Invalid argument to '<'",
		"  │                 Found: 'bool'. But expected: 'u8', 'u16', 'u32', 'u64', 'u128', 'u256'",
		"",
	}, "\n")
	if got := render(t, d, fs, PrettyOpts{PathMode: PathModeBasename}); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderInvalidArgumentPerOperand(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.move", []byte("module M {\n  fun f() { false < true; }\n}\n"))
	found := "Found: 'bool'. But expected: 'u8', 'u16', 'u32', 'u64', 'u128', 'u256'"

	tests := []struct {
		operand string
		col     int
	}{
		{"false", 13},
		{"true", 21},
	}
	for _, tt := range tests {
		t.Run(tt.operand, func(t *testing.T) {
			sp := spanOf(t, fs, id, tt.operand, 0)
			d := diag.NewError(diag.TypeBuiltinOpNotSupported, sp, "Invalid argument to '<'").
				WithSecondary(sp, found)
			indent := strings.Repeat(" ", tt.col-1)
			want := strings.Join([]string{
				"error[E04003]: built-in operation not supported",
				"  ┌─ m.move:2:" + strconv.Itoa(tt.col),
				"  │",
				"2 │   fun f() { false < true; }",
				"  │ " + indent + strings.Repeat("^", len(tt.operand)),
				"  │ " + indent + "Invalid argument to '<'",
				"  │ " + indent + found,
				"",
			}, "\n")
			if got := render(t, d, fs, PrettyOpts{PathMode: PathModeBasename}); got != want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestRenderSharedLine(t *testing.T) {
	fs := source.NewFileSet()
	src := "module M {\n  fun f(a: u8, b: u64): bool {\n    a < b\n  }\n}\n"
	id := fs.AddVirtual("m.move", []byte(src))
	d := diag.NewError(diag.TypeIncompatible, spanOf(t, fs, id, "<", 0), "Incompatible arguments to '<'").
		WithSecondary(spanOf(t, fs, id, "u8", 0), "Found: 'u8'. It is not compatible with the other type.").
		WithSecondary(spanOf(t, fs, id, "u64", 0), "Found: 'u64'. It is not compatible with the other type.")

	want := strings.Join([]string{
		"error[E04007]: incompatible types",
		"  ┌─ m.move:3:7",
		"  │",
		"2 │   fun f(a: u8, b: u64): bool {",
		"  │            --     --- Found: 'u64'. It is not compatible with the other type.",
		"  │            │",
		"  │            Found: 'u8'. It is not compatible with the other type.",
		"3 │     a < b",
		"  │       ^ Incompatible arguments to '<'",
		"",
	}, "\n")
	if got := render(t, d, fs, PrettyOpts{PathMode: PathModeBasename}); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderGapSeparator(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("module M {\n  fun f(flag: bool) {\n")
	for i := 0; i < 6; i++ {
		sb.WriteString("    let v" + strconv.Itoa(i) + " = 1;\n")
	}
	sb.WriteString("    flag < 1;\n  }\n}\n")
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.move", []byte(sb.String()))
	d := diag.NewError(diag.TypeBuiltinOpNotSupported, spanOf(t, fs, id, "flag", 1), "Invalid argument to '<'").
		WithSecondary(spanOf(t, fs, id, "bool", 0), "Found: 'bool'. But expected: 'u8'")

	tests := []struct {
		name      string
		gap       int
		separator bool
	}{
		{"default threshold collapses", 0, true},
		{"wide threshold prints lines", 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, d, fs, PrettyOpts{GapThreshold: tt.gap})
			hasSep := strings.Contains(out, "\n  ·\n")
			if hasSep != tt.separator {
				t.Fatalf("separator = %v, output:\n%s", hasSep, out)
			}
			if tt.separator == strings.Contains(out, "let v3") {
				t.Fatalf("intervening lines printed = %v, output:\n%s", !tt.separator, out)
			}
			if strings.Index(out, "bool") > strings.Index(out, "flag < 1") {
				t.Fatalf("labels not in source order:\n%s", out)
			}
		})
	}
}

func TestRenderShortGapPrintsIntervening(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.move", []byte("module M {\n  fun f(a: bool) {\n    let x = 1;\n    a + x;\n  }\n}\n"))
	d := diag.NewError(diag.TypeBuiltinOpNotSupported, spanOf(t, fs, id, "a", 1), "Invalid argument to '+'").
		WithSecondary(spanOf(t, fs, id, "bool", 0), "Found: 'bool'.")
	out := render(t, d, fs, PrettyOpts{})
	if !strings.Contains(out, "3 │     let x = 1;\n4 │     a + x;") {
		t.Fatalf("expected intervening line, got:\n%s", out)
	}
	if strings.Contains(out, "·") {
		t.Fatalf("unexpected separator:\n%s", out)
	}
}

func TestRenderWideCharacters(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.move", []byte("日本 < true\n"))
	d := diag.NewError(diag.TypeBuiltinOpNotSupported, spanOf(t, fs, id, "true", 0), "bad")
	out := render(t, d, fs, PrettyOpts{})
	if !strings.Contains(out, "  │        ^^^^ bad\n") {
		t.Fatalf("underline not aligned by display width:\n%s", out)
	}
}

func TestRenderColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.move", []byte("0 < true\n"))
	d := diag.NewError(diag.TypeBuiltinOpNotSupported, spanOf(t, fs, id, "true", 0), "bad")
	if out := render(t, d, fs, PrettyOpts{Color: true}); !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected ANSI escapes:\n%q", out)
	}
	if out := render(t, d, fs, PrettyOpts{}); strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected ANSI escapes:\n%q", out)
	}
}

// Подчёркнутый фрагмент совпадает с текстом основного спана.
func TestPrimaryUnderlineRoundTrips(t *testing.T) {
	fs := source.NewFileSet()
	src := "module M {\n  fun f() {\n    0 < 1 < 2;\n    (0, 1) < (0, 1, 2);\n  }\n}\n"
	id := fs.AddVirtual("m.move", []byte(src))
	spans := []source.Span{
		spanOf(t, fs, id, "0 < 1", 0),
		spanOf(t, fs, id, "<", 1),
		spanOf(t, fs, id, "(0, 1, 2)", 0),
	}
	for _, sp := range spans {
		d := diag.NewError(diag.TypeIncompatible, sp, "x")
		out := render(t, d, fs, PrettyOpts{})
		lines := strings.Split(out, "\n")
		var got string
		for i, l := range lines {
			if !strings.HasPrefix(l, "  │ ") || !strings.Contains(l, "^") || i == 0 {
				continue
			}
			srcLine := strings.SplitN(lines[i-1], " │ ", 2)[1]
			row := strings.TrimPrefix(l, "  │ ")
			start := strings.Index(row, "^")
			end := strings.LastIndex(row, "^") + 1
			got = srcLine[start:end]
		}
		if want := fs.Slice(sp); got != want {
			t.Fatalf("underlined %q, want %q", got, want)
		}
	}
}

func TestPrettyBag(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.move", []byte("0 < true\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.TypeBuiltinOpNotSupported, spanOf(t, fs, id, "true", 0), "a"))
	bag.Add(diag.NewError(diag.TypeIncompatible, spanOf(t, fs, id, "<", 0), "b"))
	bag.Sort()
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Index(out, "E04007") > strings.Index(out, "E04003") {
		t.Fatalf("bag order not kept:\n%s", out)
	}
	if !strings.Contains(out, "\n\nerror[E04003]") {
		t.Fatalf("diagnostics not separated:\n%s", out)
	}
}

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.move", []byte("0 < true\n"))
	bag := diag.NewBag(0)
	sp := spanOf(t, fs, id, "true", 0)
	bag.Add(diag.NewError(diag.TypeBuiltinOpNotSupported, sp, "Invalid argument to '<'").
		WithSecondary(sp, "Found: 'bool'."))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeLabels: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	got := out.Diagnostics[0]
	if got.Code != "E04003" || got.Label != "Invalid argument to '<'" || got.Location.StartCol != 5 || got.Location.File != "m.move" {
		t.Fatalf("unexpected diagnostic %+v", got)
	}
	if len(got.Labels) != 1 || got.Labels[0].Message != "Found: 'bool'." {
		t.Fatalf("labels = %+v", got.Labels)
	}
}
