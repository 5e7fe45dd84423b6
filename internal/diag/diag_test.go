package diag

import (
	"sync"
	"testing"

	"movecheck/internal/source"
)

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		id   string
	}{
		{TypeBuiltinOpNotSupported, "E04003"},
		{TypeIncompatible, "E04007"},
		{SynUnexpectedToken, "E01002"},
		{IOLoadFileError, "E10001"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := tt.code.ID(); got != tt.id {
				t.Fatalf("ID() = %q, want %q", got, tt.id)
			}
		})
	}
	if TypeIncompatible.Category() != CategoryTyping {
		t.Fatalf("E04007 category = %d", TypeIncompatible.Category())
	}
	if TypeIncompatible.Title() != "incompatible types" {
		t.Fatalf("unexpected title %q", TypeIncompatible.Title())
	}
	if Code(4999).Title() != "unknown error" {
		t.Fatalf("unregistered code should fall back to unknown title")
	}
}

func TestLabelsOrderedBySource(t *testing.T) {
	d := NewError(TypeIncompatible, source.Span{Start: 10, End: 11}, "Incompatible arguments to '<'").
		WithSecondary(source.Span{Start: 12, End: 13}, "right").
		WithSecondary(source.Span{Start: 2, End: 4}, "left")
	labels := d.Labels()
	want := []string{"left", "Incompatible arguments to '<'", "right"}
	for i, l := range labels {
		if l.Msg != want[i] {
			t.Fatalf("label %d = %q, want %q", i, l.Msg, want[i])
		}
	}
}

func TestWithSecondaryDoesNotAlias(t *testing.T) {
	base := NewError(TypeIncompatible, source.Span{}, "x")
	a := base.WithSecondary(source.Span{Start: 1}, "a")
	b := base.WithSecondary(source.Span{Start: 2}, "b")
	if len(base.Secondary) != 0 || a.Secondary[0].Msg != "a" || b.Secondary[0].Msg != "b" {
		t.Fatalf("WithSecondary must copy: base=%v a=%v b=%v", base.Secondary, a.Secondary, b.Secondary)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewError(TypeIncompatible, source.Span{Start: 9}, "late")) {
		t.Fatal("first add rejected")
	}
	bag.Add(NewError(TypeBuiltinOpNotSupported, source.Span{Start: 3}, "early"))
	if bag.Add(NewError(TypeBuiltinOpNotSupported, source.Span{Start: 1}, "over")) {
		t.Fatal("add past limit must fail")
	}
	bag.Sort()
	items := bag.Items()
	if len(items) != 2 || items[0].Primary.Msg != "early" || items[1].Primary.Msg != "late" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if !bag.HasErrors() {
		t.Fatal("HasErrors() = false")
	}
}

func TestBagSortIsStable(t *testing.T) {
	bag := NewBag(0)
	sp := source.Span{Start: 4, End: 5}
	bag.Add(NewError(TypeBuiltinOpNotSupported, sp, "first"))
	bag.Add(NewError(TypeIncompatible, sp, "second"))
	bag.Sort()
	items := bag.Items()
	if items[0].Primary.Msg != "first" || items[1].Primary.Msg != "second" {
		t.Fatalf("equal spans must keep emission order: %+v", items)
	}
}

func TestBagConcurrentAdd(t *testing.T) {
	bag := NewBag(0)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 50 {
				bag.Add(NewError(TypeIncompatible, source.Span{Start: uint32(i*100 + j)}, "x"))
			}
		}(i)
	}
	wg.Wait()
	if bag.Len() != 400 {
		t.Fatalf("Len() = %d, want 400", bag.Len())
	}
	if bag.CountByCode(TypeIncompatible) != 400 {
		t.Fatalf("CountByCode mismatch")
	}
}

func TestBagMerge(t *testing.T) {
	a, b := NewBag(0), NewBag(0)
	a.Add(NewError(TypeIncompatible, source.Span{}, "a"))
	b.Add(NewError(TypeIncompatible, source.Span{}, "b"))
	a.Merge(b)
	a.Merge(a)
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	var r SliceReporter
	b := ReportError(&r, TypeBuiltinOpNotSupported, source.Span{Start: 1, End: 2}, "Invalid argument to '+'").
		WithSecondary(source.Span{Start: 1, End: 2}, "Found: 'bool'")
	b.Emit()
	b.Emit()
	if len(r.Items) != 1 {
		t.Fatalf("emitted %d times", len(r.Items))
	}
	d := r.Items[0]
	if d.Message != "built-in operation not supported" || len(d.Secondary) != 1 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/work")
	id := fs.AddVirtual("/work/m.move", []byte("module M {\n  fun f() { 0 < true; }\n}\n"))
	d := NewError(TypeBuiltinOpNotSupported, source.Span{File: id, Start: 27, End: 31}, "Invalid argument to '<'").
		WithSecondary(source.Span{File: id, Start: 27, End: 31}, "Found: 'bool'.\nBut expected: 'u8'")
	got := FormatShortDiagnostics([]Diagnostic{d}, fs, true)
	want := "error E04003 m.move:2:17 Invalid argument to '<'\n" +
		"note E04003 m.move:2:17 Found: 'bool'. But expected: 'u8'"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
