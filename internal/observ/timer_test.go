package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("parse")
	tm.End(a, "diags=0")
	b := tm.Begin("sema")
	tm.End(b, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[0].Note != "diags=0" {
		t.Fatalf("report = %+v", r)
	}
	if (&Timer{}).Report().Phases != nil {
		t.Fatal("empty timer produced phases")
	}
}

func TestAggregate(t *testing.T) {
	r1 := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1, Files: 1}, {Name: "sema", DurationMS: 2, Files: 1}}}
	r2 := Report{TotalMS: 4, Phases: []PhaseReport{{Name: "parse", DurationMS: 4, Note: "x", Files: 1}}}
	got := Aggregate([]*Report{&r1, nil, &r2})
	if got.TotalMS != 7 || len(got.Phases) != 2 {
		t.Fatalf("aggregate = %+v", got)
	}
	if p := got.Phases[0]; p.Name != "parse" || p.DurationMS != 5 || p.Files != 2 || p.Note != "" {
		t.Fatalf("parse = %+v", p)
	}
	s := got.Summary()
	if !strings.Contains(s, "(2 files)") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}
