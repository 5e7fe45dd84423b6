package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	for i, name := range levelNames {
		got, err := ParseLevel(strings.ToUpper(name))
		if err != nil || got != Level(i) {
			t.Fatalf("ParseLevel(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeModule, false},
		{LevelDetail, ScopeModule, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v", tt.level, tt.scope, got)
		}
	}
}

func TestSpansStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	root := Begin(tr, ScopeDriver, "diagnose", 0)
	file := Begin(tr, ScopeModule, "check_file", root.ID()).WithExtra("path", "a.move")
	fn := Begin(tr, ScopeNode, "check_fn", file.ID())
	if fn.ID() != file.ID() {
		t.Fatal("filtered span must expose its parent id")
	}
	fn.End("")
	file.End("")
	root.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "check_file" || ev.Extra["path"] != "a.move" || ev.ParentID != root.ID() {
		t.Fatalf("event = %+v", ev)
	}
}

func TestTextFormatSortsExtra(t *testing.T) {
	start := time.Now()
	ev := &Event{Time: start.Add(2 * time.Millisecond), Kind: KindSpanEnd, Scope: ScopePass, Name: "sema",
		Extra: map[string]string{"b": "2", "a": "1"}, Elapsed: time.Millisecond}
	got := string(FormatEvent(ev, FormatText, start))
	if !strings.Contains(got, "  ← sema 1.000ms {a=1, b=2}") || !strings.HasPrefix(got, "[    2.000ms]") {
		t.Fatalf("text = %q", got)
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopePass, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "c" || snap[2].Name != "e" {
		t.Fatalf("snapshot = %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil || strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump = %q, %v", buf.String(), err)
	}
}

func TestNewErrorLevelOnlyRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr.Tracer, ScopePass, "parse", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 || tr.Ring == nil || len(tr.Ring.Snapshot()) != 2 {
		t.Fatalf("stream=%q ring=%v", buf.String(), tr.Ring)
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop || CurrentSpan(ctx).SpanID != 0 {
		t.Fatal("empty context must give Nop")
	}
	r := NewRingTracer(8, LevelDebug)
	ctx = WithSpanContext(WithTracer(ctx, r), SpanContext{SpanID: 7})
	if FromContext(ctx) != Tracer(r) || CurrentSpan(ctx).SpanID != 7 {
		t.Fatal("context lost tracer or span")
	}
}

func TestHeartbeatStops(t *testing.T) {
	r := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	h.Stop()
	h.Stop()
	if len(r.Snapshot()) == 0 {
		t.Fatal("no heartbeats recorded")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat on Nop tracer")
	}
}
