package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan Event)
	m := NewProgressModel("checking", []string{"a.move", "b.move"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.move", Phase: "sema", Status: StatusWorking})
	if got := m.items[0].label(); got != "checking" {
		t.Fatalf("label = %q", got)
	}
	if p := m.percent(); p != 0.3 {
		t.Fatalf("percent = %v", p)
	}
	m.Update(eventMsg{File: "a.move", Status: StatusError, Diagnostics: 3})
	m.Update(eventMsg{File: "b.move", Status: StatusDone})
	m.Update(eventMsg{File: "unknown.move", Status: StatusDone})
	if p := m.percent(); p != 1 {
		t.Fatalf("percent = %v", p)
	}

	view := m.View()
	for _, want := range []string{"checking 2/2", "3 errors", "ok", "a.move", "b.move"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view is missing %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatal("done message must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.Quit")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.move", 20, "short.move"},
		{"a/very/long/path.move", 10, "a/very/..."},
		{"模块/文件.move", 6, "模..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
