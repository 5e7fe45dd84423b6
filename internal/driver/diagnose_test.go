package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"movecheck/internal/diag"
	"movecheck/internal/testkit"
)

const badProgram = `module M {
  fun f(a: bool, b: u64) {
    a < b;
    0 < 1 < 2;
  }
}
`

const goodProgram = `module M {
  fun add(a: u8, b: u8): u8 { a + b }
}
`

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDiagnosePathsOrdersResults(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"b.move":          badProgram,
		"a.move":          goodProgram,
		"nested/c.move":   badProgram,
		"notes/readme.md": "not a source",
	})
	var mu sync.Mutex
	seen := 0
	fs, results, err := DiagnosePaths(context.Background(), []string{dir}, DiagnoseOptions{Stage: DiagnoseStageTypes}, 4,
		func(done, total int, _ *FileResult) {
			mu.Lock()
			defer mu.Unlock()
			seen++
			if total != 3 || done < 1 || done > total {
				t.Errorf("progress %d/%d", done, total)
			}
		})
	if err != nil {
		t.Fatal(err)
	}
	if fs == nil || len(results) != 3 || seen != 3 {
		t.Fatalf("results=%d progress=%d", len(results), seen)
	}
	wantNames := []string{"a.move", "b.move", "c.move"}
	for i, res := range results {
		if filepath.Base(res.Path) != wantNames[i] {
			t.Fatalf("result %d is %s", i, res.Path)
		}
	}
	if results[0].Bag.Len() != 0 {
		t.Fatalf("clean file reported %d diagnostics", results[0].Bag.Len())
	}
	for _, res := range results[1:] {
		if got := res.Bag.CountByCode(diag.TypeBuiltinOpNotSupported); got != 2 {
			t.Fatalf("%s: E04003 count = %d", res.Path, got)
		}
		if got := res.Bag.CountByCode(diag.TypeIncompatible); got != 2 {
			t.Fatalf("%s: E04007 count = %d", res.Path, got)
		}
	}
	if !HasErrors(results) {
		t.Fatal("HasErrors = false")
	}
	merged := MergeBags(results)
	if merged.Len() != 8 {
		t.Fatalf("merged %d diagnostics", merged.Len())
	}
	if err := testkit.CheckDiagnosticInvariants(merged.Items(), fs); err != nil {
		t.Fatal(err)
	}
}

func TestDiagnosePathsNoSources(t *testing.T) {
	dir := writeSources(t, map[string]string{"x.txt": "hi"})
	_, _, err := DiagnosePaths(context.Background(), []string{dir}, DiagnoseOptions{}, 1, nil)
	if !errors.Is(err, ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func TestDiagnoseStages(t *testing.T) {
	dir := writeSources(t, map[string]string{"m.move": "module M { fun f() { y < true; } }\n"})
	tests := []struct {
		stage DiagnoseStage
		want  int
	}{
		{DiagnoseStageSyntax, 0},
		{DiagnoseStageNames, 1},
		{DiagnoseStageTypes, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			_, results, err := DiagnosePaths(context.Background(), []string{dir}, DiagnoseOptions{Stage: tt.stage}, 1, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got := results[0].Bag.Len(); got != tt.want {
				t.Fatalf("diagnostics = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDiagnoseKeepsArtifactsAndTimings(t *testing.T) {
	dir := writeSources(t, map[string]string{"m.move": goodProgram})
	var mu sync.Mutex
	phases := map[string]int{}
	opts := DiagnoseOptions{
		KeepArtifacts: true,
		EnableTimings: true,
		Observer: func(ev PhaseEvent) {
			mu.Lock()
			phases[ev.Name]++
			mu.Unlock()
		},
	}
	fs, results, err := DiagnosePaths(context.Background(), []string{dir}, opts, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	res := results[0]
	if err := testkit.CheckSpanInvariants(res.Builder, res.ASTFile, fs.Get(res.FileID)); err != nil {
		t.Fatal(err)
	}
	if res.Builder == nil || res.Symbols == nil || res.Sema == nil || len(res.Sema.ExprTypes) == 0 {
		t.Fatal("artifacts were not kept")
	}
	if res.Timing == nil || len(res.Timing.Phases) != 3 {
		t.Fatalf("timing = %+v", res.Timing)
	}
	for _, name := range []string{"parse", "resolve", "sema"} {
		if phases[name] != 2 {
			t.Fatalf("phase %s observed %d times", name, phases[name])
		}
	}
}

func TestDiagnoseCacheRoundTrip(t *testing.T) {
	dir := writeSources(t, map[string]string{"m.move": badProgram})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := DiagnoseOptions{Cache: cache}

	_, first, err := DiagnosePaths(context.Background(), []string{dir}, opts, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := DiagnosePaths(context.Background(), []string{dir}, opts, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached || !second[0].Cached {
		t.Fatalf("cached flags: first=%v second=%v", first[0].Cached, second[0].Cached)
	}
	a, b := first[0].Bag.Items(), second[0].Bag.Items()
	if len(a) != len(b) || len(a) == 0 {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Code != b[i].Code || a[i].Primary != b[i].Primary || len(a[i].Secondary) != len(b[i].Secondary) {
			t.Fatalf("diagnostic %d differs:\n%+v\n%+v", i, a[i], b[i])
		}
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	_, third, err := DiagnosePaths(context.Background(), []string{dir}, opts, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Cached {
		t.Fatal("cache survived DropAll")
	}
}

func TestUnreadableFileBecomesDiagnostic(t *testing.T) {
	dir := writeSources(t, map[string]string{"ok.move": goodProgram, "locked.move": goodProgram})
	locked := filepath.Join(dir, "locked.move")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	if f, err := os.Open(locked); err == nil {
		f.Close()
		t.Skip("file permissions are not enforced")
	}
	_, results, err := DiagnosePaths(context.Background(), []string{dir}, DiagnoseOptions{}, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := results[0].Bag.CountByCode(diag.IOLoadFileError); got != 1 {
		t.Fatalf("locked.move: E10001 count = %d", got)
	}
	if results[1].Bag.Len() != 0 {
		t.Fatalf("ok.move: %d diagnostics", results[1].Bag.Len())
	}
}

func TestTokenize(t *testing.T) {
	dir := writeSources(t, map[string]string{"m.move": "module M { fun f() { 1u8 + 2; } }\n"})
	res, err := Tokenize(filepath.Join(dir, "m.move"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Tokens) == 0 || res.Bag.Len() != 0 {
		t.Fatalf("tokens=%d diags=%d", len(res.Tokens), res.Bag.Len())
	}
}
