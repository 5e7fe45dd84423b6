package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[check]\njobs = 3\n\n[render]\ngap = 6\ncolor = \"off\"\n")
	src := filepath.Join(root, "sources", "nested", "m.move")
	writeFile(t, src, "module M {}\n")

	m, ok, err := LoadManifest(src)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if m.Config.Check.Jobs != 3 || m.Config.Render.Gap != 6 || m.Config.Render.Color != "off" {
		t.Fatalf("unexpected config %+v", m.Config)
	}
	if m.Path != filepath.Join(root, ManifestName) {
		t.Fatalf("path = %q", m.Path)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[check]\nthreads = 2\n"},
		{"negative jobs", "[check]\njobs = -1\n"},
		{"bad color", "[render]\ncolor = \"rainbow\"\n"},
		{"bad format", "[render]\nformat = \"xml\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfigSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "[check\n")
	_, err := LoadConfig(path)
	if err == nil || errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCombine(t *testing.T) {
	var d Digest
	d[0] = 1
	a := Combine(d, []byte("v1"))
	b := Combine(d, []byte("v2"))
	if a == b || a.IsZero() {
		t.Fatal("salts must change the digest")
	}
	if Combine(d, []byte("v1")) != a {
		t.Fatal("Combine is not deterministic")
	}
}
