package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"movecheck/internal/project"
)

func TestApplyConfigRespectsFlags(t *testing.T) {
	cfg := project.Config{
		Check:  project.CheckConfig{Jobs: 3, MaxDiagnostics: 7, Cache: true},
		Render: project.RenderConfig{Gap: 9, Color: "off", Format: "short", PathMode: "basename"},
	}
	tests := []struct {
		name    string
		changed map[string]bool
		check   func(s checkSettings) bool
	}{
		{"config fills defaults", nil, func(s checkSettings) bool {
			return s.jobs == 3 && s.maxDiagnostics == 7 && s.cache && s.gap == 9 &&
				s.color == "off" && s.format == "short" && s.pathMode == "basename"
		}},
		{"flags win", map[string]bool{"gap": true, "format": true}, func(s checkSettings) bool {
			return s.gap == 2 && s.format == "json" && s.jobs == 3
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultSettings()
			s.gap, s.format = 2, "json"
			s.applyConfig(cfg, func(name string) bool { return tt.changed[name] })
			if !tt.check(s) {
				t.Fatalf("settings = %+v", s)
			}
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	s := defaultSettings()
	if err := s.validate(); err != nil {
		t.Fatal(err)
	}
	s.format = "sarif"
	if s.validate() == nil {
		t.Fatal("sarif accepted")
	}
	s = defaultSettings()
	s.pathMode = "weird"
	if s.validate() == nil {
		t.Fatal("bad path mode accepted")
	}
}

func TestCheckCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := "module M {\n  fun f(a: u8, b: u64): bool {\n    a < b\n  }\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "m.move"), []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, project.ManifestName), []byte("[render]\nformat = \"short\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"check", "--ui=off", "--color=off", dir})
	err := rootCmd.Execute()
	if !errors.Is(err, errFoundErrors) {
		t.Fatalf("err = %v, output:\n%s", err, out.String())
	}
	if exitCode(err) != 1 {
		t.Fatal("errors must exit with status 1")
	}
	got := out.String()
	if !strings.Contains(got, "E04007") || !strings.Contains(got, "m.move:3:7") {
		t.Fatalf("output:\n%s", got)
	}
}
