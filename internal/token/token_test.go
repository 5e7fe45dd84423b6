package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		ok   bool
	}{
		{"fun", KwFun, true},
		{"module", KwModule, true},
		{"Fun", Invalid, false},
		{"u64", Invalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, ok := LookupKeyword(tt.in)
			if ok != tt.ok || (ok && k != tt.kind) {
				t.Fatalf("LookupKeyword(%q) = %v, %v", tt.in, k, ok)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if Lt.String() != "'<'" || EOF.String() != "end of file" {
		t.Fatalf("unexpected names %q %q", Lt.String(), EOF.String())
	}
	if !(Token{Kind: KwAs}).IsKeyword() || (Token{Kind: Ident}).IsKeyword() {
		t.Fatal("IsKeyword mismatch")
	}
}
