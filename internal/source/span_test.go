package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("unexpected cover %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("spans from different files must not merge, got %v", got)
	}
}

func TestSpanOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"earlier start", Span{Start: 1, End: 5}, Span{Start: 2, End: 3}, true},
		{"same start shorter", Span{Start: 1, End: 2}, Span{Start: 1, End: 3}, true},
		{"later file", Span{File: 2}, Span{File: 1, Start: 9}, false},
		{"equal", Span{Start: 1, End: 2}, Span{Start: 1, End: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Before(tt.b); got != tt.want {
				t.Fatalf("Before = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 0, Start: 0, End: 10}
	if !outer.Contains(Span{Start: 3, End: 10}) {
		t.Fatalf("expected containment")
	}
	if outer.Contains(Span{Start: 3, End: 11}) {
		t.Fatalf("span past end must not be contained")
	}
}
