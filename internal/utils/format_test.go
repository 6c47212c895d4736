package utils

import "testing"

func TestPluralize(t *testing.T) {
	tests := []struct {
		count int
		noun  string
		want  string
	}{
		{0, "account", "0 accounts"},
		{1, "account", "1 account"},
		{2, "group", "2 groups"},
		{17, "user", "17 users"},
	}

	for _, tt := range tests {
		got := Pluralize(tt.count, tt.noun)
		if got != tt.want {
			t.Errorf("Pluralize(%d, %q) = %q, want %q", tt.count, tt.noun, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"organizational-unit", 10, "organizat…"},
		{"abc", 0, ""},
		{"abc", 1, "…"},
	}

	for _, tt := range tests {
		got := Truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestValueOrDash(t *testing.T) {
	if got := ValueOrDash(""); got != "—" {
		t.Errorf("empty: got %q, want dash", got)
	}
	if got := ValueOrDash("x"); got != "x" {
		t.Errorf("non-empty: got %q, want x", got)
	}
}
