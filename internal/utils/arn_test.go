package utils

import "testing"

func TestShortName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"arn:aws:sso:::permissionSet/ssoins-abc/ps-123456", "ps-123456"},
		{"arn:aws:organizations::111111111111:root/o-example/r-abcd", "r-abcd"},
		{"plain-string", "plain-string"},
		{"single/segment", "segment"},
		{"", ""},
	}

	for _, tt := range tests {
		got := ShortName(tt.input)
		if got != tt.want {
			t.Errorf("ShortName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
