package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"abcdef", 3, "abc..."},
		{"مرحبا بكم", 4, "مرحب..."},
		{"ééééé", 2, "éé..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}

	long := strings.Repeat("ü", 200)
	if got := truncate(long, 150); utf8.RuneCountInString(got) != 153 {
		t.Errorf("expected 150 runes plus ellipsis, got %d runes", utf8.RuneCountInString(got))
	}
}
