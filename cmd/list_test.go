package cmd

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short passes through", "checkout-agent", 20, "checkout-agent"},
		{"exact length passes through", "abcde", 5, "abcde"},
		{"ascii truncates", "abcdefgh", 5, "abcd…"},
		{"multibyte keeps rune boundary", "エージェント実行", 4, "エージ…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}
