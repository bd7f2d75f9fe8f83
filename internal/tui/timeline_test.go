package tui

import (
	"testing"
	"unicode/utf8"
)

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short passes through", "fetch page", 24, "fetch page"},
		{"ascii truncates", "abcdefgh", 5, "abcd…"},
		{"multibyte keeps rune boundary", "ツールを呼び出しています", 6, "ツールを呼…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateLabel(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncateLabel(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateLabel produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestTimelineBar(t *testing.T) {
	ms := func(v int64) *int64 { return &v }

	tests := []struct {
		name       string
		offset     int64
		duration   *int64
		total      int64
		width      int
		wantStart  int
		wantLength int
	}{
		{"full width", 0, ms(100), 100, 40, 0, 40},
		{"second half", 50, ms(50), 100, 40, 20, 20},
		{"tiny duration floors to one cell", 0, ms(1), 100000, 40, 0, 1},
		{"unknown duration renders one cell", 10, nil, 100, 40, 4, 1},
		{"zero total floors to one", 0, ms(0), 0, 40, 0, 1},
		{"offset past end clamps to track", 200, ms(50), 100, 40, 39, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, length := timelineBar(tt.offset, tt.duration, tt.total, tt.width)
			if start != tt.wantStart || length != tt.wantLength {
				t.Errorf("timelineBar() = (%d, %d), want (%d, %d)",
					start, length, tt.wantStart, tt.wantLength)
			}
			if start+length > tt.width {
				t.Errorf("bar overflows track: start=%d length=%d width=%d", start, length, tt.width)
			}
		})
	}
}
