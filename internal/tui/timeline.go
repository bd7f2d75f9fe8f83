package tui

import (
	"fmt"
	"strings"

	"github.com/agentrace/agentrace/internal/trace"
)

const (
	timelineTrackWidth = 40
	timelineLabelWidth = 24
)

// timelineBar computes the character offset and length of one step's bar on
// a track of the given width. A zero or negative total is floored to one so
// a trace whose steps all share a timestamp still renders.
func timelineBar(offset int64, duration *int64, total int64, width int) (start, length int) {
	if total <= 0 {
		total = 1
	}
	w := int64(width)

	start = int(offset * w / total)
	if start >= width {
		start = width - 1
	}
	if start < 0 {
		start = 0
	}

	length = 1
	if duration != nil && *duration > 0 {
		length = int(*duration * w / total)
		if length < 1 {
			length = 1
		}
	}
	if start+length > width {
		length = width - start
	}
	return start, length
}

// truncateLabel shortens s to at most n characters, counting runes so a
// multi-byte title is never split mid-rune.
func truncateLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// renderTimelineTab renders a Gantt-style view of the visible steps
func (m Model) renderTimelineTab() string {
	var b strings.Builder

	b.WriteString(SectionHeaderStyle.Render("Timeline"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(MutedStyle.Render("No steps to show"))
		return b.String()
	}

	b.WriteString(MutedStyle.Render(fmt.Sprintf("%-*s 0ms%s%s",
		timelineLabelWidth, "",
		strings.Repeat(" ", timelineTrackWidth-3-len(formatDuration(m.duration))),
		formatDuration(m.duration))))
	b.WriteString("\n")

	for i, item := range m.visible {
		n := item.Node

		label := truncateLabel(stepLabel(n), timelineLabelWidth)

		start, length := timelineBar(n.StartOffset, n.Duration, m.duration, timelineTrackWidth)

		bar := "█"
		if n.Duration == nil {
			bar = "░"
		}
		track := strings.Repeat(" ", start) +
			strings.Repeat(bar, length) +
			strings.Repeat(" ", timelineTrackWidth-start-length)

		line := fmt.Sprintf("%-*s %s %s",
			timelineLabelWidth, label,
			KindStyle(n.Kind).Render(track),
			DurationStyle.Render(formatDurationPtr(n.Duration)))

		if i == m.cursor {
			b.WriteString(CursorStyle.Render("→ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
