// Package ingest adapts external step-event feeds into trace step records.
// The transport side of a run (streamed events, log files) lives outside the
// tree algorithms; this package is the boundary that turns whatever arrives
// into the in-process shape the builder consumes.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/agentrace/agentrace/internal/trace"
)

// maxLineSize bounds a single step event. Model call payloads carry full
// prompts and responses, so the default scanner limit is far too small.
const maxLineSize = 10 * 1024 * 1024

// ParseSteps reads newline-delimited JSON step events. Malformed lines and
// blank lines are skipped — a live feed can always be cut off mid-line, and a
// partial trace is more useful than none.
func ParseSteps(r io.Reader) []*trace.Step {
	var steps []*trace.Step

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var s trace.Step
		if err := json.Unmarshal(line, &s); err != nil {
			continue
		}
		if s.ID == "" {
			continue
		}
		normalize(&s)
		steps = append(steps, &s)
	}
	return steps
}

// ParseStepsBytes parses an in-memory JSONL payload.
func ParseStepsBytes(data []byte) []*trace.Step {
	return ParseSteps(bytes.NewReader(data))
}

// normalize maps the producing engine's enum spellings onto the canonical
// ones. The engine reports observation types and upper-case statuses; older
// feeds already use the canonical lower-case names and pass through.
func normalize(s *trace.Step) {
	switch strings.ToUpper(string(s.Type)) {
	case "SPAN":
		s.Type = trace.StepNode
	case "GENERATION":
		s.Type = trace.StepModelCall
	case "TOOL":
		s.Type = trace.StepToolCall
	case "EVENT":
		s.Type = trace.StepThought
	}

	switch strings.ToLower(string(s.Status)) {
	case "running":
		s.Status = trace.StatusRunning
	case "completed", "success", "ok":
		s.Status = trace.StatusCompleted
	case "failed", "error", "interrupted":
		s.Status = trace.StatusError
	case "pending", "":
		s.Status = trace.StatusPending
	}
}
