package export

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/agentrace/agentrace/internal/trace"
)

func ms(v int64) *int64 { return &v }

func testForest() []*trace.Node {
	steps := []*trace.Step{
		{ID: "root", NodeID: "n1", ObservationID: "1", Type: trace.StepNode,
			Status: trace.StatusCompleted, StartTime: 0, EndTime: ms(100), Title: "agent run"},
		{ID: "call", NodeID: "n1", ObservationID: "2", ParentObservationID: "1", Type: trace.StepModelCall,
			Status: trace.StatusCompleted, StartTime: 10, EndTime: ms(60), Model: "gpt-4o", TotalTokens: 50},
	}
	return trace.Build(steps).Roots
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument("run-1", testForest())

	if doc.RunID != "run-1" {
		t.Errorf("RunID = %q", doc.RunID)
	}
	if doc.DurationMs != 100 {
		t.Errorf("DurationMs = %d, want 100", doc.DurationMs)
	}
	if len(doc.Roots) != 1 {
		t.Fatalf("Roots = %d, want 1", len(doc.Roots))
	}
	root := doc.Roots[0]
	if root.Label != "agent run" {
		t.Errorf("root label = %q", root.Label)
	}
	if len(root.Children) != 1 || root.Children[0].Kind != trace.KindModel {
		t.Errorf("child = %+v", root.Children)
	}
	if doc.Summary.TotalTokens != 50 {
		t.Errorf("Summary.TotalTokens = %d, want 50", doc.Summary.TotalTokens)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc := NewDocument("run-1", testForest())
	out, err := doc.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var back Document
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if back.DurationMs != doc.DurationMs || len(back.Roots) != 1 {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestYAML(t *testing.T) {
	doc := NewDocument("", testForest())
	out, err := doc.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	if !strings.Contains(string(out), "agent run") {
		t.Errorf("YAML output missing label:\n%s", out)
	}
}

func TestMermaid(t *testing.T) {
	out := Mermaid(testForest())

	if !strings.Contains(out, "flowchart TD") {
		t.Errorf("missing flowchart header:\n%s", out)
	}
	if !strings.Contains(out, "agent run") {
		t.Errorf("missing root label:\n%s", out)
	}
	if !strings.Contains(out, "-->") {
		t.Errorf("missing parent-child link:\n%s", out)
	}
}

func TestMermaidLabelRuneSafe(t *testing.T) {
	// Long non-ASCII titles must truncate on rune boundaries, not bytes.
	title := strings.Repeat("トレース", 30)
	n := &trace.Node{ID: "x", Step: &trace.Step{ID: "x", Title: title}}

	got := mermaidLabel(n)
	if !utf8.ValidString(got) {
		t.Errorf("label is not valid UTF-8: %q", got)
	}
	if r := []rune(got); len(r) != 60 {
		t.Errorf("label length = %d runes, want 60 (57 + ellipsis)", len(r))
	}
}

func TestNodeLabelFallbacks(t *testing.T) {
	tests := []struct {
		name string
		step *trace.Step
		want string
	}{
		{"title wins", &trace.Step{ID: "x", Title: "t", NodeLabel: "l", Model: "m"}, "t"},
		{"node label next", &trace.Step{ID: "x", NodeLabel: "l", Model: "m"}, "l"},
		{"model next", &trace.Step{ID: "x", Model: "m"}, "m"},
		{"id last", &trace.Step{ID: "x"}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &trace.Node{ID: tt.step.ID, Step: tt.step}
			if got := NodeLabel(n); got != tt.want {
				t.Errorf("NodeLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
