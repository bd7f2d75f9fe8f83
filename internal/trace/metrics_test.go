package trace

import "testing"

func TestTraceDuration(t *testing.T) {
	tests := []struct {
		name  string
		steps []*Step
		want  int64
	}{
		{
			name:  "empty forest",
			steps: nil,
			want:  0,
		},
		{
			name: "single node with only a start time",
			steps: []*Step{
				obsStep("A", "1", "", 500, nil),
			},
			want: 0,
		},
		{
			name: "single completed node",
			steps: []*Step{
				obsStep("A", "1", "", 100, ms(350)),
			},
			want: 250,
		},
		{
			name: "child outlives its parent",
			steps: []*Step{
				obsStep("A", "1", "", 0, ms(100)),
				obsStep("B", "2", "1", 10, ms(180)),
			},
			want: 180,
		},
		{
			name: "running child counts its start time",
			steps: []*Step{
				obsStep("A", "1", "", 0, ms(50)),
				obsStep("B", "2", "1", 120, nil),
			},
			want: 120,
		},
		{
			name: "second root extends the span",
			steps: []*Step{
				obsStep("A", "1", "", 100, ms(200)),
				obsStep("E", "5", "", 300, ms(900)),
			},
			want: 800,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Build(tt.steps)
			if got := TraceDuration(tree.Roots); got != tt.want {
				t.Errorf("TraceDuration() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	steps := []*Step{
		{ID: "c1", NodeID: "n1", ObservationID: "1", Type: StepNode, Status: StatusCompleted, StartTime: 0, EndTime: ms(100)},
		{ID: "m1", NodeID: "n1", ObservationID: "2", ParentObservationID: "1", Type: StepModelCall, Status: StatusCompleted,
			StartTime: 5, EndTime: ms(40), Model: "gpt-4o", TotalTokens: 1200, TotalCost: 0.012},
		{ID: "t1", NodeID: "n1", ObservationID: "3", ParentObservationID: "1", Type: StepToolCall, Status: StatusError,
			StartTime: 45, EndTime: ms(80), Error: "timeout"},
		{ID: "th1", NodeID: "n1", ObservationID: "4", ParentObservationID: "3", Type: StepThought, Status: StatusCompleted,
			StartTime: 50, EndTime: ms(60)},
	}
	tree := Build(steps)
	s := Summarize(tree.Roots)

	if s.TotalSteps != 4 {
		t.Errorf("TotalSteps = %d, want 4", s.TotalSteps)
	}
	if s.Containers != 1 || s.ModelCalls != 1 || s.ToolCalls != 1 || s.Thoughts != 1 {
		t.Errorf("kind counts = %d/%d/%d/%d, want 1/1/1/1", s.Containers, s.ModelCalls, s.ToolCalls, s.Thoughts)
	}
	if s.Errors != 1 {
		t.Errorf("Errors = %d, want 1", s.Errors)
	}
	if s.TotalTokens != 1200 {
		t.Errorf("TotalTokens = %d, want 1200", s.TotalTokens)
	}
	if s.TotalCost != 0.012 {
		t.Errorf("TotalCost = %f, want 0.012", s.TotalCost)
	}
	if s.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", s.MaxDepth)
	}
	if s.DurationMs != 100 {
		t.Errorf("DurationMs = %d, want 100", s.DurationMs)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalSteps != 0 || s.DurationMs != 0 {
		t.Errorf("Summarize(nil) = %+v, want zero value", s)
	}
}
