package trace

// TraceDuration returns the total elapsed span of the forest: the maximum of
// end time (falling back to start time where no end was reported) across
// every node, minus the first root's start time. Returns 0 for an empty
// forest. The value is not clamped; a renderer needing a non-zero layout
// denominator applies its own floor.
func TraceDuration(roots []*Node) int64 {
	if len(roots) == 0 {
		return 0
	}

	base := roots[0].StartTime
	latest := base

	stack := make([]*Node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		t := n.StartTime
		if n.EndTime != nil {
			t = *n.EndTime
		}
		if t > latest {
			latest = t
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return latest - base
}

// Summary aggregates a forest for run listings and the stats command.
type Summary struct {
	TotalSteps  int     `json:"total_steps"`
	Containers  int     `json:"containers"`
	ToolCalls   int     `json:"tool_calls"`
	ModelCalls  int     `json:"model_calls"`
	Thoughts    int     `json:"thoughts"`
	CodeActs    int     `json:"code_acts"`
	Errors      int     `json:"errors"`
	MaxDepth    int     `json:"max_depth"`
	TotalTokens int     `json:"total_tokens"`
	TotalCost   float64 `json:"total_cost"`
	DurationMs  int64   `json:"duration_ms"`
}

// Summarize scans the whole forest once, iteratively, and rolls up counts,
// token usage, and cost. Token and cost figures come from model-call steps
// only, matching how the producing engine accounts them.
func Summarize(roots []*Node) Summary {
	s := Summary{DurationMs: TraceDuration(roots)}

	stack := make([]*Node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s.TotalSteps++
		switch n.Kind {
		case KindContainer:
			s.Containers++
		case KindTool:
			s.ToolCalls++
		case KindModel:
			s.ModelCalls++
			if n.Step != nil {
				s.TotalTokens += n.Step.TotalTokens
				s.TotalCost += n.Step.TotalCost
			}
		case KindThought:
			s.Thoughts++
		case KindCodeAct:
			s.CodeActs++
		}
		if n.Status == StatusError {
			s.Errors++
		}
		if n.Depth > s.MaxDepth {
			s.MaxDepth = n.Depth
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return s
}
