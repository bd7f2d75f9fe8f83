// Package trace reconstructs the causal hierarchy of agent execution steps.
//
// A run's steps arrive as a flat, append-only sequence. Build turns that
// sequence into a forest of nodes, Flatten projects the forest into a
// collapse-aware list for windowed rendering, and TraceDuration/Summarize
// derive aggregate timing facts. All three are pure, synchronous functions;
// every traversal uses an explicit stack or queue because agent call chains
// can nest far deeper than the Go call stack should be asked to carry.
package trace

import "encoding/json"

// StepType categorizes a single unit of agent activity.
type StepType string

const (
	// StepNode is a workflow node lifecycle step. Under the legacy grouping
	// strategy these act as the top-level containers.
	StepNode StepType = "node"
	// StepToolCall is a tool invocation.
	StepToolCall StepType = "tool_call"
	// StepModelCall is a model/LLM invocation.
	StepModelCall StepType = "model_call"
	// StepThought is internal reasoning emitted by the agent.
	StepThought StepType = "thought"
	// Code-acting agent variants: the agent reasons, writes code, and
	// observes the execution result as separate steps.
	StepCodeActThought StepType = "codeact_thought"
	StepCodeActCode    StepType = "codeact_code"
	StepCodeActResult  StepType = "codeact_result"
)

// Kind is the coarse category a step maps to for tree building and display.
type Kind string

const (
	KindContainer Kind = "container"
	KindTool      Kind = "tool"
	KindModel     Kind = "model"
	KindThought   Kind = "thought"
	KindCodeAct   Kind = "codeact"
)

// Kind maps the step type onto its coarse category. The type set is closed,
// so this is a plain switch rather than open dispatch.
func (t StepType) Kind() Kind {
	switch t {
	case StepNode:
		return KindContainer
	case StepToolCall:
		return KindTool
	case StepModelCall:
		return KindModel
	case StepCodeActThought, StepCodeActCode, StepCodeActResult:
		return KindCodeAct
	default:
		return KindThought
	}
}

// Status is the execution state of a step.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Step is one execution-step record as reported by the engine. Steps are
// immutable once received; the builder only reads them. Times are Unix
// milliseconds. EndTime and Duration are nil when the engine has not (yet)
// reported them — absent times mean unknown, never zero.
type Step struct {
	ID                  string   `json:"id"`
	NodeID              string   `json:"node_id"`
	ObservationID       string   `json:"observation_id,omitempty"`
	ParentObservationID string   `json:"parent_observation_id,omitempty"`
	Type                StepType `json:"type"`
	Status              Status   `json:"status"`

	StartTime int64  `json:"start_time"`
	EndTime   *int64 `json:"end_time,omitempty"`
	Duration  *int64 `json:"duration_ms,omitempty"`

	// Display payload, opaque to the tree algorithms.
	NodeLabel string          `json:"node_label,omitempty"`
	Title     string          `json:"title,omitempty"`
	Content   string          `json:"content,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`

	// Model call accounting.
	Model       string  `json:"model,omitempty"`
	TotalTokens int     `json:"total_tokens,omitempty"`
	TotalCost   float64 `json:"total_cost,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Node is one entry in the reconstructed forest. Children is the only owning
// reference; ParentID is a lookup key into the tree's index, so the structure
// cannot form retain cycles.
type Node struct {
	ID       string
	Kind     Kind
	Children []*Node
	ParentID string

	Depth         int
	ChildrenDepth int

	StartTime int64
	EndTime   *int64
	Duration  *int64
	Status    Status

	// StartOffset is StartTime minus the first root's StartTime, for
	// timeline positioning.
	StartOffset int64

	Step *Step
}

// HasChildren reports whether the node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Tree is the output of one Build call: the root forest plus an id index.
// Both are rebuilt from scratch on every call and must be treated as
// immutable by consumers.
type Tree struct {
	Roots []*Node
	Index map[string]*Node
}
