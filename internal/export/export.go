// Package export serializes reconstructed trace forests for external tools.
package export

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/agentrace/agentrace/internal/trace"
)

// TreeNode is the serialized form of one trace node.
type TreeNode struct {
	ID          string       `json:"id" yaml:"id"`
	Label       string       `json:"label" yaml:"label"`
	Kind        trace.Kind   `json:"kind" yaml:"kind"`
	Status      trace.Status `json:"status" yaml:"status"`
	Depth       int          `json:"depth" yaml:"depth"`
	StartOffset int64        `json:"start_offset_ms" yaml:"start_offset_ms"`
	DurationMs  *int64       `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
	Children    []*TreeNode  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Document is the top-level export payload.
type Document struct {
	RunID      string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	DurationMs int64         `json:"duration_ms" yaml:"duration_ms"`
	Summary    trace.Summary `json:"summary" yaml:"summary"`
	Roots      []*TreeNode   `json:"roots" yaml:"roots"`
}

// NewDocument converts a forest into its serializable shape. The conversion
// walks iteratively; parents are always converted before their children, so
// attaching through the id map never misses.
func NewDocument(runID string, roots []*trace.Node) *Document {
	doc := &Document{
		RunID:      runID,
		DurationMs: trace.TraceDuration(roots),
		Summary:    trace.Summarize(roots),
	}

	converted := make(map[string]*TreeNode)
	stack := make([]*trace.Node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		out := &TreeNode{
			ID:          n.ID,
			Label:       NodeLabel(n),
			Kind:        n.Kind,
			Status:      n.Status,
			Depth:       n.Depth,
			StartOffset: n.StartOffset,
			DurationMs:  n.Duration,
		}
		converted[n.ID] = out

		if n.ParentID != "" {
			parent := converted[n.ParentID]
			parent.Children = append(parent.Children, out)
		} else {
			doc.Roots = append(doc.Roots, out)
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return doc
}

// JSON renders the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trace document: %w", err)
	}
	return out, nil
}

// YAML renders the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal trace document: %w", err)
	}
	return out, nil
}

// NodeLabel picks the best display name a step offers.
func NodeLabel(n *trace.Node) string {
	if n.Step != nil {
		if n.Step.Title != "" {
			return n.Step.Title
		}
		if n.Step.NodeLabel != "" {
			return n.Step.NodeLabel
		}
		if n.Step.Model != "" {
			return n.Step.Model
		}
	}
	return n.ID
}
