package export

import (
	"fmt"

	"github.com/TyphonHill/go-mermaid/diagrams/flowchart"

	"github.com/agentrace/agentrace/internal/trace"
)

// Mermaid renders the forest as a Mermaid flowchart, one node per step and
// one link per parent-child edge, shaped and colored by step kind.
func Mermaid(roots []*trace.Node) string {
	diagram := flowchart.NewFlowchart()
	diagram.EnableMarkdownFence()
	diagram.SetDirection(flowchart.FlowchartDirectionTopDown)
	diagram.Config.SetHtmlLabels(true)

	drawn := make(map[string]*flowchart.Node)
	stack := make([]*trace.Node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fn := diagram.AddNode(mermaidLabel(n))
		applyShape(fn, n.Kind)
		if style := kindStyle(n.Kind); style != nil {
			fn.SetStyle(style)
		}
		drawn[n.ID] = fn

		if n.ParentID != "" {
			diagram.AddLink(drawn[n.ParentID], fn)
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}

	return diagram.String()
}

func mermaidLabel(n *trace.Node) string {
	label := NodeLabel(n)
	// Truncate on rune boundaries; titles are user text and often non-ASCII.
	if r := []rune(label); len(r) > 60 {
		label = string(r[:57]) + "..."
	}
	if n.Duration != nil && *n.Duration > 0 {
		label = fmt.Sprintf("%s<br/>%dms", label, *n.Duration)
	}
	return label
}

func applyShape(node *flowchart.Node, kind trace.Kind) {
	switch kind {
	case trace.KindContainer:
		node.SetShape(flowchart.NodeShapeProcess)
	case trace.KindTool:
		node.SetShape(flowchart.NodeShapeSubprocess)
	case trace.KindModel:
		node.SetShape(flowchart.NodeShapeDecision)
	case trace.KindThought:
		node.SetShape(flowchart.NodeShapeTerminal)
	case trace.KindCodeAct:
		node.SetShape(flowchart.NodeShapeInputOutput)
	default:
		node.SetShape(flowchart.NodeShapeProcess)
	}
}

func kindStyle(kind trace.Kind) *flowchart.NodeStyle {
	style := flowchart.NewNodeStyle()
	style.StrokeWidth = 1

	switch kind {
	case trace.KindTool:
		style.Fill = "#e8f5e9"
		style.Stroke = "#1b5e20"
	case trace.KindModel:
		style.Fill = "#f3e5f5"
		style.Stroke = "#4a148c"
	case trace.KindThought:
		style.Fill = "#e1f5fe"
		style.Stroke = "#01579b"
	case trace.KindCodeAct:
		style.Fill = "#fff3e0"
		style.Stroke = "#e65100"
	default:
		return nil
	}
	return style
}
