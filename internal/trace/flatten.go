package trace

// FlatItem is one visible row of a flattened forest. Items are recomputed on
// every Flatten call and carry no ownership.
type FlatItem struct {
	Node        *Node
	Expanded    bool
	HasChildren bool
}

// Flatten projects the forest into the ordered sequence of nodes visible
// given the collapsed set. Collapse state always travels in as an explicit
// parameter; the algorithm holds no state of its own.
//
// A collapsed node is still emitted — collapsing only suppresses its
// descendants — so a node disappears from the output only when an ancestor
// is collapsed. The traversal is iterative pre-order over an explicit stack;
// children are pushed in reverse so popping restores input order. This runs
// on a hot path (every collapse toggle and every step arriving during a live
// run) and must stay allocation-light.
func Flatten(roots []*Node, collapsed map[string]struct{}) []FlatItem {
	items := make([]FlatItem, 0, len(roots))
	stack := make([]*Node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		hasChildren := len(n.Children) > 0
		_, isCollapsed := collapsed[n.ID]

		items = append(items, FlatItem{
			Node:        n,
			Expanded:    hasChildren && !isCollapsed,
			HasChildren: hasChildren,
		})

		if hasChildren && !isCollapsed {
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, n.Children[i])
			}
		}
	}
	return items
}
