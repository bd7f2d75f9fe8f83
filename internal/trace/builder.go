package trace

// Build reconstructs the causal forest from an ordered step sequence. Empty
// input yields an empty forest and empty index, never an error.
//
// Two hierarchy encodings exist in the wild. When any step carries a
// parent_observation_id the whole run is linked through fine-grained
// observation spans and Build nests to arbitrary depth. Otherwise it falls
// back to two-level grouping by node id. The choice is global to one call —
// a run either fully uses span linkage or it doesn't.
func Build(steps []*Step) *Tree {
	t := &Tree{Index: make(map[string]*Node, len(steps))}
	if len(steps) == 0 {
		return t
	}

	useObservations := false
	for _, s := range steps {
		if s.ParentObservationID != "" {
			useObservations = true
			break
		}
	}

	if useObservations {
		t.buildByObservation(steps)
	} else {
		t.buildByNodeGroup(steps)
	}

	t.assignDepths()
	t.assignHeights()
	t.rollupDurations()
	t.assignOffsets()
	return t
}

func newNode(s *Step) *Node {
	return &Node{
		ID:        s.ID,
		Kind:      s.Type.Kind(),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Duration:  s.Duration,
		Status:    s.Status,
		Step:      s,
	}
}

// buildByObservation links nodes through observation span ids. A
// parent_observation_id that resolves to no known observation is treated as
// "no parent": the node silently becomes a root. Slightly out-of-order
// delivery would otherwise change the visible tree shape, so orphans are
// tolerated rather than reported.
func (t *Tree) buildByObservation(steps []*Step) {
	nodes := make([]*Node, len(steps))
	byObservation := make(map[string]*Node, len(steps))

	for i, s := range steps {
		n := newNode(s)
		nodes[i] = n
		t.Index[n.ID] = n
		if s.ObservationID != "" {
			byObservation[s.ObservationID] = n
		}
	}

	for i, s := range steps {
		n := nodes[i]
		if s.ParentObservationID != "" {
			if parent, ok := byObservation[s.ParentObservationID]; ok {
				parent.Children = append(parent.Children, n)
				n.ParentID = parent.ID
				continue
			}
		}
		t.Roots = append(t.Roots, n)
	}
}

// buildByNodeGroup is the legacy fallback: container steps become roots keyed
// by their node id, and every other step attaches under the most recently
// seen container with the same node id. A non-container step with no
// container yet becomes a root itself.
func (t *Tree) buildByNodeGroup(steps []*Step) {
	containers := make(map[string]*Node)

	for _, s := range steps {
		n := newNode(s)
		t.Index[n.ID] = n

		if n.Kind == KindContainer {
			containers[s.NodeID] = n
			t.Roots = append(t.Roots, n)
			continue
		}

		if parent, ok := containers[s.NodeID]; ok {
			parent.Children = append(parent.Children, n)
			n.ParentID = parent.ID
		} else {
			t.Roots = append(t.Roots, n)
		}
	}
}

// assignDepths walks the forest breadth-first with an explicit queue. Roots
// are depth 0, each child one more than its parent.
func (t *Tree) assignDepths() {
	queue := make([]*Node, 0, len(t.Roots))
	for _, r := range t.Roots {
		r.Depth = 0
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, c := range n.Children {
			c.Depth = n.Depth + 1
			queue = append(queue, c)
		}
	}
}

// assignHeights computes each node's subtree height bottom-up. The pre-order
// sequence from an explicit stack places every parent before its children, so
// walking it backwards visits children first.
func (t *Tree) assignHeights() {
	order := t.preorder()
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		height := 0
		for _, c := range n.Children {
			if c.ChildrenDepth+1 > height {
				height = c.ChildrenDepth + 1
			}
		}
		n.ChildrenDepth = height
	}
}

// rollupDurations synthesizes a duration for nodes that have children but no
// explicitly reported one: the last child's end time, as-is. Only the last
// child in insertion order counts, not the maximum end time across all
// children. If children overlap or arrive out of chronological order this
// misstates the true span; the rule is kept as-is because display parity
// with the producing engine matters more than exactness here.
func (t *Tree) rollupDurations() {
	for _, n := range t.preorder() {
		if n.Duration != nil || len(n.Children) == 0 {
			continue
		}
		last := n.Children[len(n.Children)-1]
		if last.EndTime == nil {
			continue
		}
		d := *last.EndTime
		n.Duration = &d
	}
}

// assignOffsets positions every node relative to the first root's start time.
func (t *Tree) assignOffsets() {
	if len(t.Roots) == 0 {
		return
	}
	base := t.Roots[0].StartTime
	for _, n := range t.preorder() {
		n.StartOffset = n.StartTime - base
	}
}

// preorder returns every node in the forest, parents before children, using
// an explicit stack.
func (t *Tree) preorder() []*Node {
	order := make([]*Node, 0, len(t.Index))
	stack := make([]*Node, 0, len(t.Roots))
	for i := len(t.Roots) - 1; i >= 0; i-- {
		stack = append(stack, t.Roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return order
}
