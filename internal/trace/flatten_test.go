package trace

import "testing"

// sampleForest builds two roots: A with children B (grandchild D) and C, and
// a second root E with child F.
func sampleForest(t *testing.T) *Tree {
	t.Helper()
	steps := []*Step{
		obsStep("A", "1", "", 0, ms(100)),
		obsStep("B", "2", "1", 10, ms(40)),
		obsStep("D", "4", "2", 15, ms(35)),
		obsStep("C", "3", "1", 50, ms(90)),
		obsStep("E", "5", "", 100, ms(200)),
		obsStep("F", "6", "5", 110, ms(150)),
	}
	return Build(steps)
}

func ids(items []FlatItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Node.ID
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFlattenNothingCollapsed(t *testing.T) {
	tree := sampleForest(t)
	items := Flatten(tree.Roots, nil)

	if got := ids(items); !equalIDs(got, "A", "B", "D", "C", "E", "F") {
		t.Errorf("pre-order = %v", got)
	}
	if len(items) != len(tree.Index) {
		t.Errorf("flatten emitted %d items, forest has %d nodes", len(items), len(tree.Index))
	}
}

func TestFlattenCollapsedRoot(t *testing.T) {
	tree := sampleForest(t)
	collapsed := map[string]struct{}{"A": {}}
	items := Flatten(tree.Roots, collapsed)

	// A itself is still emitted; only its descendants disappear. The sibling
	// root E and its subtree are unaffected.
	if got := ids(items); !equalIDs(got, "A", "E", "F") {
		t.Errorf("flatten with A collapsed = %v", got)
	}
	if items[0].Expanded {
		t.Error("collapsed node reported Expanded")
	}
	if !items[0].HasChildren {
		t.Error("collapsed node lost HasChildren")
	}
}

func TestFlattenCollapsedInnerNode(t *testing.T) {
	tree := sampleForest(t)
	items := Flatten(tree.Roots, map[string]struct{}{"B": {}})

	if got := ids(items); !equalIDs(got, "A", "B", "C", "E", "F") {
		t.Errorf("flatten with B collapsed = %v", got)
	}
}

func TestFlattenFlags(t *testing.T) {
	tree := sampleForest(t)
	items := Flatten(tree.Roots, nil)

	for _, it := range items {
		wantChildren := len(it.Node.Children) > 0
		if it.HasChildren != wantChildren {
			t.Errorf("%s HasChildren = %v, want %v", it.Node.ID, it.HasChildren, wantChildren)
		}
		if it.Expanded != wantChildren {
			t.Errorf("%s Expanded = %v, want %v with empty collapse set", it.Node.ID, it.Expanded, wantChildren)
		}
	}
}

func TestFlattenLiveGrowth(t *testing.T) {
	// Appending a step that becomes a child of an expanded node grows the
	// flattened sequence by exactly one, right after its last sibling.
	steps := []*Step{
		obsStep("A", "1", "", 0, ms(100)),
		obsStep("B", "2", "1", 10, ms(40)),
		obsStep("C", "3", "1", 50, ms(90)),
	}
	before := Flatten(Build(steps).Roots, nil)

	steps = append(steps, obsStep("G", "7", "1", 95, ms(99)))
	after := Flatten(Build(steps).Roots, nil)

	if len(after) != len(before)+1 {
		t.Fatalf("length grew by %d, want 1", len(after)-len(before))
	}
	if got := ids(after); !equalIDs(got, "A", "B", "C", "G") {
		t.Errorf("after growth = %v", got)
	}
}

func TestFlattenLiveGrowthFirstChild(t *testing.T) {
	steps := []*Step{
		obsStep("A", "1", "", 0, ms(100)),
		obsStep("E", "5", "", 200, ms(300)),
	}
	before := Flatten(Build(steps).Roots, nil)

	// New child of A with no prior siblings lands immediately after A.
	steps = append(steps, obsStep("B", "2", "1", 10, ms(40)))
	after := Flatten(Build(steps).Roots, nil)

	if len(after) != len(before)+1 {
		t.Fatalf("length grew by %d, want 1", len(after)-len(before))
	}
	if got := ids(after); !equalIDs(got, "A", "B", "E") {
		t.Errorf("after growth = %v", got)
	}
}

func TestFlattenEmptyForest(t *testing.T) {
	if items := Flatten(nil, nil); len(items) != 0 {
		t.Errorf("Flatten(nil) = %d items, want 0", len(items))
	}
}
