package fieldgraph

// IsActive reports whether searches may traverse n.
func (g *Graph) IsActive(n int) bool { return g.active[n] }

// SetActive sets the activity flag of n.
func (g *Graph) SetActive(n int, on bool) { g.active[n] = on }

// SetAllActive marks every node active.
func (g *Graph) SetAllActive() {
	for i := range g.active {
		g.active[i] = true
	}
}

// SetDisabledNodes deactivates every node in nodes; others are untouched.
func (g *Graph) SetDisabledNodes(nodes []int) {
	for _, n := range nodes {
		g.active[n] = false
	}
}

// ActiveSnapshot returns a copy of the activity flags.
func (g *Graph) ActiveSnapshot() []bool {
	return append([]bool(nil), g.active...)
}

// RestoreActive reinstates a snapshot taken with ActiveSnapshot.
func (g *Graph) RestoreActive(snap []bool) {
	copy(g.active, snap)
}

// IsSelected reports whether n is a search terminal.
func (g *Graph) IsSelected(n int) bool { return g.selected[n] }

// Select marks n as a search terminal.
func (g *Graph) Select(n int) { g.selected[n] = true }

// ClearSelection unmarks every node.
func (g *Graph) ClearSelection() {
	for i := range g.selected {
		g.selected[i] = false
	}
}
