package fieldgraph

// Node encodes the pair (v, d) as a node index.
func Node(v, d int) int { return v*NumDirs + d }

// NodeVert returns the vertex of node n.
func NodeVert(n int) int { return n / NumDirs }

// NodeDir returns the direction index of node n.
func NodeDir(n int) int { return n % NumDirs }

// VertNodes returns the four nodes of v in direction order.
func VertNodes(v int) [NumDirs]int {
	return [NumDirs]int{Node(v, 0), Node(v, 1), Node(v, 2), Node(v, 3)}
}

// Tangent returns the node at the same vertex pointing the opposite way.
func Tangent(n int) int {
	return Node(NodeVert(n), (NodeDir(n)+2)%NumDirs)
}

// Ortho returns the two nodes at the same vertex turned by ±90°.
func Ortho(n int) [2]int {
	v, d := NodeVert(n), NodeDir(n)
	return [2]int{Node(v, (d+1)%NumDirs), Node(v, (d+3)%NumDirs)}
}
