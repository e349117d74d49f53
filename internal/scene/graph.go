// Package scene holds the mutable scene graph the animation pipeline updates
// and the renderer draws.
//
// A Graph is not safe for concurrent use. The animation driver owns it and
// performs every mutation from a single goroutine.
package scene

// Graph is a flat, ordered set of drawable nodes. Anything added is drawn
// until it is removed.
type Graph struct {
	Background Color

	nodes []Node
	index map[Node]int
}

func NewGraph() *Graph {
	return &Graph{index: map[Node]int{}}
}

// Add appends n to the graph. Adding a node twice is a no-op.
func (g *Graph) Add(n Node) {
	if n == nil {
		return
	}
	if _, ok := g.index[n]; ok {
		return
	}
	g.index[n] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// Remove detaches n and reports whether it was present. Resources owned by n
// are left alone; disposing them is the caller's job.
func (g *Graph) Remove(n Node) bool {
	i, ok := g.index[n]
	if !ok {
		return false
	}
	copy(g.nodes[i:], g.nodes[i+1:])
	g.nodes[len(g.nodes)-1] = nil
	g.nodes = g.nodes[:len(g.nodes)-1]
	delete(g.index, n)
	for j := i; j < len(g.nodes); j++ {
		g.index[g.nodes[j]] = j
	}
	return true
}

func (g *Graph) Contains(n Node) bool {
	_, ok := g.index[n]
	return ok
}

func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the nodes in insertion order. The slice is a copy.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Each calls fn for every node in insertion order without copying.
// fn must not mutate the graph.
func (g *Graph) Each(fn func(Node)) {
	for _, n := range g.nodes {
		fn(n)
	}
}

// Find returns the first node with the given name.
func (g *Graph) Find(name string) (Node, bool) {
	for _, n := range g.nodes {
		if n.NodeName() == name {
			return n, true
		}
	}
	return nil, false
}
