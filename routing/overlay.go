package routing

// Overlay is a per-query working graph. It reads through to a shared base
// network and keeps injected nodes and injected adjacency to itself, so the
// base is never copied or mutated.
type Overlay struct {
	base  *Graph
	nodes map[string]*Node
	order []string
	extra map[string][]*Edge
}

func newOverlay(base *Graph) *Overlay {
	return &Overlay{
		base:  base,
		nodes: make(map[string]*Node),
		extra: make(map[string][]*Edge),
	}
}

// Base returns the read-only network underneath the overlay.
func (o *Overlay) Base() *Graph {
	return o.base
}

func (o *Overlay) Node(id string) (*Node, bool) {
	if n, ok := o.nodes[id]; ok {
		return n, true
	}
	return o.base.Node(id)
}

// Neighbors returns base edges followed by injected edges, in the order they
// were added.
func (o *Overlay) Neighbors(id string) []*Edge {
	base := o.base.Neighbors(id)
	extra := o.extra[id]
	if len(extra) == 0 {
		return base
	}
	if len(base) == 0 {
		return extra
	}
	out := make([]*Edge, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// NodeIDs returns base node ids followed by injected ids in creation order.
func (o *Overlay) NodeIDs() []string {
	ids := o.base.NodeIDs()
	for _, id := range o.order {
		if _, inBase := o.base.Nodes[id]; !inBase {
			ids = append(ids, id)
		}
	}
	return ids
}

// Injected returns the nodes added on top of the base, in creation order.
func (o *Overlay) Injected() []*Node {
	out := make([]*Node, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.nodes[id])
	}
	return out
}

// InjectedEdges counts directed edges added on top of the base.
func (o *Overlay) InjectedEdges() int {
	total := 0
	for _, edges := range o.extra {
		total += len(edges)
	}
	return total
}

func (o *Overlay) addNode(n *Node) {
	if _, exists := o.nodes[n.ID]; !exists {
		o.order = append(o.order, n.ID)
	}
	o.nodes[n.ID] = n
}

// link adds the symmetric pair a -> b, b -> a.
func (o *Overlay) link(a, b string, distance float64, risk int) {
	o.extra[a] = append(o.extra[a], &Edge{FromID: a, ToID: b, Distance: distance, RiskFactor: risk})
	o.extra[b] = append(o.extra[b], &Edge{FromID: b, ToID: a, Distance: distance, RiskFactor: risk})
}
