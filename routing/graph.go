package routing

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// NodeKind tags what a node stands for in a working graph.
type NodeKind int

const (
	KindBase NodeKind = iota
	KindStart
	KindShelter
	KindDisasterRing
)

func (k NodeKind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindShelter:
		return "shelter"
	case KindDisasterRing:
		return "disaster_ring"
	default:
		return "base"
	}
}

// Coordinate is a (latitude, longitude) pair in degrees. On the wire it is a
// two element array.
type Coordinate struct {
	Lat float64
	Lon float64
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coordinate must be [lat, lon]: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate must have 2 elements, got %d", len(pair))
	}
	c.Lat, c.Lon = pair[0], pair[1]
	return nil
}

func (c *Coordinate) UnmarshalYAML(value *yaml.Node) error {
	var pair []float64
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("coordinate must be [lat, lon]: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate must have 2 elements, got %d", len(pair))
	}
	c.Lat, c.Lon = pair[0], pair[1]
	return nil
}

// Node represents a vertex in the road network. Nodes are never mutated after
// they are added to a graph.
type Node struct {
	ID       string
	Position Coordinate
	Kind     NodeKind

	// Set for KindShelter.
	ShelterID string
	// Set for KindDisasterRing.
	DisasterID string
	RingIndex  int
}

// Edge represents a directed connection between two nodes
type Edge struct {
	FromID     string
	ToID       string
	Distance   float64 // meters
	RiskFactor int
}

// MarshalJSON writes the edge as [neighborId, distanceMeters, riskFactor].
func (e *Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.ToID, e.Distance, e.RiskFactor})
}

// UnmarshalJSON reads the [neighborId, distanceMeters, riskFactor] form. The
// caller fills in FromID.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("edge must be [neighbor, distance, risk]: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("edge must have 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.ToID); err != nil {
		return fmt.Errorf("edge neighbor: %w", err)
	}
	if err := json.Unmarshal(raw[1], &e.Distance); err != nil {
		return fmt.Errorf("edge distance: %w", err)
	}
	var risk float64
	if err := json.Unmarshal(raw[2], &risk); err != nil {
		return fmt.Errorf("edge risk: %w", err)
	}
	if risk != float64(int(risk)) {
		return fmt.Errorf("edge risk must be an integer, got %v", risk)
	}
	e.RiskFactor = int(risk)
	return nil
}

// View is the read side of a graph, shared by the base network and per-query
// overlays.
type View interface {
	Node(id string) (*Node, bool)
	Neighbors(id string) []*Edge
	NodeIDs() []string
}

// Graph represents a directed road network. Node ids are kept in insertion
// order so that every traversal of the graph is reproducible.
type Graph struct {
	Nodes map[string]*Node
	Edges map[string][]*Edge
	order []string
}

func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		Edges: make(map[string][]*Edge),
	}
}

// AddNode registers a base node. Adding an existing id replaces its position.
func (g *Graph) AddNode(id string, pos Coordinate) *Node {
	n := &Node{ID: id, Position: pos, Kind: KindBase}
	if _, exists := g.Nodes[id]; !exists {
		g.order = append(g.order, id)
	}
	g.Nodes[id] = n
	return n
}

// AddEdge appends a directed edge from -> to.
func (g *Graph) AddEdge(from, to string, distance float64, risk int) {
	g.Edges[from] = append(g.Edges[from], &Edge{
		FromID:     from,
		ToID:       to,
		Distance:   distance,
		RiskFactor: risk,
	})
}

func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

func (g *Graph) Neighbors(id string) []*Edge {
	return g.Edges[id]
}

// NodeIDs returns node ids in insertion order. Graphs whose Nodes map was
// filled directly report their ids sorted instead.
func (g *Graph) NodeIDs() []string {
	if len(g.order) == len(g.Nodes) {
		out := make([]string, len(g.order))
		copy(out, g.order)
		return out
	}
	out := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, edges := range g.Edges {
		total += len(edges)
	}
	return total
}

// Validate checks that every edge endpoint exists and that no distance or risk
// is negative.
func (g *Graph) Validate() error {
	for _, id := range g.NodeIDs() {
		for _, e := range g.Edges[id] {
			if err := g.checkEdge(e); err != nil {
				return err
			}
		}
	}
	for from := range g.Edges {
		if _, ok := g.Nodes[from]; !ok {
			return fmt.Errorf("%w: edges listed for unknown node %q", ErrInvalidNetwork, from)
		}
	}
	return nil
}

func (g *Graph) checkEdge(e *Edge) error {
	if _, ok := g.Nodes[e.ToID]; !ok {
		return fmt.Errorf("%w: edge %s -> %s references unknown node", ErrInvalidNetwork, e.FromID, e.ToID)
	}
	if e.Distance < 0 {
		return fmt.Errorf("%w: edge %s -> %s has negative distance %.2f", ErrInvalidNetwork, e.FromID, e.ToID, e.Distance)
	}
	if e.RiskFactor < 0 {
		return fmt.Errorf("%w: edge %s -> %s has negative risk %d", ErrInvalidNetwork, e.FromID, e.ToID, e.RiskFactor)
	}
	return nil
}

// Payload converts any view to its wire form.
func Payload(v View) GraphPayload {
	p := GraphPayload{
		Nodes: make(map[string]Coordinate),
		Graph: make(map[string][]*Edge),
	}
	for _, id := range v.NodeIDs() {
		n, _ := v.Node(id)
		p.Nodes[id] = n.Position
		edges := v.Neighbors(id)
		if edges == nil {
			edges = []*Edge{}
		}
		p.Graph[id] = edges
	}
	return p
}
