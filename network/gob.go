package network

import (
	"encoding/gob"
	"fmt"
	"io"

	"evacuation-route-server/routing"
)

// gobNode and gobEdge are the stored form. Slices keep node and edge order
// stable across a save and load.
type gobNode struct {
	ID  string
	Lat float64
	Lon float64
}

type gobEdge struct {
	FromID     string
	ToID       string
	Distance   float64
	RiskFactor int
}

type gobNetwork struct {
	Nodes []gobNode
	Edges []gobEdge
}

// SaveGob encodes g for fast startup loading.
func SaveGob(w io.Writer, g *routing.Graph) error {
	var stored gobNetwork
	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		stored.Nodes = append(stored.Nodes, gobNode{ID: id, Lat: n.Position.Lat, Lon: n.Position.Lon})
		for _, e := range g.Neighbors(id) {
			stored.Edges = append(stored.Edges, gobEdge{
				FromID:     e.FromID,
				ToID:       e.ToID,
				Distance:   e.Distance,
				RiskFactor: e.RiskFactor,
			})
		}
	}

	if err := gob.NewEncoder(w).Encode(stored); err != nil {
		return fmt.Errorf("failed to encode GOB: %w", err)
	}
	return nil
}

// LoadGob decodes a network written by SaveGob and validates it.
func LoadGob(r io.Reader) (*routing.Graph, error) {
	var stored gobNetwork
	if err := gob.NewDecoder(r).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to decode GOB: %w", err)
	}

	g := routing.NewGraph()
	for _, n := range stored.Nodes {
		g.AddNode(n.ID, routing.Coordinate{Lat: n.Lat, Lon: n.Lon})
	}
	for _, e := range stored.Edges {
		g.AddEdge(e.FromID, e.ToID, e.Distance, e.RiskFactor)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
