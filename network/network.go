// Package network provides the static base road network the planner searches.
package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"evacuation-route-server/routing"
)

var ErrUnsupportedFormat = errors.New("unsupported network file format")

var (
	baseOnce  sync.Once
	baseGraph *routing.Graph
	baseErr   error
)

// Default builds the bundled demo network: five junctions in central
// Bangalore, two detour flanks and two shelter sites. Roads are one way.
func Default() *routing.Graph {
	g := routing.NewGraph()

	g.AddNode("A", routing.Coordinate{Lat: 12.9716, Lon: 77.5946})
	g.AddNode("B", routing.Coordinate{Lat: 12.9725, Lon: 77.6000})
	g.AddNode("C", routing.Coordinate{Lat: 12.9680, Lon: 77.6050})
	g.AddNode("D", routing.Coordinate{Lat: 12.9650, Lon: 77.6100})
	g.AddNode("E", routing.Coordinate{Lat: 12.9600, Lon: 77.5950})
	g.AddNode("S", routing.Coordinate{Lat: 12.9352, Lon: 77.6245})
	g.AddNode("S2", routing.Coordinate{Lat: 12.9400, Lon: 77.5850})
	g.AddNode("F", routing.Coordinate{Lat: 12.9550, Lon: 77.6300}) // east flank
	g.AddNode("G", routing.Coordinate{Lat: 12.9550, Lon: 77.5700}) // west flank

	g.AddEdge("A", "B", 300, 1)
	g.AddEdge("A", "C", 400, 5)
	g.AddEdge("A", "E", 500, 0)
	g.AddEdge("A", "F", 800, 1)
	g.AddEdge("A", "G", 800, 1)
	g.AddEdge("B", "D", 350, 1)
	g.AddEdge("B", "G", 300, 1)
	g.AddEdge("C", "D", 200, 5)
	g.AddEdge("C", "F", 400, 1)
	g.AddEdge("D", "S", 600, 0)
	g.AddEdge("E", "S", 900, 0)
	g.AddEdge("F", "S", 1000, 1)
	g.AddEdge("G", "S", 1100, 1)

	return g
}

// Load reads a network from path. An empty path selects the bundled network;
// ".gob" files use the binary format and everything else is read as JSON.
func Load(path string) (*routing.Graph, error) {
	if path == "" {
		log.Println("No network file configured, using bundled demo network")
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open network file %s: %w", path, err)
	}
	defer f.Close()

	var g *routing.Graph
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gob":
		g, err = LoadGob(f)
	case ".json", "":
		g, err = LoadJSON(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load network from %s: %w", path, err)
	}

	log.Printf("Loaded network from %s: %d nodes, %d edges", path, len(g.Nodes), g.EdgeCount())
	return g, nil
}

// LoadOnce loads the process-wide base network on first use. Later calls
// return the same graph, or the same error, whatever path they pass.
func LoadOnce(path string) (*routing.Graph, error) {
	baseOnce.Do(func() {
		baseGraph, baseErr = Load(path)
	})
	return baseGraph, baseErr
}

// LoadJSON decodes {"nodes": {...}, "graph": {...}} and validates it.
func LoadJSON(r io.Reader) (*routing.Graph, error) {
	var payload routing.GraphPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse network JSON: %w", err)
	}
	return payload.Build()
}

// SaveJSON writes g in the same form LoadJSON reads.
func SaveJSON(w io.Writer, g *routing.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(routing.Payload(g)); err != nil {
		return fmt.Errorf("failed to encode network JSON: %w", err)
	}
	return nil
}
