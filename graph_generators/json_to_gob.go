package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"evacuation-route-server/network"
	"evacuation-route-server/routing"
)

// NodeLinkGraph is the node-link JSON exported by common graph tooling.
// Nodes carry lat/lon or x/y; links carry a length in meters and an optional
// integer risk.
type NodeLinkGraph struct {
	Directed bool           `json:"directed"`
	Nodes    []NodeLinkNode `json:"nodes"`
	Links    []NodeLinkEdge `json:"links"`
}

type NodeLinkNode struct {
	ID  interface{} `json:"id"` // Can be a number or a string
	Lat *float64    `json:"lat"`
	Lon *float64    `json:"lon"`
	Y   float64     `json:"y"`
	X   float64     `json:"x"`
}

type NodeLinkEdge struct {
	Source    interface{} `json:"source"`
	Target    interface{} `json:"target"`
	Length    float64     `json:"length"`
	DistanceM float64     `json:"distance_m"`
	Risk      float64     `json:"risk"`
}

func convertID(id interface{}) (string, error) {
	switch v := id.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	default:
		return "", fmt.Errorf("unsupported ID type: %T", id)
	}
}

// decodeNetwork accepts either the server's own {"nodes", "graph"} form or a
// node-link document.
func decodeNetwork(data []byte) (*routing.Graph, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if _, ok := top["links"]; !ok {
		return network.LoadJSON(bytes.NewReader(data))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var nl NodeLinkGraph
	if err := dec.Decode(&nl); err != nil {
		return nil, fmt.Errorf("failed to parse node-link JSON: %w", err)
	}
	return fromNodeLink(nl)
}

func fromNodeLink(nl NodeLinkGraph) (*routing.Graph, error) {
	g := routing.NewGraph()
	for _, n := range nl.Nodes {
		id, err := convertID(n.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to convert node ID (%v): %w", n.ID, err)
		}
		pos := routing.Coordinate{Lat: n.Y, Lon: n.X}
		if n.Lat != nil && n.Lon != nil {
			pos = routing.Coordinate{Lat: *n.Lat, Lon: *n.Lon}
		}
		g.AddNode(id, pos)
	}

	for _, e := range nl.Links {
		from, err := convertID(e.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to convert source ID (%v): %w", e.Source, err)
		}
		to, err := convertID(e.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to convert target ID (%v): %w", e.Target, err)
		}
		if e.Risk != math.Trunc(e.Risk) {
			return nil, fmt.Errorf("link %s -> %s has non-integer risk %v", from, to, e.Risk)
		}

		distance := e.Length
		if distance == 0 {
			distance = e.DistanceM
		}
		g.AddEdge(from, to, distance, int(e.Risk))
		if !nl.Directed {
			g.AddEdge(to, from, distance, int(e.Risk))
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func convertJSONToGOB(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open JSON file %s: %w", inputPath, err)
	}

	g, err := decodeNetwork(data)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", inputPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", outputPath, err)
	}
	gobFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create GOB file %s: %w", outputPath, err)
	}
	defer gobFile.Close()

	if err := network.SaveGob(gobFile, g); err != nil {
		return fmt.Errorf("failed to encode GOB to %s: %w", outputPath, err)
	}

	fmt.Printf("Successfully converted %s to %s\n", inputPath, outputPath)
	fmt.Printf("Nodes: %d, Edges: %d\n", len(g.Nodes), g.EdgeCount())
	return nil
}

func main() {
	output := flag.String("o", "", "output gob file (defaults to the input name with .gob)")
	bundled := flag.Bool("default", false, "write the bundled demo network instead of reading a file")
	flag.Parse()

	if *bundled {
		if *output == "" {
			fmt.Println("Usage: json_to_gob -default -o <output_gob_file>")
			os.Exit(1)
		}
		f, err := os.Create(*output)
		if err == nil {
			err = network.SaveGob(f, network.Default())
			f.Close()
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() < 1 {
		fmt.Println("Usage: json_to_gob [-o output_gob_file] <input_json_file>")
		os.Exit(1)
	}

	inputPath := flag.Arg(0)
	outputPath := *output
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		base := strings.TrimSuffix(filepath.Base(inputPath), ext)
		outputPath = filepath.Join(filepath.Dir(inputPath), base+".gob")
	}

	if err := convertJSONToGOB(inputPath, outputPath); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
