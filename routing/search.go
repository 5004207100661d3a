package routing

import (
	"container/heap"
	"fmt"
	"log"
	"math"
	"strings"
)

// RiskCostMultiplier converts an edge risk factor into cost units.
const RiskCostMultiplier = 100

type SearchOptions struct {
	// EdgeSteps records an extra step for every passable edge the search
	// evaluates.
	EdgeSteps bool
}

// SearchResult is the outcome of one risk-weighted search.
type SearchResult struct {
	Steps        []Step
	Path         []string
	Success      bool
	Cost         float64
	Expanded     int
	BlockedEdges int
}

// PlanResult is a search together with the working graph it ran on.
type PlanResult struct {
	SearchResult
	Query Query
	Graph *Overlay
}

// edgeCost is the weight of traversing e: distance plus the risk penalty.
func edgeCost(e *Edge) float64 {
	return e.Distance + float64(e.RiskFactor*RiskCostMultiplier)
}

// Search runs Dijkstra from startNode until it finalizes a node whose id has
// targetPrefix. Edges crossing any disaster zone are skipped at traversal
// time. Running out of reachable nodes is not an error: the trace then ends
// in a failure step and Success is false.
func Search(g View, startNode, targetPrefix string, disasters []Disaster, opts SearchOptions) (*SearchResult, error) {
	if _, ok := g.Node(startNode); !ok {
		return nil, fmt.Errorf("%w: %q", ErrStartNotFound, startNode)
	}
	if targetPrefix == "" {
		return nil, fmt.Errorf("%w: empty target prefix", ErrInvalidQuery)
	}

	openSet := &PriorityQueue{}
	heap.Init(openSet)
	heap.Push(openSet, &queueItem{NodeID: startNode, Priority: 0})

	gScore := map[string]float64{startNode: 0}
	previous := make(map[string]string)
	finalized := make(map[string]bool)
	visited := make([]string, 0)

	score := func(id string) float64 {
		if s, ok := gScore[id]; ok {
			return s
		}
		return math.Inf(1)
	}

	trace := &Trace{}
	trace.initial(startNode)
	result := &SearchResult{}

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*queueItem)
		currentNode := current.NodeID
		if finalized[currentNode] {
			continue
		}
		finalized[currentNode] = true
		visited = append(visited, currentNode)
		result.Expanded++

		if strings.HasPrefix(currentNode, targetPrefix) {
			result.Path = reconstructPath(previous, currentNode)
			result.Cost = gScore[currentNode]
			result.Success = true
			trace.success(visited, result.Path, currentNode)
			result.Steps = trace.Steps()
			return result, nil
		}

		from, _ := g.Node(currentNode)
		for _, edge := range g.Neighbors(currentNode) {
			to, ok := g.Node(edge.ToID)
			if !ok {
				continue
			}
			if IsBlocked(from.Position, to.Position, disasters) {
				result.BlockedEdges++
				continue
			}

			tentative := gScore[currentNode] + edgeCost(edge)
			if opts.EdgeSteps {
				trace.evaluating(visited, openSet.snapshot(), currentNode, edge.ToID)
			}

			if tentative < score(edge.ToID) {
				gScore[edge.ToID] = tentative
				previous[edge.ToID] = currentNode
				heap.Push(openSet, &queueItem{NodeID: edge.ToID, Priority: tentative})
			}
		}

		trace.expanded(visited, openSet.snapshot(), currentNode)
	}

	trace.failure(visited)
	result.Steps = trace.Steps()
	result.Path = []string{}
	return result, nil
}

func reconstructPath(previous map[string]string, end string) []string {
	path := []string{end}
	for cur := end; ; {
		prev, ok := previous[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Plan validates q, builds its working graph on top of base and searches it.
func Plan(base *Graph, q Query) (*PlanResult, error) {
	if base == nil || len(base.Nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.StartPosition == nil {
		if _, ok := base.Node(q.StartNode); !ok {
			return nil, fmt.Errorf("%w: %q is not a base node", ErrStartNotFound, q.StartNode)
		}
	}

	overlay := Augment(base, q.StartPosition, q.Shelters, q.Disasters)
	log.Printf("Working graph ready: %d base nodes, %d injected nodes, %d injected edges",
		len(base.Nodes), len(overlay.Injected()), overlay.InjectedEdges())

	res, err := Search(overlay, q.StartNode, q.TargetPrefix, q.Disasters, SearchOptions{EdgeSteps: q.EdgeSteps})
	if err != nil {
		return nil, err
	}

	if res.Success {
		log.Printf("Route found: %d nodes, cost %.2f, %d expansions, %d blocked edges",
			len(res.Path), res.Cost, res.Expanded, res.BlockedEdges)
	} else {
		log.Printf("No safe route from %s: %d expansions, %d blocked edges",
			q.StartNode, res.Expanded, res.BlockedEdges)
	}

	return &PlanResult{SearchResult: *res, Query: q, Graph: overlay}, nil
}
