package routing

import "fmt"

// EdgeRef names the edge a step is looking at.
type EdgeRef struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Step is one snapshot of search progress.
type Step struct {
	Visited     []string `json:"visited"`
	Frontier    []string `json:"frontier"`
	CurrentEdge *EdgeRef `json:"currentEdge"`
	Path        []string `json:"path"`
	Description string   `json:"stepDescription"`
}

// Trace is the append-only list of steps for one search. Every recorded step
// owns its slices.
type Trace struct {
	steps []Step
}

func (t *Trace) Steps() []Step {
	return t.steps
}

func (t *Trace) record(visited, frontier []string, edge *EdgeRef, path []string, description string) {
	t.steps = append(t.steps, Step{
		Visited:     cloneIDs(visited),
		Frontier:    cloneIDs(frontier),
		CurrentEdge: edge,
		Path:        cloneIDs(path),
		Description: description,
	})
}

func (t *Trace) initial(start string) {
	t.record(nil, []string{start}, nil, nil, "DIJKSTRA INITIALIZED. Scanning all routes for optimal safety.")
}

func (t *Trace) evaluating(visited, frontier []string, from, to string) {
	t.record(visited, frontier, &EdgeRef{From: from, To: to}, nil, fmt.Sprintf("Evaluating %s -> %s", from, to))
}

func (t *Trace) expanded(visited, frontier []string, current string) {
	t.record(visited, frontier, nil, nil, fmt.Sprintf("Searching... Current Node: %s", current))
}

func (t *Trace) success(visited, path []string, target string) {
	t.record(visited, nil, nil, path, fmt.Sprintf("DIJKSTRA SUCCESS: Optimal Safe Haven %s secured!", target))
}

func (t *Trace) failure(visited []string) {
	t.record(visited, nil, nil, nil, FailureDescription)
}

// FailureDescription ends every trace that never reached a target.
const FailureDescription = "FAILURE: All exit vectors compromised."

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
