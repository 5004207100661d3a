package routing

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheapestSimplePath enumerates every simple path from start to a node whose
// id has prefix and returns the lowest cost.
func cheapestSimplePath(g *Graph, start, prefix string) (float64, bool) {
	best := math.Inf(1)
	onPath := map[string]bool{start: true}

	var walk func(id string, cost float64)
	walk = func(id string, cost float64) {
		if strings.HasPrefix(id, prefix) {
			best = math.Min(best, cost)
			return
		}
		for _, e := range g.Neighbors(id) {
			if onPath[e.ToID] {
				continue
			}
			onPath[e.ToID] = true
			walk(e.ToID, cost+edgeCost(e))
			onPath[e.ToID] = false
		}
	}
	walk(start, 0)
	return best, !math.IsInf(best, 1)
}

func randomNetwork(rng *rand.Rand, n int) *Graph {
	g := NewGraph()
	for i := 0; i < n; i++ {
		g.AddNode(fmt.Sprintf("N%d", i), Coordinate{Lat: rng.Float64(), Lon: rng.Float64()})
	}
	g.AddNode("EXIT", Coordinate{Lat: rng.Float64(), Lon: rng.Float64()})
	ids := g.NodeIDs()
	for _, from := range ids {
		for _, to := range ids {
			if from == to || rng.Intn(3) != 0 {
				continue
			}
			g.AddEdge(from, to, float64(rng.Intn(5000)), rng.Intn(4))
		}
	}
	return g
}

func assertValidPath(t *testing.T, v View, path []string, start, prefix string) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.True(t, strings.HasPrefix(path[len(path)-1], prefix), "path ends at %s", path[len(path)-1])
	for i := 0; i+1 < len(path); i++ {
		assert.NotNil(t, cheapestEdge(v, path[i], path[i+1]), "no edge %s -> %s", path[i], path[i+1])
	}
}

func pathCost(v View, path []string) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += edgeCost(cheapestEdge(v, path[i], path[i+1]))
	}
	return total
}

func TestSearchMatchesExhaustiveEnumeration(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 25; round++ {
		g := randomNetwork(rng, 6)

		want, reachable := cheapestSimplePath(g, "N0", "EXIT")
		res, err := Search(g, "N0", "EXIT", nil, SearchOptions{})
		require.NoError(t, err)

		require.Equal(t, reachable, res.Success, "round %d", round)
		if !reachable {
			assert.Empty(t, res.Path)
			continue
		}
		assert.InDelta(t, want, res.Cost, 1e-6, "round %d", round)
		assertValidPath(t, g, res.Path, "N0", "EXIT")
		assert.InDelta(t, res.Cost, pathCost(g, res.Path), 1e-6)
	}
}

func TestSearchTrace(t *testing.T) {
	g := lineNetwork()

	res, err := Search(g, "A", "C", nil, SearchOptions{})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, []string{"A", "B", "C"}, res.Path)
	assert.InDelta(t, 2220.0, res.Cost, 1e-9)

	require.Len(t, res.Steps, 4)

	first := res.Steps[0]
	assert.Equal(t, "DIJKSTRA INITIALIZED. Scanning all routes for optimal safety.", first.Description)
	assert.Empty(t, first.Visited)
	assert.Equal(t, []string{"A"}, first.Frontier)
	assert.Nil(t, first.CurrentEdge)

	assert.Equal(t, "Searching... Current Node: A", res.Steps[1].Description)
	assert.Equal(t, []string{"A"}, res.Steps[1].Visited)
	assert.Equal(t, []string{"B"}, res.Steps[1].Frontier)

	// C is reached at 2220, D at 1110 + 1110 + 200.
	assert.Equal(t, "Searching... Current Node: B", res.Steps[2].Description)
	assert.Equal(t, []string{"C", "D"}, res.Steps[2].Frontier)

	last := res.Steps[3]
	assert.Equal(t, "DIJKSTRA SUCCESS: Optimal Safe Haven C secured!", last.Description)
	assert.Equal(t, []string{"A", "B", "C"}, last.Visited)
	assert.Empty(t, last.Frontier)
	assert.Equal(t, []string{"A", "B", "C"}, last.Path)
}

func TestSearchStartIsTarget(t *testing.T) {
	res, err := Search(lineNetwork(), "A", "A", nil, SearchOptions{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"A"}, res.Path)
	assert.Zero(t, res.Cost)
	assert.Len(t, res.Steps, 2)
}

func TestSearchFrontierTieBreak(t *testing.T) {
	g := NewGraph()
	g.AddNode("S", Coordinate{})
	for _, id := range []string{"c", "a", "b"} {
		g.AddNode(id, Coordinate{Lat: 1})
		g.AddEdge("S", id, 10, 0)
	}

	res, err := Search(g, "S", "none", nil, SearchOptions{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"a", "b", "c"}, res.Steps[1].Frontier)

	last := res.Steps[len(res.Steps)-1]
	assert.Equal(t, FailureDescription, last.Description)
	assert.Equal(t, []string{"S", "a", "b", "c"}, last.Visited)
	assert.Empty(t, last.Path)
}

func TestSearchEdgeSteps(t *testing.T) {
	res, err := Search(lineNetwork(), "A", "C", nil, SearchOptions{EdgeSteps: true})
	require.NoError(t, err)

	var evaluated []EdgeRef
	for _, s := range res.Steps {
		if s.CurrentEdge != nil {
			evaluated = append(evaluated, *s.CurrentEdge)
			assert.Equal(t, fmt.Sprintf("Evaluating %s -> %s", s.CurrentEdge.From, s.CurrentEdge.To), s.Description)
		}
	}
	assert.Equal(t, []EdgeRef{
		{From: "A", To: "B"},
		{From: "B", To: "A"},
		{From: "B", To: "C"},
		{From: "B", To: "D"},
	}, evaluated)
	assert.Equal(t, []string{"A", "B", "C"}, res.Path)
}

func TestSearchSkipsBlockedEdges(t *testing.T) {
	g := lineNetwork()
	g.AddEdge("A", "D", 5000, 0)
	g.AddEdge("D", "C", 5000, 0)
	d := Disaster{ID: "d", Position: &Coordinate{Lat: 0, Lon: 0.015}, Radius: meters(100)}

	res, err := Search(g, "A", "C", []Disaster{d}, SearchOptions{})
	require.NoError(t, err)
	require.True(t, res.Success)
	// B -> C crosses the zone, so the route detours through D.
	assert.Equal(t, []string{"A", "B", "D", "C"}, res.Path)
	assert.Greater(t, res.BlockedEdges, 0)
}

func TestSearchErrors(t *testing.T) {
	_, err := Search(lineNetwork(), "nope", "C", nil, SearchOptions{})
	assert.ErrorIs(t, err, ErrStartNotFound)

	_, err = Search(lineNetwork(), "A", "", nil, SearchOptions{})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestPlanScenarioBlockedShelter(t *testing.T) {
	shelter := Coordinate{Lat: 0, Lon: 0.021}
	q := Query{
		StartPosition: &Coordinate{Lat: 0, Lon: -0.001},
		Shelters:      []Shelter{{ID: "1", Position: &shelter}},
		Disasters:     []Disaster{{ID: "d", Type: "fire", Position: &shelter, Radius: meters(300)}},
	}

	res, err := Plan(lineNetwork(), q)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{}, res.Path)

	last := res.Steps[len(res.Steps)-1]
	assert.Equal(t, FailureDescription, last.Description)
	assert.NotContains(t, last.Visited, "SHELTER_1")
	assert.Contains(t, last.Visited, StartNodeID)
	assert.Contains(t, last.Visited, "B")
	assert.NotContains(t, last.Visited, "C")
}

func TestPlanScenarioStartInsideDisaster(t *testing.T) {
	start := Coordinate{Lat: 0, Lon: 0.01}
	q := Query{
		StartPosition: &start,
		Shelters:      []Shelter{{ID: "1", Position: &Coordinate{Lat: 0, Lon: 0.021}}},
		Disasters:     []Disaster{{ID: "d", Type: "flood", Position: &start, Radius: meters(500)}},
	}

	res, err := Plan(lineNetwork(), q)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.Path)
	require.Len(t, res.Steps, 3)
	assert.Equal(t, []string{StartNodeID}, res.Steps[2].Visited)
	assert.Equal(t, FailureDescription, res.Steps[2].Description)
}

func TestPlanScenarioRoadBeatsDirectLine(t *testing.T) {
	q := Query{
		StartPosition: &Coordinate{Lat: 0, Lon: -0.001},
		Shelters:      []Shelter{{ID: "1", Position: &Coordinate{Lat: 0, Lon: 0.021}}},
	}

	res, err := Plan(lineNetwork(), q)
	require.NoError(t, err)
	require.True(t, res.Success)
	assertValidPath(t, res.Graph, res.Path, StartNodeID, ShelterPrefix)

	assert.NotEqual(t, []string{StartNodeID, "SHELTER_1"}, res.Path)
	direct := cheapestEdge(res.Graph, StartNodeID, "SHELTER_1")
	require.NotNil(t, direct)
	assert.Less(t, res.Cost, edgeCost(direct))
	assert.False(t, Summarize(res.Graph, res.Path).UsesDirectLine)
}

func TestPlanDirectLineWhenRoadsAreFar(t *testing.T) {
	base := NewGraph()
	base.AddNode("FAR1", Coordinate{Lat: 1, Lon: 1})
	base.AddNode("FAR2", Coordinate{Lat: 1, Lon: 1.01})
	base.AddEdge("FAR1", "FAR2", 1110, 0)

	q := Query{
		StartPosition: &Coordinate{Lat: 0, Lon: 0},
		Shelters:      []Shelter{{ID: "1", Position: &Coordinate{Lat: 0, Lon: 0.001}}},
	}

	res, err := Plan(base, q)
	require.NoError(t, err)
	assert.Equal(t, []string{StartNodeID, "SHELTER_1"}, res.Path)
	assert.InDelta(t, 0.001*DegreesToMeters+DirectLineRisk*RiskCostMultiplier, res.Cost, 1e-6)
}

func TestPlanPicksNearestOfSeveralShelters(t *testing.T) {
	q := Query{
		StartPosition: &Coordinate{Lat: 0, Lon: -0.001},
		Shelters: []Shelter{
			{ID: "far", Position: &Coordinate{Lat: 0, Lon: 0.021}},
			{ID: "near", Position: &Coordinate{Lat: 0, Lon: 0.001}},
		},
	}

	res, err := Plan(lineNetwork(), q)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "SHELTER_near", res.Path[len(res.Path)-1])
}

func TestPlanFromBaseNode(t *testing.T) {
	q := Query{
		StartNode: "A",
		Shelters:  []Shelter{{ID: "1", Position: &Coordinate{Lat: 0, Lon: 0.021}}},
	}

	res, err := Plan(lineNetwork(), q)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "A", res.Path[0])
	_, ok := res.Graph.Node(StartNodeID)
	assert.False(t, ok)
}

func TestPlanErrors(t *testing.T) {
	_, err := Plan(NewGraph(), Query{StartNode: "A"})
	assert.ErrorIs(t, err, ErrEmptyGraph)

	_, err = Plan(lineNetwork(), Query{StartNode: "missing"})
	assert.ErrorIs(t, err, ErrStartNotFound)

	_, err = Plan(lineNetwork(), Query{})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestPlanIsDeterministic(t *testing.T) {
	q := Query{
		StartPosition: &Coordinate{Lat: 0, Lon: -0.001},
		Shelters: []Shelter{
			{ID: "1", Position: &Coordinate{Lat: 0, Lon: 0.021}},
			{ID: "2", Position: &Coordinate{Lat: 0.011, Lon: 0.011}},
		},
		Disasters: []Disaster{
			{ID: "a", Position: &Coordinate{Lat: 0, Lon: 0.005}, Radius: meters(150)},
			{ID: "b", Position: &Coordinate{Lat: 0.005, Lon: 0.015}, Radius: meters(80)},
		},
		EdgeSteps: true,
	}

	first, err := Plan(lineNetwork(), q)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Plan(lineNetwork(), q)
		require.NoError(t, err)
		assert.Equal(t, first.Steps, again.Steps)
		assert.Equal(t, first.Path, again.Path)
		assert.Equal(t, Payload(first.Graph), Payload(again.Graph))
	}
}
