package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeRoadRoute(t *testing.T) {
	q := Query{
		StartPosition: &Coordinate{Lat: 0, Lon: -0.001},
		Shelters:      []Shelter{{ID: "1", Position: &Coordinate{Lat: 0, Lon: 0.021}}},
	}
	res, err := Plan(lineNetwork(), q)
	require.NoError(t, err)

	s := Summarize(res.Graph, res.Path)

	require.Len(t, s.Legs, len(res.Path)-1)
	assert.Equal(t, LegConnector, s.Legs[0].Kind)
	assert.Equal(t, LegConnector, s.Legs[len(s.Legs)-1].Kind)
	for _, leg := range s.Legs[1 : len(s.Legs)-1] {
		assert.Equal(t, LegRoad, leg.Kind)
	}
	assert.Equal(t, "1", s.Shelter)
	assert.Zero(t, s.RingNodes)
	assert.False(t, s.UsesDirectLine)
	assert.InDelta(t, res.Cost, s.TotalCost, 1e-6)
	assert.InDelta(t, s.TotalDistanceM+s.TotalRiskCost, s.TotalCost, 1e-9)
}

func TestSummarizeRingAndDirectLegs(t *testing.T) {
	start := Coordinate{Lat: 0, Lon: -0.001}
	o := Augment(lineNetwork(), &start,
		[]Shelter{{ID: "1", Position: &Coordinate{Lat: 0, Lon: 0.021}}},
		[]Disaster{{ID: "d", Position: &Coordinate{Lat: 0.005, Lon: 0.01}, Radius: meters(100)}})

	ring := Summarize(o, []string{StartNodeID, "Avoid_Dd_0", "Avoid_Dd_1", "SHELTER_1"})
	require.Len(t, ring.Legs, 3)
	for _, leg := range ring.Legs {
		assert.Equal(t, LegRing, leg.Kind)
		assert.Equal(t, RingRisk, leg.RiskFactor)
	}
	assert.Equal(t, 2, ring.RingNodes)
	assert.InDelta(t, float64(3*RingRisk*RiskCostMultiplier), ring.TotalRiskCost, 1e-9)

	direct := Summarize(o, []string{StartNodeID, "SHELTER_1"})
	require.Len(t, direct.Legs, 1)
	assert.Equal(t, LegDirectLine, direct.Legs[0].Kind)
	assert.True(t, direct.UsesDirectLine)
}

func TestSummarizeEmptyPath(t *testing.T) {
	s := Summarize(lineNetwork(), []string{})
	assert.Empty(t, s.Legs)
	assert.NotNil(t, s.Legs)
	assert.Zero(t, s.TotalCost)
	assert.Empty(t, s.Shelter)
}

func TestNearestNode(t *testing.T) {
	g := lineNetwork()

	id, dist, err := NearestNode(g, Coordinate{Lat: 0, Lon: 0.004})
	require.NoError(t, err)
	assert.Equal(t, "A", id)
	assert.InDelta(t, 0.004*0.004, dist, 1e-15)

	id, _, err = NearestNode(g, Coordinate{Lat: 0.009, Lon: 0.0101})
	require.NoError(t, err)
	assert.Equal(t, "D", id)
}

func TestNearestNodeTieGoesToSmallerID(t *testing.T) {
	g := NewGraph()
	g.AddNode("b", Coordinate{Lat: 0, Lon: 1})
	g.AddNode("a", Coordinate{Lat: 0, Lon: -1})

	id, dist, err := NearestNode(g, Coordinate{})
	require.NoError(t, err)
	assert.Equal(t, "a", id)
	assert.Equal(t, 1.0, dist)
}

func TestNearestNodeEmptyGraph(t *testing.T) {
	_, _, err := NearestNode(NewGraph(), Coordinate{})
	assert.ErrorIs(t, err, ErrEmptyGraph)
}
