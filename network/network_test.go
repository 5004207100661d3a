package network

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evacuation-route-server/routing"
)

func TestDefaultNetwork(t *testing.T) {
	g := Default()

	require.NoError(t, g.Validate())
	assert.Len(t, g.Nodes, 9)
	assert.Equal(t, 13, g.EdgeCount())
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "S", "S2", "F", "G"}, g.NodeIDs())
	assert.Empty(t, g.Neighbors("S2"))

	// Each call returns an independent graph.
	g.AddEdge("S2", "A", 1, 0)
	assert.Empty(t, Default().Neighbors("S2"))
}

func TestDefaultNetworkRoutesAroundDisaster(t *testing.T) {
	g := Default()
	q := routing.Query{
		StartNode: "A",
		Shelters:  []routing.Shelter{{ID: "main", Position: &routing.Coordinate{Lat: 12.9352, Lon: 77.6245}}},
	}

	clear, err := routing.Plan(g, q)
	require.NoError(t, err)
	require.True(t, clear.Success)
	assert.Equal(t, []string{"A", "E", "S", "SHELTER_main"}, clear.Path)

	// A zone on junction E closes the cheapest road.
	radius := 150.0
	q.Disasters = []routing.Disaster{{ID: "d", Type: "flood", Position: &routing.Coordinate{Lat: 12.9600, Lon: 77.5950}, Radius: &radius}}
	detour, err := routing.Plan(g, q)
	require.NoError(t, err)
	require.True(t, detour.Success)
	assert.Equal(t, []string{"A", "B", "D", "S", "SHELTER_main"}, detour.Path)
}

func TestGobRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SaveGob(&buf, Default()))

	g, err := LoadGob(&buf)
	require.NoError(t, err)
	assert.Equal(t, routing.Payload(Default()), routing.Payload(g))
	assert.Equal(t, Default().NodeIDs(), g.NodeIDs())
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "net.json")
	f, err := os.Create(jsonPath)
	require.NoError(t, err)
	require.NoError(t, SaveJSON(f, Default()))
	require.NoError(t, f.Close())

	gobPath := filepath.Join(dir, "net.gob")
	f, err = os.Create(gobPath)
	require.NoError(t, err)
	require.NoError(t, SaveGob(f, Default()))
	require.NoError(t, f.Close())

	for _, path := range []string{jsonPath, gobPath} {
		g, err := Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, routing.Payload(Default()), routing.Payload(g), path)
	}

	g, err := Load("")
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 9)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	csvPath := filepath.Join(dir, "net.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b"), 0o644))
	_, err = Load(csvPath)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"nodes": {"A": [0, 0]}, "graph": {"A": [["X", 1, 0]]}}`), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, routing.ErrInvalidNetwork)
}

func TestLoadOnce(t *testing.T) {
	first, err := LoadOnce("")
	require.NoError(t, err)

	second, err := LoadOnce("ignored.json")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
