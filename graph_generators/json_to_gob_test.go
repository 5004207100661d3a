package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evacuation-route-server/network"
	"evacuation-route-server/routing"
)

const nodeLinkDoc = `{
	"directed": false,
	"nodes": [
		{"id": 101, "y": 12.97, "x": 77.59},
		{"id": 102, "lat": 12.98, "lon": 77.60, "y": 0, "x": 0},
		{"id": "depot", "y": 12.99, "x": 77.61}
	],
	"links": [
		{"source": 101, "target": 102, "length": 1500.5},
		{"source": 102, "target": "depot", "distance_m": 900, "risk": 2}
	]
}`

func TestDecodeNodeLink(t *testing.T) {
	g, err := decodeNetwork([]byte(nodeLinkDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"101", "102", "depot"}, g.NodeIDs())
	n, _ := g.Node("102")
	assert.Equal(t, routing.Coordinate{Lat: 12.98, Lon: 77.60}, n.Position)

	assert.Equal(t, 4, g.EdgeCount())
	back := g.Neighbors("depot")
	require.Len(t, back, 1)
	assert.Equal(t, routing.Edge{FromID: "depot", ToID: "102", Distance: 900, RiskFactor: 2}, *back[0])
}

func TestDecodeNodeLinkRejects(t *testing.T) {
	_, err := decodeNetwork([]byte(`{"nodes": [{"id": 1}], "links": [{"source": 1, "target": 9, "length": 3}]}`))
	assert.ErrorIs(t, err, routing.ErrInvalidNetwork)

	_, err = decodeNetwork([]byte(`{"nodes": [{"id": 1}, {"id": 2}], "links": [{"source": 1, "target": 2, "risk": 1.5}]}`))
	assert.Error(t, err)

	_, err = decodeNetwork([]byte(`{"nodes": [{"id": true}], "links": []}`))
	assert.Error(t, err)
}

func TestConvertJSONToGOB(t *testing.T) {
	dir := t.TempDir()

	input := filepath.Join(dir, "city.json")
	f, err := os.Create(input)
	require.NoError(t, err)
	require.NoError(t, network.SaveJSON(f, network.Default()))
	require.NoError(t, f.Close())

	output := filepath.Join(dir, "out", "city.gob")
	require.NoError(t, convertJSONToGOB(input, output))

	g, err := network.Load(output)
	require.NoError(t, err)
	assert.Equal(t, routing.Payload(network.Default()), routing.Payload(g))
}
