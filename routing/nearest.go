package routing

import "math"

// NearestNode returns the node closest to pos by squared flat distance, along
// with that squared distance in degrees². Ties go to the smaller id.
func NearestNode(v View, pos Coordinate) (string, float64, error) {
	var nearest string
	minDist := math.Inf(1)

	for _, id := range v.NodeIDs() {
		n, _ := v.Node(id)
		dLat := n.Position.Lat - pos.Lat
		dLon := n.Position.Lon - pos.Lon
		dist := dLat*dLat + dLon*dLon
		if dist < minDist || (dist == minDist && id < nearest) {
			minDist = dist
			nearest = id
		}
	}

	if nearest == "" {
		return "", 0, ErrEmptyGraph
	}
	return nearest, minDist, nil
}
