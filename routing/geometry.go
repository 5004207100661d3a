package routing

import "math"

const (
	// DegreesToMeters converts a flat degree distance into edge weight meters.
	DegreesToMeters = 111000.0
	// MetersPerDegree converts disaster radii from meters into degrees.
	MetersPerDegree = 111111.0

	// BlockRadiusScale widens a disaster radius for the edge blocking test.
	BlockRadiusScale = 1.2
	// RingRadiusScale places avoidance rings slightly outside the blocking
	// radius. Keep it larger than BlockRadiusScale.
	RingRadiusScale = 1.3
)

// degreeDistance is the flat Euclidean distance between two coordinates,
// measured in degrees.
func degreeDistance(a, b Coordinate) float64 {
	return math.Sqrt((a.Lat-b.Lat)*(a.Lat-b.Lat) + (a.Lon-b.Lon)*(a.Lon-b.Lon))
}

// metersBetween is the edge weight used for every injected edge.
func metersBetween(a, b Coordinate) float64 {
	return degreeDistance(a, b) * DegreesToMeters
}

// distToSegment returns the distance in degrees from p to the segment [v, w].
func distToSegment(p, v, w Coordinate) float64 {
	l2 := (w.Lat-v.Lat)*(w.Lat-v.Lat) + (w.Lon-v.Lon)*(w.Lon-v.Lon)
	if l2 == 0 {
		return degreeDistance(p, v)
	}
	t := ((p.Lat-v.Lat)*(w.Lat-v.Lat) + (p.Lon-v.Lon)*(w.Lon-v.Lon)) / l2
	t = math.Max(0, math.Min(1, t))
	proj := Coordinate{
		Lat: v.Lat + t*(w.Lat-v.Lat),
		Lon: v.Lon + t*(w.Lon-v.Lon),
	}
	return degreeDistance(p, proj)
}

// blockRadiusDegrees is the radius inside which a disaster blocks a segment.
func blockRadiusDegrees(radiusMeters float64) float64 {
	return radiusMeters * BlockRadiusScale / MetersPerDegree
}

// IsBlocked reports whether the segment p1-p2 passes through any disaster
// zone. It stops at the first blocking disaster.
func IsBlocked(p1, p2 Coordinate, disasters []Disaster) bool {
	_, blocked := blockingDisaster(p1, p2, disasters)
	return blocked
}

func blockingDisaster(p1, p2 Coordinate, disasters []Disaster) (string, bool) {
	for _, d := range disasters {
		if d.Position == nil || d.Radius == nil {
			continue
		}
		if distToSegment(*d.Position, p1, p2) < blockRadiusDegrees(*d.Radius) {
			return string(d.ID), true
		}
	}
	return "", false
}
