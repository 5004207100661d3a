package routing

import (
	"fmt"
	"math"
	"sort"
)

const (
	NearestLinks = 3
	RingPoints   = 8

	ConnectorRisk  = 1
	RingRisk       = 5
	DirectLineRisk = 300
)

// Augment builds the working graph for one query. The user start, avoidance
// rings and the direct start-shelter lines are only added when start is set;
// shelters are always linked to their nearest base nodes. Shelters and
// disasters are expected to have passed Query.Validate.
func Augment(base *Graph, start *Coordinate, shelters []Shelter, disasters []Disaster) *Overlay {
	o := newOverlay(base)
	baseIDs := base.NodeIDs()

	if start != nil {
		o.addNode(&Node{ID: StartNodeID, Position: *start, Kind: KindStart})
		o.connectToNearest(baseIDs, StartNodeID, *start)

		for _, d := range disasters {
			o.addRing(d, *start, shelters)
		}

		for _, s := range shelters {
			o.link(StartNodeID, s.NodeID(), metersBetween(*start, *s.Position), DirectLineRisk)
		}
	}

	for _, s := range shelters {
		o.addNode(&Node{
			ID:        s.NodeID(),
			Position:  *s.Position,
			Kind:      KindShelter,
			ShelterID: string(s.ID),
		})
		o.connectToNearest(baseIDs, s.NodeID(), *s.Position)
	}

	return o
}

// RingNodeID names the i-th avoidance point around a disaster.
func RingNodeID(disasterID EntityID, i int) string {
	return fmt.Sprintf("%s%s_%d", RingPrefix, disasterID, i)
}

// connectToNearest links id to its closest base nodes. Injected nodes are
// never candidates.
func (o *Overlay) connectToNearest(baseIDs []string, id string, pos Coordinate) {
	type candidate struct {
		id   string
		dist float64
	}

	candidates := make([]candidate, 0, len(baseIDs))
	for _, nid := range baseIDs {
		n, _ := o.base.Node(nid)
		candidates = append(candidates, candidate{id: nid, dist: degreeDistance(n.Position, pos)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].id < candidates[j].id
	})

	for _, c := range candidates[:min(NearestLinks, len(candidates))] {
		o.link(id, c.id, c.dist*DegreesToMeters, ConnectorRisk)
	}
}

func (o *Overlay) addRing(d Disaster, start Coordinate, shelters []Shelter) {
	radius := *d.Radius * RingRadiusScale / MetersPerDegree

	var first, prev *Node
	for i := 0; i < RingPoints; i++ {
		angle := float64(i) * 2 * math.Pi / RingPoints
		n := &Node{
			ID: RingNodeID(d.ID, i),
			Position: Coordinate{
				Lat: d.Position.Lat + radius*math.Cos(angle),
				Lon: d.Position.Lon + radius*math.Sin(angle),
			},
			Kind:       KindDisasterRing,
			DisasterID: string(d.ID),
			RingIndex:  i,
		}
		o.addNode(n)

		if prev != nil {
			o.link(prev.ID, n.ID, metersBetween(prev.Position, n.Position), RingRisk)
		} else {
			first = n
		}
		prev = n

		o.link(StartNodeID, n.ID, metersBetween(start, n.Position), RingRisk)
		for _, s := range shelters {
			o.link(n.ID, s.NodeID(), metersBetween(*s.Position, n.Position), RingRisk)
		}
	}

	o.link(prev.ID, first.ID, metersBetween(first.Position, prev.Position), RingRisk)
}
