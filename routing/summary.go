package routing

type LegKind string

const (
	LegRoad       LegKind = "road"
	LegConnector  LegKind = "connector"
	LegRing       LegKind = "avoidance_ring"
	LegDirectLine LegKind = "direct_line"
)

// Leg is one hop of a resolved route.
type Leg struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceM  float64 `json:"distanceM"`
	RiskFactor int     `json:"riskFactor"`
	Kind       LegKind `json:"kind"`
}

// RouteSummary totals a resolved route for display.
type RouteSummary struct {
	Legs           []Leg   `json:"legs"`
	Shelter        string  `json:"shelter,omitempty"`
	TotalDistanceM float64 `json:"totalDistanceM"`
	TotalRiskCost  float64 `json:"totalRiskCost"`
	TotalCost      float64 `json:"totalCost"`
	RingNodes      int     `json:"ringNodes"`
	UsesDirectLine bool    `json:"usesDirectLine"`
}

// Summarize walks path over v. When two nodes are joined by several edges the
// cheapest one is reported, which is the one the search would have used.
func Summarize(v View, path []string) RouteSummary {
	summary := RouteSummary{Legs: make([]Leg, 0)}
	if len(path) == 0 {
		return summary
	}

	for _, id := range path {
		if n, ok := v.Node(id); ok && n.Kind == KindDisasterRing {
			summary.RingNodes++
		}
	}
	if last, ok := v.Node(path[len(path)-1]); ok {
		summary.Shelter = last.ID
		if last.Kind == KindShelter {
			summary.Shelter = last.ShelterID
		}
	}

	for i := 0; i+1 < len(path); i++ {
		edge := cheapestEdge(v, path[i], path[i+1])
		if edge == nil {
			continue
		}
		leg := Leg{
			From:       edge.FromID,
			To:         edge.ToID,
			DistanceM:  edge.Distance,
			RiskFactor: edge.RiskFactor,
			Kind:       legKind(v, edge),
		}
		if leg.Kind == LegDirectLine {
			summary.UsesDirectLine = true
		}
		summary.Legs = append(summary.Legs, leg)
		summary.TotalDistanceM += edge.Distance
		summary.TotalRiskCost += float64(edge.RiskFactor * RiskCostMultiplier)
	}
	summary.TotalCost = summary.TotalDistanceM + summary.TotalRiskCost
	return summary
}

func cheapestEdge(v View, from, to string) *Edge {
	var best *Edge
	for _, e := range v.Neighbors(from) {
		if e.ToID != to {
			continue
		}
		if best == nil || edgeCost(e) < edgeCost(best) {
			best = e
		}
	}
	return best
}

func legKind(v View, e *Edge) LegKind {
	from, _ := v.Node(e.FromID)
	to, _ := v.Node(e.ToID)
	if from == nil || to == nil {
		return LegConnector
	}
	switch {
	case from.Kind == KindBase && to.Kind == KindBase:
		return LegRoad
	case from.Kind == KindDisasterRing || to.Kind == KindDisasterRing:
		return LegRing
	case e.RiskFactor == DirectLineRisk && isStartShelterPair(from.Kind, to.Kind):
		return LegDirectLine
	default:
		return LegConnector
	}
}

func isStartShelterPair(a, b NodeKind) bool {
	return (a == KindStart && b == KindShelter) || (a == KindShelter && b == KindStart)
}
