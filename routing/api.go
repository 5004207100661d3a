package routing

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	StartNodeID   = "USER_START"
	ShelterPrefix = "SHELTER_"
	RingPrefix    = "Avoid_D"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(Coordinate)
		if !(c.Lat >= -90 && c.Lat <= 90) {
			sl.ReportError(c.Lat, "Lat", "Lat", "latitude", "")
		}
		if !(c.Lon >= -180 && c.Lon <= 180) {
			sl.ReportError(c.Lon, "Lon", "Lon", "longitude", "")
		}
	}, Coordinate{})
	return v
}

// EntityID is a shelter or disaster id. On the wire it may be a string or a
// number; numbers are kept in decimal form.
type EntityID string

func (id *EntityID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = EntityID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = EntityID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = EntityID(n.String())
	return nil
}

// Shelter is a destination candidate.
type Shelter struct {
	ID       EntityID    `json:"id" yaml:"id" validate:"required"`
	Position *Coordinate `json:"position" yaml:"position" validate:"required"`
}

// NodeID is the working graph id of the shelter.
func (s Shelter) NodeID() string {
	return ShelterPrefix + string(s.ID)
}

// Disaster is a circular exclusion zone. Position and Radius are pointers so
// a missing field fails validation instead of reading as zero.
type Disaster struct {
	ID       EntityID    `json:"id" yaml:"id" validate:"required"`
	Type     string      `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=flood fire chemical"`
	Position *Coordinate `json:"position" yaml:"position" validate:"required"`
	Radius   *float64    `json:"radius" yaml:"radius" validate:"required,gte=0"` // meters
}

// Query is one evacuation request against the base network.
type Query struct {
	// StartPosition places the user on the map. When absent the search
	// starts from StartNode, which must then name a base node.
	StartPosition *Coordinate `json:"startPosition,omitempty" yaml:"startPosition,omitempty"`
	StartNode     string      `json:"startNode,omitempty" yaml:"startNode,omitempty"`
	Shelters      []Shelter   `json:"shelters" yaml:"shelters" validate:"dive"`
	Disasters     []Disaster  `json:"disasters" yaml:"disasters" validate:"dive"`
	TargetPrefix  string      `json:"targetPrefix,omitempty" yaml:"targetPrefix,omitempty"`
	EdgeSteps     bool        `json:"edgeSteps,omitempty" yaml:"edgeSteps,omitempty"`
}

// Validate fills defaults and rejects malformed queries.
func (q *Query) Validate() error {
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidQuery, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if q.StartPosition == nil && q.StartNode == "" {
		return fmt.Errorf("%w: startPosition or startNode is required", ErrInvalidQuery)
	}
	if q.StartNode == "" {
		q.StartNode = StartNodeID
	}
	if q.TargetPrefix == "" {
		q.TargetPrefix = ShelterPrefix
	}

	seen := make(map[string]bool)
	for _, s := range q.Shelters {
		if seen[s.NodeID()] {
			return fmt.Errorf("%w: duplicate shelter id %q", ErrInvalidQuery, s.ID)
		}
		seen[s.NodeID()] = true
	}
	for _, d := range q.Disasters {
		key := RingPrefix + string(d.ID)
		if seen[key] {
			return fmt.Errorf("%w: duplicate disaster id %q", ErrInvalidQuery, d.ID)
		}
		seen[key] = true
	}
	return nil
}

// GraphPayload is the wire form of a network: node id -> [lat, lon] and
// node id -> [[neighbor, distance, risk], ...].
type GraphPayload struct {
	Nodes map[string]Coordinate `json:"nodes"`
	Graph map[string][]*Edge    `json:"graph"`
}

// Build turns a payload into a validated base graph. Nodes are added in id
// order.
func (p GraphPayload) Build() (*Graph, error) {
	g := NewGraph()
	ids := make([]string, 0, len(p.Nodes))
	for id := range p.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		g.AddNode(id, p.Nodes[id])
	}
	for _, id := range ids {
		for _, e := range p.Graph[id] {
			g.AddEdge(id, e.ToID, e.Distance, e.RiskFactor)
		}
	}
	for from := range p.Graph {
		if _, ok := p.Nodes[from]; !ok && len(p.Graph[from]) > 0 {
			return nil, fmt.Errorf("%w: edges listed for unknown node %q", ErrInvalidNetwork, from)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// SimulationResponse is what the service sends back for one query.
type SimulationResponse struct {
	RunID      string       `json:"runId,omitempty"`
	Steps      []Step       `json:"steps"`
	Path       []string     `json:"path"`
	Success    bool         `json:"success"`
	Cost       float64      `json:"cost"`
	Summary    RouteSummary `json:"summary"`
	FinalGraph GraphPayload `json:"finalGraph"`
}

func PrepareResponse(res *PlanResult) SimulationResponse {
	path := res.Path
	if path == nil {
		path = []string{}
	}
	return SimulationResponse{
		Steps:      res.Steps,
		Path:       path,
		Success:    res.Success,
		Cost:       res.Cost,
		Summary:    Summarize(res.Graph, path),
		FinalGraph: Payload(res.Graph),
	}
}
