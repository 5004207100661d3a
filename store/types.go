package store

import (
	"encoding/json"
	"time"

	"evacuation-route-server/routing"
)

// Run is the stored record of one completed simulation.
type Run struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	Success       bool            `json:"success"`
	StartNode     string          `json:"startNode"`
	TargetPrefix  string          `json:"targetPrefix"`
	ShelterCount  int             `json:"shelterCount"`
	DisasterCount int             `json:"disasterCount"`
	StepCount     int             `json:"stepCount"`
	Path          []string        `json:"path"`
	Cost          float64         `json:"cost"`
	Query         json.RawMessage `json:"query,omitempty"`
}

// NewRun summarizes a plan result for storage.
func NewRun(id string, res *routing.PlanResult) (*Run, error) {
	query, err := json.Marshal(res.Query)
	if err != nil {
		return nil, err
	}
	path := res.Path
	if path == nil {
		path = []string{}
	}
	return &Run{
		ID:            id,
		CreatedAt:     time.Now().UTC(),
		Success:       res.Success,
		StartNode:     res.Query.StartNode,
		TargetPrefix:  res.Query.TargetPrefix,
		ShelterCount:  len(res.Query.Shelters),
		DisasterCount: len(res.Query.Disasters),
		StepCount:     len(res.Steps),
		Path:          path,
		Cost:          res.Cost,
		Query:         query,
	}, nil
}
