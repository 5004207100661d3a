package routing

import "errors"

// Sentinel errors returned before any search begins.
var (
	// ErrInvalidQuery is returned when a simulation query is missing a required
	// field or carries out-of-range values.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrStartNotFound is returned when the search start node is not part of
	// the working graph.
	ErrStartNotFound = errors.New("start node not found")

	// ErrInvalidNetwork is returned when a base network has dangling edges or
	// negative weights.
	ErrInvalidNetwork = errors.New("invalid base network")

	// ErrEmptyGraph is returned by lookups on a graph without nodes.
	ErrEmptyGraph = errors.New("graph has no nodes")
)
