package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"evacuation-route-server/routing"
	"evacuation-route-server/sensors"
	"evacuation-route-server/store"
)

type ApiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type NearestRequest struct {
	Position *routing.Coordinate `json:"position" binding:"required"`
}

type NearestResponse struct {
	NodeID   string             `json:"nodeId"`
	Position routing.Coordinate `json:"position"`
	// DistanceM is the flat distance scaled like edge weights.
	DistanceM float64 `json:"distanceM"`
}

// server holds everything the handlers share. The base network is read-only;
// runs is nil when history is disabled.
type server struct {
	base         *routing.Graph
	sensors      *sensors.Store
	runs         *store.Store
	targetPrefix string
}

func respondError(c *gin.Context, status int, code, message string, err error) {
	apiErr := ApiError{Code: code, Message: message}
	if err != nil {
		apiErr.Details = err.Error()
	}
	c.JSON(status, gin.H{"error": apiErr})
}

// planErrorStatus maps errors returned by routing.Plan to HTTP statuses.
func planErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, routing.ErrInvalidQuery):
		return http.StatusBadRequest, "INVALID_QUERY"
	case errors.Is(err, routing.ErrStartNotFound):
		return http.StatusNotFound, "START_NOT_FOUND"
	case errors.Is(err, routing.ErrEmptyGraph):
		return http.StatusServiceUnavailable, "NETWORK_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"nodes":       len(s.base.Nodes),
		"edges":       s.base.EdgeCount(),
		"runsEnabled": s.runs != nil,
	})
}

func (s *server) handleGraph(c *gin.Context) {
	c.JSON(http.StatusOK, routing.Payload(s.base))
}

func (s *server) handleSimulate(c *gin.Context) {
	log.Println("=== Received simulation request ===")

	var q routing.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		log.Printf("ERROR: Failed to parse request: %v", err)
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body", err)
		return
	}
	if q.TargetPrefix == "" {
		q.TargetPrefix = s.targetPrefix
	}

	log.Printf("Request details: start=%s shelters=%d disasters=%d edgeSteps=%t",
		describeStart(q), len(q.Shelters), len(q.Disasters), q.EdgeSteps)

	started := time.Now()
	res, err := routing.Plan(s.base, q)
	simulationSeconds.Observe(time.Since(started).Seconds())
	if err != nil {
		log.Printf("ERROR: Simulation rejected: %v", err)
		simulationsTotal.WithLabelValues("rejected").Inc()
		status, code := planErrorStatus(err)
		respondError(c, status, code, "simulation could not start", err)
		return
	}

	outcome := "failure"
	if res.Success {
		outcome = "success"
	}
	simulationsTotal.WithLabelValues(outcome).Inc()
	simulationSteps.Observe(float64(len(res.Steps)))
	blockedEdgesTotal.Add(float64(res.BlockedEdges))

	resp := routing.PrepareResponse(res)
	resp.RunID = uuid.NewString()

	if s.runs != nil {
		run, err := store.NewRun(resp.RunID, res)
		if err == nil {
			err = s.runs.SaveRun(c.Request.Context(), run)
		}
		if err != nil {
			log.Printf("Warning: failed to record run %s: %v", resp.RunID, err)
		}
	}

	log.Printf("Sending response: run=%s success=%t steps=%d path=%v", resp.RunID, resp.Success, len(resp.Steps), resp.Path)
	log.Println("=== Simulation request completed ===")
	c.JSON(http.StatusOK, resp)
}

func describeStart(q routing.Query) string {
	if q.StartPosition != nil {
		return fmt.Sprintf("(%.6f, %.6f)", q.StartPosition.Lat, q.StartPosition.Lon)
	}
	return q.StartNode
}

func (s *server) handleNearest(c *gin.Context) {
	var req NearestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "position [lat, lon] is required", err)
		return
	}

	id, sqDist, err := routing.NearestNode(s.base, *req.Position)
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "NETWORK_UNAVAILABLE", "no nodes to search", err)
		return
	}
	n, _ := s.base.Node(id)
	c.JSON(http.StatusOK, NearestResponse{
		NodeID:    id,
		Position:  n.Position,
		DistanceM: math.Sqrt(sqDist) * routing.DegreesToMeters,
	})
}

func (s *server) handleAddReading(c *gin.Context) {
	var r sensors.Reading
	if err := c.ShouldBindJSON(&r); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid sensor reading", err)
		return
	}
	s.sensors.Add(r)
	sensorReadingsTotal.Inc()
	c.JSON(http.StatusCreated, s.sensors.Snapshot())
}

func (s *server) handleSensors(c *gin.Context) {
	c.JSON(http.StatusOK, s.sensors.Snapshot())
}

func (s *server) handleSensorChannel(c *gin.Context) {
	channel := c.Param("channel")
	values, err := s.sensors.Get(channel)
	if err != nil {
		respondError(c, http.StatusNotFound, "UNKNOWN_CHANNEL", "unknown sensor channel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": channel, "values": values})
}

func (s *server) handleListRuns(c *gin.Context) {
	if s.runs == nil {
		respondError(c, http.StatusServiceUnavailable, "HISTORY_DISABLED", "run history is not configured", nil)
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer", err)
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		log.Printf("ERROR: Failed to list runs: %v", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL", "failed to list runs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (s *server) handleGetRun(c *gin.Context) {
	if s.runs == nil {
		respondError(c, http.StatusServiceUnavailable, "HISTORY_DISABLED", "run history is not configured", nil)
		return
	}

	run, err := s.runs.GetRun(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrRunNotFound) {
		respondError(c, http.StatusNotFound, "RUN_NOT_FOUND", "no such run", err)
		return
	}
	if err != nil {
		log.Printf("ERROR: Failed to load run: %v", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL", "failed to load run", err)
		return
	}
	c.JSON(http.StatusOK, run)
}
