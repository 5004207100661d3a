package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"evacuation-route-server/network"
	"evacuation-route-server/routing"
)

// loadScenario reads a query from a YAML file. JSON is valid YAML, so request
// bodies saved from the API load as well.
func loadScenario(path string) (routing.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return routing.Query{}, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	var q routing.Query
	if err := yaml.Unmarshal(data, &q); err != nil {
		return routing.Query{}, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return q, nil
}

func newPlanCmd() *cobra.Command {
	var (
		asJSON     bool
		showSteps  bool
		edgeSteps  bool
		prefixFlag string
	)

	cmd := &cobra.Command{
		Use:   "plan <scenario.yaml>",
		Short: "Plan a route for a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			if edgeSteps {
				q.EdgeSteps = true
			}
			if prefixFlag != "" {
				q.TargetPrefix = prefixFlag
			}

			base, err := network.Load(graphPath)
			if err != nil {
				return err
			}
			res, err := routing.Plan(base, q)
			if err != nil {
				return err
			}

			resp := routing.PrepareResponse(res)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			printPlan(cmd.OutOrStdout(), resp, showSteps)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response as JSON")
	cmd.Flags().BoolVar(&showSteps, "steps", false, "print every trace step")
	cmd.Flags().BoolVar(&edgeSteps, "edge-steps", false, "record a step per evaluated edge")
	cmd.Flags().StringVar(&prefixFlag, "target-prefix", "", "goal node id prefix")
	return cmd
}

func printPlan(w io.Writer, resp routing.SimulationResponse, showSteps bool) {
	if showSteps {
		for i, s := range resp.Steps {
			fmt.Fprintf(w, "%4d  %s\n", i, s.Description)
		}
		fmt.Fprintln(w)
	}

	if !resp.Success {
		fmt.Fprintln(w, "--- No safe route ---")
		fmt.Fprintf(w, "Steps: %d\n", len(resp.Steps))
		return
	}

	fmt.Fprintln(w, "--- Evacuation route ---")
	fmt.Fprintf(w, "Path: %s\n", strings.Join(resp.Path, " -> "))
	fmt.Fprintf(w, "Shelter: %s\n", resp.Summary.Shelter)
	fmt.Fprintf(w, "Distance: %.0f m, cost %.2f\n", resp.Summary.TotalDistanceM, resp.Cost)
	for _, leg := range resp.Summary.Legs {
		fmt.Fprintf(w, "  %-16s %-16s %8.0f m  risk %d  %s\n", leg.From, leg.To, leg.DistanceM, leg.RiskFactor, leg.Kind)
	}
	if resp.Summary.RingNodes > 0 {
		fmt.Fprintf(w, "Avoidance ring points used: %d\n", resp.Summary.RingNodes)
	}
	if resp.Summary.UsesDirectLine {
		fmt.Fprintln(w, "Warning: route uses the penalized direct line to the shelter")
	}
	fmt.Fprintf(w, "Steps: %d\n", len(resp.Steps))
}

func newNearestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nearest <lat> <lon>",
		Short: "Find the base node closest to a coordinate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q: %w", args[0], err)
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q: %w", args[1], err)
			}

			base, err := network.Load(graphPath)
			if err != nil {
				return err
			}
			id, sqDist, err := routing.NearestNode(base, routing.Coordinate{Lat: lat, Lon: lon})
			if err != nil {
				return err
			}
			n, _ := base.Node(id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%.6f, %.6f) %.1f m\n",
				id, n.Position.Lat, n.Position.Lon, math.Sqrt(sqDist)*routing.DegreesToMeters)
			return nil
		},
	}
}
