// Command evacsim runs evacuation scenarios against a base network without
// starting the HTTP server.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

var graphPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "evacsim",
		Short:         "Plan evacuation routes around disaster zones",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&graphPath, "graph", "", "network file (.json or .gob); bundled network when empty")
	root.AddCommand(newPlanCmd(), newNearestCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
