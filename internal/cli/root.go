package cli

import (
	"github.com/spf13/cobra"
)

const serviceName = "room-reservation"

// NewRoot builds the command tree: serve, migrate, seed and worker.
func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "roomsvc",
		Short:        "Facility room reservation service",
		SilenceUsage: true,
	}
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewWorkerCmd())
	return cmd
}
