package cli

import (
	"github.com/Mariolucas03/Kairos/pkg/config"
	"github.com/Mariolucas03/Kairos/pkg/database"
	"github.com/spf13/cobra"
)

// NewMaintenanceCommand runs the nightly habit reset once, for hosts that schedule it externally.
func NewMaintenanceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "maintenance",
		Short: "Reset completed daily habits from previous days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.EnvFile)
			if err != nil {
				return err
			}
			svc, err := bootstrap(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer database.CloseDB()

			reset, err := svc.Maintenance.RunNightly(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("reset %d habit(s)\n", reset)
			return nil
		},
	}
}
