package cli

import (
	"github.com/Mariolucas03/Kairos/pkg/config"
	"github.com/Mariolucas03/Kairos/pkg/database"
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.EnvFile)
			if err != nil {
				return err
			}
			log.SetLevel(cfg.Level())

			db, err := database.InitDB(cfg.DSN())
			if err != nil {
				return err
			}
			defer database.CloseDB()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			cmd.Println("schema applied")
			return nil
		},
	}
}
