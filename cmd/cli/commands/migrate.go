package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := app.Migrator.RunMigrations(app.Ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Database at schema version %d\n\n", version)
			return nil
		},
	}
}
