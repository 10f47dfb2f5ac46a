package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"pollex.nl/shelf/booktest"
)

func newMigrateCommand(rootOpts *rootOptions) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables of the selected variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.openDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			variant := rootOpts.cfg.SchemaVariant()
			migrate, verb := booktest.Migrate, "created"
			if down {
				migrate, verb = booktest.MigrateDown, "dropped"
			}
			if err := migrate(db, variant, rootOpts.logger); err != nil {
				return err
			}

			for _, table := range variant.Tables().List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, table)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "drop the tables instead")

	return cmd
}
