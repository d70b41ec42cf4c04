package main

import (
	"github.com/spf13/cobra"

	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := database.Migrate(e.db, e.cfg.Database.Driver, e.logger, model.AllModels()...); err != nil {
			return err
		}
		cmd.Println("migrations applied")
		return nil
	},
}
