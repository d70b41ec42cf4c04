package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/internal/repository"
	"github.com/notsura/agro/internal/seed"
	"github.com/notsura/agro/pkg/database"
)

var (
	seedFile      string
	adminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load crops, suitability rules and the admin account",
	Long: `Upserts the built-in crop catalog (or --file) by crop name and suitability
rule triple, so running it twice leaves the database unchanged. The admin account
is created only when missing; its password comes from --admin-password or
AGRO_ADMIN_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := database.Migrate(e.db, e.cfg.Database.Driver, e.logger, model.AllModels()...); err != nil {
			return err
		}

		password := adminPassword
		if password == "" {
			password = os.Getenv("AGRO_ADMIN_PASSWORD")
		}

		res, err := seed.Apply(cmd.Context(), repository.NewRepository(e.db), cat, seed.Options{AdminPassword: password}, e.logger)
		if err != nil {
			return err
		}

		cmd.Printf("seeded %d crops, %d suitability rules (admin created: %t)\n", res.Crops, res.Rules, res.AdminCreated)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML catalog to load instead of the built-in one")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "password for the admin account if it does not exist yet")
}

func loadCatalog() (*seed.Catalog, error) {
	if seedFile == "" {
		return seed.Default()
	}
	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败: %w", err)
	}
	return seed.Parse(raw)
}
