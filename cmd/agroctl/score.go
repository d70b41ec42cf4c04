package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/repository"
	"github.com/notsura/agro/internal/service"
)

var scoreReq dto.RecommendRequest

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Run the recommendation engine against the database",
	Example: `  agroctl score --soil "Black Soil" --season Summer --water High
  agroctl score --soil Red --season Kharif --crop Quinoa`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.Close()

		repo := repository.NewRepository(e.db)
		matcher := service.NewSuitabilityMatcher(
			repo.Suitability,
			e.cfg.Advisory.DefaultSoil,
			e.cfg.Advisory.DefaultSeason,
			e.cfg.Advisory.FallbackCrops,
		)
		crops := service.NewCropService(repo, nil, 0, e.logger)
		engine := service.NewRecommendService(matcher, service.NewScorer(), crops, e.logger)

		report, err := engine.Evaluate(cmd.Context(), &scoreReq)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreReq.Soil, "soil", "", "soil type (first word is used)")
	f.StringVar(&scoreReq.Season, "season", "", "season (first word is used)")
	f.StringVar(&scoreReq.Water, "water", "", "water / climate description")
	f.StringVar(&scoreReq.Crop, "crop", "", "crop to score in addition to the recommendations")
	f.StringVar(&scoreReq.Category, "category", "All", "category filter")
}
