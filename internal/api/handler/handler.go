package handler

import (
	"context"
	"time"

	"github.com/notsura/agro/config"
	"github.com/notsura/agro/internal/service"
)

// Pinger 数据库健康检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	Admin       *AdminHandler
	Crop        *CropHandler
	Suitability *SuitabilityHandler
	Recommend   *RecommendHandler
	Journey     *JourneyHandler
	Export      *ExportHandler
	Weather     *WeatherHandler
	Health      *HealthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, db Pinger) *Handler {
	loc := cfg.Server.Location()
	clock := func() time.Time { return time.Now().In(loc) }

	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Admin:       NewAdminHandler(svc.User),
		Crop:        NewCropHandler(svc.Crop),
		Suitability: NewSuitabilityHandler(svc.Suitability),
		Recommend:   NewRecommendHandler(svc.Recommend),
		Journey:     NewJourneyHandler(svc.Journey, clock),
		Export:      NewExportHandler(svc.Export),
		Weather:     NewWeatherHandler(svc.Weather),
		Health:      NewHealthHandler(db),
	}
}
