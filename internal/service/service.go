package service

import (
	"go.uber.org/zap"

	"github.com/notsura/agro/config"
	"github.com/notsura/agro/internal/repository"
	"github.com/notsura/agro/pkg/jwt"
	"github.com/notsura/agro/pkg/redis"
	"github.com/notsura/agro/pkg/weather"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	User        UserService
	Crop        CropService
	Suitability SuitabilityService
	Recommend   RecommendService
	Journey     JourneyService
	Export      ExportService
	Weather     WeatherService
}

// NewService 创建 Service 聚合；rdb 为 nil 时缓存与 Token 黑名单降级关闭
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var (
		cache     Cache
		blacklist TokenBlacklist
	)
	if rdb != nil {
		cache = rdb
		blacklist = rdb
	}

	crops := NewCropService(repo, cache, cfg.Redis.CropTTL, logger)
	matcher := NewSuitabilityMatcher(
		repo.Suitability,
		cfg.Advisory.DefaultSoil,
		cfg.Advisory.DefaultSeason,
		cfg.Advisory.FallbackCrops,
	)

	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:        NewUserService(repo, logger),
		Crop:        crops,
		Suitability: NewSuitabilityService(repo, logger),
		Recommend:   NewRecommendService(matcher, NewScorer(), crops, logger),
		Journey:     NewJourneyService(repo, logger),
		Export:      NewExportService(repo, logger),
		Weather:     NewWeatherService(weather.NewClient(&cfg.Weather, logger), cache, cfg.Weather.CacheTTL, logger),
	}
}
