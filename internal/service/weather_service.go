package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/notsura/agro/pkg/redis"
	"github.com/notsura/agro/pkg/weather"
)

// ErrWeatherUnavailable 上游天气服务不可用
var ErrWeatherUnavailable = weather.ErrUnavailable

const weatherCacheKey = "weather:forecast"

// Forecaster 天气数据源，由 pkg/weather.Client 实现
type Forecaster interface {
	Forecast(ctx context.Context) (*weather.Report, error)
}

// WeatherService 天气代理：读缓存，未命中时请求上游并回写
type WeatherService interface {
	Current(ctx context.Context) (*weather.Report, error)
}

type weatherService struct {
	source Forecaster
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewWeatherService 创建 WeatherService 实例，cache 可为 nil
func NewWeatherService(source Forecaster, cache Cache, ttl time.Duration, logger *zap.Logger) WeatherService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &weatherService{source: source, cache: cache, ttl: ttl, logger: logger}
}

func (s *weatherService) Current(ctx context.Context) (*weather.Report, error) {
	if s.cache != nil {
		var cached weather.Report
		err := s.cache.GetJSON(ctx, weatherCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取天气缓存失败", zap.Error(err))
		}
	}

	report, err := s.source.Forecast(ctx)
	if err != nil {
		s.logger.Error("获取天气失败", zap.Error(err))
		return nil, ErrWeatherUnavailable
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, weatherCacheKey, report, s.ttl); err != nil {
			s.logger.Warn("写入天气缓存失败", zap.Error(err))
		}
	}
	return report, nil
}
