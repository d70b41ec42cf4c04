package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/internal/repository"
	pkgerrors "github.com/notsura/agro/pkg/errors"
	"github.com/notsura/agro/pkg/redis"
)

// ── 作物目录模块业务错误 ──

var (
	ErrCropNotFound   = errors.New("crop not found")
	ErrCropDuplicate  = errors.New("a crop with this name already exists")
	ErrInvalidRoutine = errors.New("routine stages need start_day <= end_day and non-decreasing start_day")
)

const cropCatalogCacheKey = "catalog:crops"

// Cache JSON 缓存，由 pkg/redis.Client 实现；Redis 不可用时为 nil
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CropService 作物目录业务接口
type CropService interface {
	List(ctx context.Context) ([]model.Crop, error)
	GetByName(ctx context.Context, name string) (*model.Crop, error)
	// Index 基于当前目录构建的名称索引
	Index(ctx context.Context) (*CropIndex, error)
	Create(ctx context.Context, req *dto.CropRequest) (*model.Crop, error)
	Update(ctx context.Context, id string, req *dto.CropRequest) (*model.Crop, error)
	Delete(ctx context.Context, id string) error
}

type cropService struct {
	repo   *repository.Repository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCropService 创建 CropService 实例，cache 可为 nil
func NewCropService(repo *repository.Repository, cache Cache, ttl time.Duration, logger *zap.Logger) CropService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &cropService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *cropService) List(ctx context.Context) ([]model.Crop, error) {
	if s.cache != nil {
		var cached []model.Crop
		err := s.cache.GetJSON(ctx, cropCatalogCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取作物目录缓存失败", zap.Error(err))
		}
	}

	crops, err := s.repo.Crop.List(ctx)
	if err != nil {
		s.logger.Error("查询作物目录失败", zap.Error(err))
		return nil, err
	}
	if crops == nil {
		crops = []model.Crop{}
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cropCatalogCacheKey, crops, s.ttl); err != nil {
			s.logger.Warn("写入作物目录缓存失败", zap.Error(err))
		}
	}
	return crops, nil
}

// ────────────────────── GetByName ──────────────────────

func (s *cropService) GetByName(ctx context.Context, name string) (*model.Crop, error) {
	crop, err := s.repo.Crop.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCropNotFound
		}
		s.logger.Error("查询作物失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return crop, nil
}

// ────────────────────── Index ──────────────────────

func (s *cropService) Index(ctx context.Context) (*CropIndex, error) {
	crops, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewCropIndex(crops), nil
}

// ────────────────────── Create ──────────────────────

func (s *cropService) Create(ctx context.Context, req *dto.CropRequest) (*model.Crop, error) {
	if err := validateRoutine(req.Routine); err != nil {
		return nil, err
	}

	crop := &model.Crop{}
	applyCropRequest(crop, req)

	if err := s.repo.Crop.Create(ctx, crop); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrCropDuplicate
		}
		s.logger.Error("创建作物失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("作物已创建", zap.String("crop_id", crop.CropID), zap.String("name", crop.Name))
	return crop, nil
}

// ────────────────────── Update ──────────────────────

func (s *cropService) Update(ctx context.Context, id string, req *dto.CropRequest) (*model.Crop, error) {
	if err := validateRoutine(req.Routine); err != nil {
		return nil, err
	}

	crop, err := s.repo.Crop.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCropNotFound
		}
		s.logger.Error("查询作物失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	applyCropRequest(crop, req)

	if err := s.repo.Crop.Update(ctx, crop); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrCropDuplicate
		}
		s.logger.Error("更新作物失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	return crop, nil
}

// ────────────────────── Delete ──────────────────────

func (s *cropService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Crop.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCropNotFound
		}
		s.logger.Error("删除作物失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx)
	return nil
}

// ── 辅助函数 ──

func (s *cropService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cropCatalogCacheKey); err != nil {
		s.logger.Warn("清除作物目录缓存失败", zap.Error(err))
	}
}

func applyCropRequest(crop *model.Crop, req *dto.CropRequest) {
	crop.Name = req.Name
	crop.Category = req.Category
	crop.Image = req.Image
	crop.GrowingSeason = req.GrowingSeason
	crop.AvgDuration = req.AvgDuration
	crop.SoilPreference = req.SoilPreference
	crop.WaterRequirement = req.WaterRequirement
	crop.CultivationGuide = req.CultivationGuide
	crop.PestsDiseases = model.PestList(req.PestsDiseases)
	crop.ActiveAlerts = model.AlertList(req.ActiveAlerts)
	crop.Routine = model.Routine(req.Routine)
	crop.PostHarvest = req.PostHarvest
}

// validateRoutine 阶段需满足 start_day <= end_day，且按 start_day 非递减排列
func validateRoutine(routine []model.StageSpec) error {
	prev := 0
	for i, st := range routine {
		if st.StartDay > st.EndDay {
			return fmt.Errorf("%w: stage %d %q", ErrInvalidRoutine, i+1, st.Title)
		}
		if i > 0 && st.StartDay < prev {
			return fmt.Errorf("%w: stage %d %q", ErrInvalidRoutine, i+1, st.Title)
		}
		prev = st.StartDay
	}
	return nil
}
