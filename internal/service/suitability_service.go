package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/internal/repository"
)

// SuitabilityService 适宜性规则管理接口
type SuitabilityService interface {
	List(ctx context.Context) ([]model.SuitabilityRule, error)
	Upsert(ctx context.Context, req *dto.SuitabilityRuleRequest) (*model.SuitabilityRule, error)
}

type suitabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSuitabilityService 创建 SuitabilityService 实例
func NewSuitabilityService(repo *repository.Repository, logger *zap.Logger) SuitabilityService {
	return &suitabilityService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *suitabilityService) List(ctx context.Context) ([]model.SuitabilityRule, error) {
	rules, err := s.repo.Suitability.List(ctx)
	if err != nil {
		s.logger.Error("列出适宜性规则失败", zap.Error(err))
		return nil, err
	}
	if rules == nil {
		rules = []model.SuitabilityRule{}
	}
	return rules, nil
}

// ────────────────────── Upsert ──────────────────────

// Upsert 规则键与匹配器使用同一套归一化后的值，写入前去除首尾空白
func (s *suitabilityService) Upsert(ctx context.Context, req *dto.SuitabilityRuleRequest) (*model.SuitabilityRule, error) {
	crops := make(model.StringList, 0, len(req.Crops))
	for _, c := range req.Crops {
		if c = strings.TrimSpace(c); c != "" {
			crops = append(crops, c)
		}
	}

	rule := &model.SuitabilityRule{
		Soil:    strings.TrimSpace(req.Soil),
		Season:  strings.TrimSpace(req.Season),
		Climate: strings.TrimSpace(req.Climate),
		Crops:   crops,
	}
	if err := s.repo.Suitability.Upsert(ctx, rule); err != nil {
		s.logger.Error("写入适宜性规则失败",
			zap.String("soil", rule.Soil),
			zap.String("season", rule.Season),
			zap.String("climate", rule.Climate),
			zap.Error(err),
		)
		return nil, err
	}
	return rule, nil
}
