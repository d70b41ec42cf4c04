package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/model"
)

// RecommendService 作物推荐：匹配器给出候选 → 评分器逐个评分 → 追加用户指定作物
type RecommendService interface {
	Recommend(ctx context.Context, req *dto.RecommendRequest) ([]dto.RecommendationItem, error)
	// Evaluate 与 Recommend 相同，额外返回归一化后的环境与匹配类型
	Evaluate(ctx context.Context, req *dto.RecommendRequest) (*dto.ScoreReport, error)
}

type recommendService struct {
	matcher *SuitabilityMatcher
	scorer  *Scorer
	crops   CropService
	logger  *zap.Logger
}

// NewRecommendService 创建 RecommendService 实例
func NewRecommendService(matcher *SuitabilityMatcher, scorer *Scorer, crops CropService, logger *zap.Logger) RecommendService {
	return &recommendService{matcher: matcher, scorer: scorer, crops: crops, logger: logger}
}

// customAdvisoryRoutine 目录中不存在的作物使用的通用流程
func customAdvisoryRoutine() []model.StageSpec {
	return []model.StageSpec{
		{Period: "General", Title: "Standard Care", Desc: "Follow local agronomic practices for this variety.", DailyRoutine: []string{}},
		{Period: "Monitoring", Title: "Pest Watch", Desc: "Keep a close eye on unconventional varieties.", DailyRoutine: []string{}},
		{Period: "Harvest", Title: "Maturity", Desc: "Harvest based on local visual indicators.", DailyRoutine: []string{}},
	}
}

// ────────────────────── Recommend ──────────────────────

func (s *recommendService) Recommend(ctx context.Context, req *dto.RecommendRequest) ([]dto.RecommendationItem, error) {
	report, err := s.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	return report.Items, nil
}

// ────────────────────── Evaluate ──────────────────────

func (s *recommendService) Evaluate(ctx context.Context, req *dto.RecommendRequest) (*dto.ScoreReport, error) {
	env := s.matcher.Normalize(req.Soil, req.Season, req.Water)

	candidates, exact, err := s.matcher.Match(ctx, env)
	if err != nil {
		s.logger.Error("匹配适宜性规则失败", zap.Any("env", env), zap.Error(err))
		return nil, err
	}

	index, err := s.crops.Index(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RecommendationItem, 0, len(candidates)+1)

	// 1. 推荐列表（按类别前缀过滤，目录中不存在的候选跳过）
	for _, name := range candidates {
		crop, ok := index.Lookup(name)
		if !ok || !matchesCategory(crop.Category, req.Category) {
			continue
		}
		score := s.scorer.Score(crop, env.Soil, env.Season, env.Climate, true, exact)
		items = append(items, dto.RecommendationItem{
			Name:               name,
			Category:           crop.Category,
			Routine:            routineOf(crop),
			SuitabilityPercent: score,
			Suitability:        SuitabilityLabel(score),
			IsRecommended:      true,
		})
	}

	// 2. 用户指定作物
	if target := strings.TrimSpace(req.Crop); target != "" && !containsName(items, target) {
		items = append(items, s.targetItem(index, target, env))
	}

	s.logger.Debug("推荐完成",
		zap.String("soil", env.Soil),
		zap.String("season", env.Season),
		zap.String("climate", env.Climate),
		zap.Bool("exact", exact),
		zap.Int("items", len(items)),
	)

	return &dto.ScoreReport{
		Soil:         env.Soil,
		Season:       env.Season,
		Climate:      env.Climate,
		IsExactMatch: exact,
		Items:        items,
	}, nil
}

func (s *recommendService) targetItem(index *CropIndex, target string, env Environment) dto.RecommendationItem {
	crop, ok := index.Lookup(target)
	if !ok {
		return dto.RecommendationItem{
			Name:               target,
			Routine:            customAdvisoryRoutine(),
			SuitabilityPercent: CustomAdvisoryScore,
			Suitability:        LabelUnknown,
			IsRecommended:      false,
			Warning:            fmt.Sprintf("Custom Advisory: No historical data for '%s'. Proceed with calculated risk.", target),
		}
	}

	score := s.scorer.Score(crop, env.Soil, env.Season, env.Climate, false, false)
	item := dto.RecommendationItem{
		Name:               crop.Name,
		Category:           crop.Category,
		Routine:            routineOf(crop),
		SuitabilityPercent: score,
		Suitability:        SuitabilityLabel(score),
		IsRecommended:      false,
	}
	if score < 80 {
		item.Warning = fmt.Sprintf(
			"Caution: %s has a %d%% match for your parameters. Traditionally, it faces challenges in %s soil during %s.",
			crop.Name, score, env.Soil, env.Season,
		)
	}
	return item
}

// ── 辅助函数 ──

// matchesCategory 空或 All 不过滤，否则按大小写不敏感前缀匹配
func matchesCategory(category, preferred string) bool {
	preferred = strings.TrimSpace(preferred)
	if preferred == "" || strings.EqualFold(preferred, "All") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(category), strings.ToLower(preferred))
}

func containsName(items []dto.RecommendationItem, name string) bool {
	key := model.CropNameKey(name)
	for _, it := range items {
		if model.CropNameKey(it.Name) == key {
			return true
		}
	}
	return false
}

func routineOf(crop *model.Crop) []model.StageSpec {
	if len(crop.Routine) == 0 {
		return []model.StageSpec{}
	}
	return []model.StageSpec(crop.Routine)
}
