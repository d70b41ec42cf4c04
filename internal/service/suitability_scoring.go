package service

import (
	"math/rand/v2"
	"strings"

	"github.com/notsura/agro/internal/model"
)

// 评分常量
const (
	seasonWeight         = 33
	soilWeight           = 33
	climateWeight        = 34
	climatePartialWeight = 15

	// RecommendedFloor 推荐列表中的作物最低分
	RecommendedFloor = 82
	// UnknownProfileScore 推荐列表中的作物在目录中不存在时的分数
	UnknownProfileScore = 50
	// CustomAdvisoryScore 完全未知作物的固定分数
	CustomAdvisoryScore = 30

	premiumMin = 95
	premiumMax = 99
)

// 适宜度标签
const (
	LabelHigh     = "High"
	LabelModerate = "Moderate"
	LabelLow      = "Low"
	LabelUnknown  = "Unknown"
)

// Scorer 适宜度评分器，无状态
type Scorer struct {
	// premium 返回 [95,99] 内的分数，测试中可替换
	premium func() int
}

// NewScorer 创建使用 math/rand/v2 的评分器
func NewScorer() *Scorer {
	return &Scorer{
		premium: func() int { return premiumMin + rand.IntN(premiumMax-premiumMin+1) },
	}
}

// Score 计算 0-100 的匹配分
//
//  1. 推荐且精确匹配：[95,99] 随机分
//  2. 无作物档案：50
//  3. 季节 33 + 土壤 33 + 气候 34（Hot 遇 moderate 需水给 15）
//
// 推荐作物最低 82，最终不超过 100。
func (s *Scorer) Score(profile *model.Crop, soil, season, climate string, isRecommended, isExactMatch bool) int {
	if isRecommended && isExactMatch {
		return clampScore(s.premium())
	}

	var score int
	if profile == nil {
		score = UnknownProfileScore
	} else {
		score = factorScore(profile, soil, season, climate)
	}

	if isRecommended && score < RecommendedFloor {
		score = RecommendedFloor
	}
	return clampScore(score)
}

func factorScore(profile *model.Crop, soil, season, climate string) int {
	growing := strings.ToLower(profile.GrowingSeason)
	soilPref := strings.ToLower(profile.SoilPreference)
	water := strings.ToLower(profile.WaterRequirement)

	score := 0

	switch {
	case strings.Contains(growing, strings.ToLower(season)),
		strings.Contains(growing, "kharif") && season == "Kharif",
		strings.Contains(growing, "rabi") && season == "Winter",
		strings.Contains(growing, "zaid") && season == "Summer":
		score += seasonWeight
	}

	if strings.Contains(soilPref, strings.ToLower(soil)) {
		score += soilWeight
	}

	switch {
	case climate == "Hot" && strings.Contains(water, "high"),
		climate == "Moderate" && strings.Contains(water, "moderate"),
		climate == "Cool" && strings.Contains(water, "low"):
		score += climateWeight
	case climate == "Hot" && strings.Contains(water, "moderate"):
		score += climatePartialWeight
	}

	return score
}

func clampScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// SuitabilityLabel 由分数得出标签：>80 High，>50 Moderate，其余 Low
func SuitabilityLabel(score int) string {
	switch {
	case score > 80:
		return LabelHigh
	case score > 50:
		return LabelModerate
	default:
		return LabelLow
	}
}
