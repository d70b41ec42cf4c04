package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/notsura/agro/internal/repository"
)

// 归一化默认值
const (
	DefaultSoil    = "Alluvial"
	DefaultSeason  = "Kharif"
	DefaultClimate = "Moderate"
)

// DefaultFallbackCrops 没有任何规则命中时的推荐列表
var DefaultFallbackCrops = []string{"Rice", "Wheat", "Maize"}

// Environment 归一化后的种植环境
type Environment struct {
	Soil    string `json:"soil"`
	Season  string `json:"season"`
	Climate string `json:"climate"`
}

// NormalizeEnvironment 将原始输入归一化为 (soil, season, climate)
//
// soil / season 取第一个空白分隔的词，空时取默认值；
// climate 由水分/气候描述推断：含 "High" 或 "Arid" 为 Hot，其余为 Moderate。
func NormalizeEnvironment(rawSoil, rawSeason, rawWater string) Environment {
	return normalizeEnvironment(rawSoil, rawSeason, rawWater, DefaultSoil, DefaultSeason)
}

func normalizeEnvironment(rawSoil, rawSeason, rawWater, defSoil, defSeason string) Environment {
	return Environment{
		Soil:    firstToken(rawSoil, defSoil),
		Season:  firstToken(rawSeason, defSeason),
		Climate: climateFromWater(rawWater),
	}
}

func firstToken(s, def string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return def
	}
	return fields[0]
}

func climateFromWater(raw string) string {
	switch {
	case strings.Contains(raw, "High"), strings.Contains(raw, "Arid"):
		return "Hot"
	case strings.Contains(raw, "Moderate"):
		return "Moderate"
	default:
		return DefaultClimate
	}
}

// SuitabilityMatcher 按 精确三元组 → 同季节首条规则 → 默认列表 的顺序给出候选作物
type SuitabilityMatcher struct {
	rules         repository.SuitabilityRepository
	defaultSoil   string
	defaultSeason string
	fallback      []string
}

// NewSuitabilityMatcher 创建匹配器；fallback 为空时使用 DefaultFallbackCrops
func NewSuitabilityMatcher(rules repository.SuitabilityRepository, defaultSoil, defaultSeason string, fallback []string) *SuitabilityMatcher {
	if defaultSoil == "" {
		defaultSoil = DefaultSoil
	}
	if defaultSeason == "" {
		defaultSeason = DefaultSeason
	}
	if len(fallback) == 0 {
		fallback = DefaultFallbackCrops
	}
	return &SuitabilityMatcher{
		rules:         rules,
		defaultSoil:   defaultSoil,
		defaultSeason: defaultSeason,
		fallback:      fallback,
	}
}

// Normalize 使用匹配器配置的默认值归一化输入
func (m *SuitabilityMatcher) Normalize(rawSoil, rawSeason, rawWater string) Environment {
	return normalizeEnvironment(rawSoil, rawSeason, rawWater, m.defaultSoil, m.defaultSeason)
}

// Match 返回候选作物及是否为精确匹配；未命中的输入不会报错，只有存储故障才返回 error
func (m *SuitabilityMatcher) Match(ctx context.Context, env Environment) ([]string, bool, error) {
	rule, err := m.rules.FindRule(ctx, env.Soil, env.Season, env.Climate)
	if err == nil {
		return append([]string(nil), rule.Crops...), true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	rule, err = m.rules.FindRuleBySeason(ctx, env.Season)
	if err == nil {
		return append([]string(nil), rule.Crops...), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	return append([]string(nil), m.fallback...), false, nil
}
