package dto

import "github.com/notsura/agro/internal/model"

// ── 推荐模块 DTO ──

// RecommendRequest 推荐请求，所有字段可选
type RecommendRequest struct {
	Soil     string `json:"soil"`
	Season   string `json:"season"`
	Water    string `json:"water"` // 气候或降水描述
	Crop     string `json:"crop"`  // 用户指定的作物
	Category string `json:"category"`
}

// RecommendationItem 推荐结果条目
type RecommendationItem struct {
	Name               string            `json:"name"`
	Category           string            `json:"category,omitempty"`
	Routine            []model.StageSpec `json:"routine"`
	SuitabilityPercent int               `json:"suitability_percent"`
	Suitability        string            `json:"suitability"`
	IsRecommended      bool              `json:"is_recommended"`
	Warning            string            `json:"warning,omitempty"`
}

// ScoreReport 离线评分结果（agroctl score）
type ScoreReport struct {
	Soil         string               `json:"soil"`
	Season       string               `json:"season"`
	Climate      string               `json:"climate"`
	IsExactMatch bool                 `json:"is_exact_match"`
	Items        []RecommendationItem `json:"items"`
}
