package dto

import "github.com/notsura/agro/internal/model"

// ── 作物目录 DTO ──

// CropRequest 新建/更新作物请求
type CropRequest struct {
	Name             string                 `json:"name"              binding:"required,max=100"`
	Category         string                 `json:"category"          binding:"omitempty,oneof=Grain Fruit Vegetable Commercial Oilseed"`
	Image            string                 `json:"image"             binding:"omitempty,max=255"`
	GrowingSeason    string                 `json:"growing_season"    binding:"omitempty,max=100"`
	AvgDuration      string                 `json:"avg_duration"      binding:"omitempty,max=50"`
	SoilPreference   string                 `json:"soil_preference"   binding:"omitempty,max=200"`
	WaterRequirement string                 `json:"water_requirement" binding:"omitempty,max=50"`
	CultivationGuide model.CultivationGuide `json:"cultivation_guide"`
	PestsDiseases    []model.PestDisease    `json:"pests_diseases"`
	ActiveAlerts     []model.Alert          `json:"active_alerts"`
	Routine          []model.StageSpec      `json:"routine"`
	PostHarvest      *model.PostHarvest     `json:"post_harvest"`
}

// ── 适宜性规则 DTO ──

// SuitabilityRuleRequest 新增/覆盖适宜性规则
type SuitabilityRuleRequest struct {
	Soil    string   `json:"soil"    binding:"required,max=50"`
	Season  string   `json:"season"  binding:"required,max=50"`
	Climate string   `json:"climate" binding:"required,oneof=Hot Moderate Cool"`
	Crops   []string `json:"crops"   binding:"required,min=1,dive,required"`
}
