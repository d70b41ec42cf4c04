package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SuitabilityRule 适宜性规则 — 对应 suitability_rules
// (soil, season, climate) 三元组唯一；Position 保留录入顺序，用于按季节回退时的确定性选择
type SuitabilityRule struct {
	RuleID   string     `gorm:"type:uuid;primaryKey"                                   json:"rule_id"`
	Soil     string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_suitability_triple" json:"soil"`
	Season   string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_suitability_triple;index:idx_suitability_season,priority:1" json:"season"`
	Climate  string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_suitability_triple" json:"climate"`
	Crops    StringList `gorm:"not null"                                               json:"crops"`
	Position int        `gorm:"not null;default:0;index:idx_suitability_season,priority:2" json:"position"`
	BaseModel
}

// TableName 指定表名
func (SuitabilityRule) TableName() string { return "suitability_rules" }

// BeforeCreate 生成主键
func (r *SuitabilityRule) BeforeCreate(_ *gorm.DB) error {
	if r.RuleID == "" {
		r.RuleID = uuid.NewString()
	}
	return nil
}
