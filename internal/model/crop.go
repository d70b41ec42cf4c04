package model

import (
	"database/sql/driver"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StageSpec 生长阶段定义，天数从播种当天 = 第 1 天起算，闭区间
type StageSpec struct {
	StartDay     int      `json:"start_day"     yaml:"start_day"`
	EndDay       int      `json:"end_day"       yaml:"end_day"`
	Title        string   `json:"title"         yaml:"title"`
	Desc         string   `json:"desc"          yaml:"desc"`
	Protocol     string   `json:"protocol,omitempty" yaml:"protocol"`
	Risk         string   `json:"risk,omitempty"     yaml:"risk"`
	DailyRoutine []string `json:"daily_routine"      yaml:"daily_routine"`
	Period       string   `json:"period,omitempty"   yaml:"period,omitempty"` // 仅自定义作物建议使用
}

// Contains 判断第 d 天是否落在本阶段内
func (s StageSpec) Contains(d int) bool {
	return s.StartDay <= d && d <= s.EndDay
}

// Routine 按 start_day 非递减排列的阶段列表
type Routine []StageSpec

// Scan 实现 sql.Scanner
func (r *Routine) Scan(src interface{}) error {
	if src == nil {
		*r = Routine{}
		return nil
	}
	var out []StageSpec
	if err := scanJSON("Routine", src, &out); err != nil {
		return err
	}
	if out == nil {
		out = []StageSpec{}
	}
	*r = out
	return nil
}

// Value 实现 driver.Valuer
func (r Routine) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return valueJSON([]StageSpec(r))
}

// GormDBDataType 按方言选择列类型
func (Routine) GormDBDataType(db *gorm.DB, _ *schema.Field) string { return jsonDataType(db) }

// CultivationGuide 栽培指南
type CultivationGuide struct {
	SoilPreparation     string `json:"soil_preparation"     yaml:"soil_preparation"`
	IrrigationGuidance  string `json:"irrigation_guidance"  yaml:"irrigation_guidance"`
	FertilizerPractices string `json:"fertilizer_practices" yaml:"fertilizer_practices"`
	SeasonalTips        string `json:"seasonal_tips"        yaml:"seasonal_tips"`
}

// Scan 实现 sql.Scanner
func (g *CultivationGuide) Scan(src interface{}) error {
	if src == nil {
		*g = CultivationGuide{}
		return nil
	}
	return scanJSON("CultivationGuide", src, g)
}

// Value 实现 driver.Valuer
func (g CultivationGuide) Value() (driver.Value, error) { return valueJSON(g) }

// GormDBDataType 按方言选择列类型
func (CultivationGuide) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonDataType(db)
}

// PestDisease 病虫害条目
type PestDisease struct {
	Name       string `json:"name"       yaml:"name"`
	Symptoms   string `json:"symptoms"   yaml:"symptoms"`
	Causes     string `json:"causes"     yaml:"causes"`
	RiskStage  string `json:"risk_stage" yaml:"risk_stage"`
	Prevention string `json:"prevention" yaml:"prevention"`
	Treatment  string `json:"treatment"  yaml:"treatment"`
	RiskLevel  string `json:"risk_level" yaml:"risk_level"`
}

// PestList 病虫害列表
type PestList []PestDisease

// Scan 实现 sql.Scanner
func (p *PestList) Scan(src interface{}) error {
	if src == nil {
		*p = PestList{}
		return nil
	}
	var out []PestDisease
	if err := scanJSON("PestList", src, &out); err != nil {
		return err
	}
	if out == nil {
		out = []PestDisease{}
	}
	*p = out
	return nil
}

// Value 实现 driver.Valuer
func (p PestList) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return valueJSON([]PestDisease(p))
}

// GormDBDataType 按方言选择列类型
func (PestList) GormDBDataType(db *gorm.DB, _ *schema.Field) string { return jsonDataType(db) }

// Alert 作物预警
type Alert struct {
	Type  string `json:"type"  yaml:"type"`
	Title string `json:"title" yaml:"title"`
	Msg   string `json:"msg"   yaml:"msg"`
}

// AlertList 预警列表
type AlertList []Alert

// Scan 实现 sql.Scanner
func (a *AlertList) Scan(src interface{}) error {
	if src == nil {
		*a = AlertList{}
		return nil
	}
	var out []Alert
	if err := scanJSON("AlertList", src, &out); err != nil {
		return err
	}
	if out == nil {
		out = []Alert{}
	}
	*a = out
	return nil
}

// Value 实现 driver.Valuer
func (a AlertList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return valueJSON([]Alert(a))
}

// GormDBDataType 按方言选择列类型
func (AlertList) GormDBDataType(db *gorm.DB, _ *schema.Field) string { return jsonDataType(db) }

// PostHarvest 采后处理建议
type PostHarvest struct {
	Storage  string `json:"storage"   yaml:"storage"`
	Cleaning string `json:"cleaning"  yaml:"cleaning"`
	SoilPrep string `json:"soil_prep" yaml:"soil_prep"`
	Residue  string `json:"residue"   yaml:"residue"`
}

// Scan 实现 sql.Scanner
func (p *PostHarvest) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	return scanJSON("PostHarvest", src, p)
}

// Value 实现 driver.Valuer
func (p PostHarvest) Value() (driver.Value, error) { return valueJSON(p) }

// GormDBDataType 按方言选择列类型
func (PostHarvest) GormDBDataType(db *gorm.DB, _ *schema.Field) string { return jsonDataType(db) }

// Crop 作物目录 — 对应 crops
type Crop struct {
	CropID           string           `gorm:"type:uuid;primaryKey"                  json:"crop_id"`
	Name             string           `gorm:"type:varchar(100);not null"            json:"name"`
	NameKey          string           `gorm:"type:varchar(100);not null;uniqueIndex" json:"-"`
	Category         string           `gorm:"type:varchar(20)"                      json:"category"`
	Image            string           `gorm:"type:varchar(255)"                     json:"image,omitempty"`
	GrowingSeason    string           `gorm:"type:varchar(100)"                     json:"growing_season"`
	AvgDuration      string           `gorm:"type:varchar(50)"                      json:"avg_duration,omitempty"`
	SoilPreference   string           `gorm:"type:varchar(200)"                     json:"soil_preference"`
	WaterRequirement string           `gorm:"type:varchar(50)"                      json:"water_requirement"`
	CultivationGuide CultivationGuide `gorm:"not null"                              json:"cultivation_guide"`
	PestsDiseases    PestList         `gorm:"not null"                              json:"pests_diseases"`
	ActiveAlerts     AlertList        `gorm:"not null"                              json:"active_alerts"`
	Routine          Routine          `gorm:"not null"                              json:"routine"`
	PostHarvest      *PostHarvest     `                                             json:"post_harvest"`
	BaseModel
}

// TableName 指定表名
func (Crop) TableName() string { return "crops" }

// CropNameKey 作物名称的规范化键：去首尾空白后转小写
func CropNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BeforeCreate 生成主键
func (c *Crop) BeforeCreate(_ *gorm.DB) error {
	if c.CropID == "" {
		c.CropID = uuid.NewString()
	}
	return nil
}

// BeforeSave 维护 name_key
func (c *Crop) BeforeSave(_ *gorm.DB) error {
	c.NameKey = CropNameKey(c.Name)
	return nil
}
