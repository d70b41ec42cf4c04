package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryStatusHarvested 归档记录的唯一状态
const HistoryStatusHarvested = "Harvested"

// FarmingHistory 已完成旅程的归档记录 — 对应 farming_history，只追加
type FarmingHistory struct {
	HistoryID      string    `gorm:"type:uuid;primaryKey"                                     json:"history_id"`
	UserID         string    `gorm:"type:varchar(64);not null;index:idx_farming_history_user" json:"user_id"`
	CropName       string    `gorm:"type:varchar(100);not null"                               json:"crop_name"`
	StartDate      time.Time `gorm:"type:date;not null"                                       json:"start_date"`
	CompletionDate time.Time `gorm:"not null;index:idx_farming_history_user,sort:desc"        json:"completion_date"`
	DurationDays   int       `gorm:"not null"                                                 json:"duration_days"`
	Status         string    `gorm:"type:varchar(20);not null;default:'Harvested'"            json:"status"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                       json:"created_at"`
}

// TableName 指定表名
func (FarmingHistory) TableName() string { return "farming_history" }

// BeforeCreate 生成主键并补齐状态
func (h *FarmingHistory) BeforeCreate(_ *gorm.DB) error {
	if h.HistoryID == "" {
		h.HistoryID = uuid.NewString()
	}
	if h.Status == "" {
		h.Status = HistoryStatusHarvested
	}
	return nil
}
