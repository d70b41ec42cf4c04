package model

import "time"

// Journey 用户当前进行中的种植旅程 — 对应 journeys
// 以 user_id 为主键，数据库层面保证每个用户至多一条
type Journey struct {
	UserID         string     `gorm:"type:varchar(64);primaryKey"  json:"user_id"`
	CropName       string     `gorm:"type:varchar(100);not null"   json:"crop_name"`
	SowingDate     time.Time  `gorm:"type:date;not null"           json:"sowing_date"`
	CompletedTasks StringList `gorm:"not null"                     json:"completed_tasks"`
	Version        int        `gorm:"not null;default:1"           json:"version"`
	BaseModel
}

// TableName 指定表名
func (Journey) TableName() string { return "journeys" }
