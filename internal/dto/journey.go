package dto

import (
	"encoding/json"

	"github.com/notsura/agro/internal/model"
)

// ── 种植旅程 DTO ──

// StartJourneyRequest 开始旅程请求；字段缺失由业务层统一返回 ErrInvalidInput
type StartJourneyRequest struct {
	CropName   string `json:"crop_name"`
	SowingDate string `json:"sowing_date"` // YYYY-MM-DD
}

// ToggleTaskRequest 切换任务完成状态
type ToggleTaskRequest struct {
	TaskTitle string `json:"task_title"`
}

// JourneyStatusResponse 当前旅程状态
// 无旅程或作物数据缺失时仅输出 active/error；其余情况下 days_since_sowing、routine、completed_tasks 始终存在
type JourneyStatusResponse struct {
	Active          bool               `json:"active"`
	Error           string             `json:"error,omitempty"`
	CropName        string             `json:"crop_name"`
	SowingDate      string             `json:"sowing_date"`
	DaysSinceSowing int                `json:"days_since_sowing"`
	CurrentTask     *model.StageSpec   `json:"current_task,omitempty"`
	NextTask        *model.StageSpec   `json:"next_task,omitempty"`
	Routine         []model.StageSpec  `json:"routine"`
	PostHarvest     *model.PostHarvest `json:"post_harvest,omitempty"`
	CompletedTasks  []string           `json:"completed_tasks"`
}

type journeyStatusBrief struct {
	Active bool   `json:"active"`
	Error  string `json:"error,omitempty"`
}

// MarshalJSON 按旅程是否可展示选择输出形态
func (r JourneyStatusResponse) MarshalJSON() ([]byte, error) {
	if !r.Active || r.Error != "" {
		return json.Marshal(journeyStatusBrief{Active: r.Active, Error: r.Error})
	}

	type full JourneyStatusResponse
	out := full(r)
	if out.Routine == nil {
		out.Routine = []model.StageSpec{}
	}
	if out.CompletedTasks == nil {
		out.CompletedTasks = []string{}
	}
	return json.Marshal(out)
}

// StartJourneyResponse 开始旅程结果
type StartJourneyResponse struct {
	Message    string `json:"message"`
	CropName   string `json:"crop_name"`
	SowingDate string `json:"sowing_date"`
}

// ToggleTaskResponse 切换后的已完成任务集合
type ToggleTaskResponse struct {
	CompletedTasks []string `json:"completed_tasks"`
}

// HistoryResponse 归档记录
type HistoryResponse struct {
	ID             string `json:"id"`
	CropName       string `json:"crop_name"`
	StartDate      string `json:"start_date"`
	CompletionDate string `json:"completion_date"`
	DurationDays   int    `json:"duration_days"`
	Status         string `json:"status"`
}
