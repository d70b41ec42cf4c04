package dto

// ── 用户管理 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
}

// ToggleStatusResponse 封禁/解封结果
type ToggleStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// AdminStatsResponse 管理后台统计
type AdminStatsResponse struct {
	Users            int64 `json:"users"`
	Crops            int64 `json:"crops"`
	SuitabilityRules int64 `json:"suitability_rules"`
	ActiveJourneys   int64 `json:"active_journeys"`
	Harvests         int64 `json:"harvests"`
}
