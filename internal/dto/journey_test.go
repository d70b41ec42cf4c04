package dto

import (
	"encoding/json"
	"testing"

	"github.com/notsura/agro/internal/model"
)

func marshalToMap(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}
	return m
}

func TestJourneyStatusResponse_DayZeroKeepsKeys(t *testing.T) {
	resp := &JourneyStatusResponse{
		Active:          true,
		CropName:        "Rice",
		SowingDate:      "2024-01-02",
		DaysSinceSowing: 0,
		Routine:         []model.StageSpec{{StartDay: 0, EndDay: 10, Title: "Nursery"}},
	}

	m := marshalToMap(t, resp)

	for _, key := range []string{"days_since_sowing", "routine", "completed_tasks", "crop_name", "sowing_date"} {
		if _, ok := m[key]; !ok {
			t.Errorf("期望包含字段 %s，实际 %v", key, m)
		}
	}
	if m["days_since_sowing"] != float64(0) {
		t.Errorf("期望 days_since_sowing=0，实际 %v", m["days_since_sowing"])
	}
	if tasks, ok := m["completed_tasks"].([]interface{}); !ok || len(tasks) != 0 {
		t.Errorf("期望 completed_tasks 为空数组，实际 %v", m["completed_tasks"])
	}
	if _, ok := m["error"]; ok {
		t.Errorf("期望不包含 error，实际 %v", m)
	}
}

func TestJourneyStatusResponse_EmptyRoutineIsArray(t *testing.T) {
	m := marshalToMap(t, JourneyStatusResponse{Active: true, CropName: "Rice", SowingDate: "2024-01-01"})

	if routine, ok := m["routine"].([]interface{}); !ok || len(routine) != 0 {
		t.Errorf("期望 routine 为空数组，实际 %v", m["routine"])
	}
}

func TestJourneyStatusResponse_BriefShapes(t *testing.T) {
	tests := []struct {
		name string
		resp JourneyStatusResponse
		want string
	}{
		{"无旅程", JourneyStatusResponse{Active: false}, `{"active":false}`},
		{"作物缺失", JourneyStatusResponse{Active: true, Error: "crop data not found", CropName: "Tomato"}, `{"active":true,"error":"crop data not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.resp)
			if err != nil {
				t.Fatalf("序列化失败: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("期望 %s，实际 %s", tt.want, b)
			}
		})
	}
}
