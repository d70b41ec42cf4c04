package service

import (
	"time"

	"github.com/notsura/agro/internal/model"
)

// ResolveStage 返回第 elapsedDays 天所处阶段和下一个阶段
// current 为按列表顺序第一个包含该天的阶段，next 为第一个 start_day 大于该天的阶段，均可能为 nil。
func ResolveStage(routine []model.StageSpec, elapsedDays int) (current, next *model.StageSpec) {
	for i := range routine {
		st := routine[i]
		if current == nil && st.Contains(elapsedDays) {
			current = &st
		}
		if next == nil && st.StartDay > elapsedDays {
			next = &st
		}
		if current != nil && next != nil {
			break
		}
	}
	return current, next
}

// ElapsedDays 播种当天记为第 1 天；播种日期在未来时结果 <= 0
// 两个参数都按各自时区的日历日期计算
func ElapsedDays(sowing, today time.Time) int {
	s := time.Date(sowing.Year(), sowing.Month(), sowing.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(s).Hours()/24) + 1
}

// StageStartDate 阶段首日对应的日历日期
func StageStartDate(sowing time.Time, st model.StageSpec) time.Time {
	return dateOnly(sowing).AddDate(0, 0, st.StartDay-1)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
