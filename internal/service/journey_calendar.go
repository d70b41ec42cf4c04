package service

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/notsura/agro/internal/model"
)

// ── 旅程日历 ──────────────────────────────────────────────
//
// 每个生长阶段生成一个全天事件：
//   - DTSTART = 播种日 + start_day - 1
//   - DTEND   = 播种日 + end_day（全天事件的 DTEND 不包含当天）
//   - DESCRIPTION 汇总阶段说明、操作规程、风险与每日任务
// ─────────────────────────────────────────────────────────────

const calendarProductID = "-//AgroAssist//Journey Calendar//EN"

// BuildJourneyCalendar 生成旅程的 iCalendar 文本
func BuildJourneyCalendar(journey *model.Journey, routine []model.StageSpec, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(fmt.Sprintf("%s journey", journey.CropName))

	sowing := dateOnly(journey.SowingDate)
	for i, st := range routine {
		uid := fmt.Sprintf("%s-%s-%d@agroassist", journey.UserID, sowing.Format("20060102"), i+1)
		event := cal.AddEvent(uid)
		event.SetDtStampTime(stamp.UTC())
		event.SetSummary(fmt.Sprintf("%s: %s", journey.CropName, st.Title))
		event.SetAllDayStartAt(StageStartDate(sowing, st))
		event.SetAllDayEndAt(sowing.AddDate(0, 0, st.EndDay))
		if desc := stageDescription(st); desc != "" {
			event.SetDescription(desc)
		}
	}

	return cal.Serialize()
}

func stageDescription(st model.StageSpec) string {
	var parts []string
	if st.Desc != "" {
		parts = append(parts, st.Desc)
	}
	if st.Protocol != "" {
		parts = append(parts, "Protocol: "+st.Protocol)
	}
	if st.Risk != "" {
		parts = append(parts, "Risk: "+st.Risk)
	}
	if len(st.DailyRoutine) > 0 {
		parts = append(parts, "Daily: "+strings.Join(st.DailyRoutine, "; "))
	}
	return strings.Join(parts, "\n")
}
