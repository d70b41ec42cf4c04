package service

import (
	"context"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/notsura/agro/internal/model"
)

func setupTestExportService() (ExportService, *testRepos) {
	repo, m := newTestRepository(riceCrop(), wheatCrop())
	return NewExportService(repo, zap.NewNop()), m
}

func TestExportService_ExportHistory(t *testing.T) {
	svc, m := setupTestExportService()
	m.history.entries = []model.FarmingHistory{
		{UserID: "u1", CropName: "Rice", StartDate: day(2024, 1, 1), CompletionDate: day(2024, 4, 30), DurationDays: 121, Status: model.HistoryStatusHarvested},
		{UserID: "u1", CropName: "Wheat", StartDate: day(2024, 11, 1), CompletionDate: day(2025, 3, 15), DurationDays: 135, Status: model.HistoryStatusHarvested},
		{UserID: "u2", CropName: "Tomato", StartDate: day(2024, 2, 1), CompletionDate: day(2024, 5, 1), DurationDays: 91, Status: model.HistoryStatusHarvested},
	}

	buf, filename, err := svc.ExportHistory(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "harvest_history.xlsx", filename)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Harvest History")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Crop", "Sowing Date", "Completion Date", "Duration (days)", "Status"}, rows[0])
	assert.Equal(t, []string{"Wheat", "2024-11-01", "2025-03-15", "135", "Harvested"}, rows[1])
	assert.Equal(t, "Rice", rows[2][0])
}

func TestExportService_ExportHistory_Empty(t *testing.T) {
	svc, _ := setupTestExportService()

	buf, _, err := svc.ExportHistory(context.Background(), "nobody")
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Harvest History")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "只有表头")
}

func TestExportService_ExportCalendar(t *testing.T) {
	svc, m := setupTestExportService()
	m.journey.journeys["u1"] = &model.Journey{UserID: "u1", CropName: "rice", SowingDate: day(2024, 1, 1)}

	buf, filename, err := svc.ExportCalendar(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "rice_journey.ics", filename)

	body := buf.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Equal(t, 3, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "DTSTART;VALUE=DATE:20240101")
	assert.Contains(t, body, "DTSTART;VALUE=DATE:20240125")
	assert.Contains(t, body, "DTEND;VALUE=DATE:20240131")
	assert.Contains(t, body, "rice: Transplanting")

	// 生成结果应能被标准解析器读回
	cal, err := ics.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)
	summary := events[0].GetProperty(ics.ComponentPropertySummary)
	require.NotNil(t, summary)
	assert.Equal(t, "rice: Nursery Preparation", summary.Value)
}

func TestExportService_ExportCalendar_Errors(t *testing.T) {
	svc, m := setupTestExportService()
	ctx := context.Background()

	_, _, err := svc.ExportCalendar(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveJourney)

	m.journey.journeys["u1"] = &model.Journey{UserID: "u1", CropName: "Quinoa", SowingDate: day(2024, 1, 1)}
	_, _, err = svc.ExportCalendar(ctx, "u1")
	assert.ErrorIs(t, err, ErrExportNoRoutine)
}

func TestBuildJourneyCalendar_Description(t *testing.T) {
	journey := &model.Journey{UserID: "u1", CropName: "Rice", SowingDate: day(2024, 6, 1)}
	routine := []model.StageSpec{
		{StartDay: 1, EndDay: 1, Title: "Sowing", Desc: "Broadcast seed", Risk: "Birds"},
	}

	body := BuildJourneyCalendar(journey, routine, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))

	assert.Contains(t, body, "DTSTART;VALUE=DATE:20240601")
	assert.Contains(t, body, "DTEND;VALUE=DATE:20240602")
	assert.Contains(t, body, "Broadcast seed")
	assert.Contains(t, body, "u1-20240601-1@agroassist")
}
