package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notsura/agro/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRoutine    = errors.New("crop data not found for the active journey")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

// ExportService 导出业务接口
//
// 导出内容以 bytes.Buffer 返回，由 Handler 层设置响应头后写出。
type ExportService interface {
	// ExportHistory 导出归档记录为 Excel
	ExportHistory(ctx context.Context, userID string) (*bytes.Buffer, string, error)
	// ExportCalendar 导出当前旅程的生长阶段为 iCalendar
	ExportCalendar(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportHistory — 归档记录导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 单个 Sheet "Harvest History"：
//   | Crop | Sowing Date | Completion Date | Duration (days) | Status |
// 按完成时间倒序，与 /user/history 保持一致

func (s *exportService) ExportHistory(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	entries, err := s.repo.History.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询归档记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Harvest History"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 18)
	f.SetColWidth(sheetName, "B", "C", 16)
	f.SetColWidth(sheetName, "D", "D", 16)
	f.SetColWidth(sheetName, "E", "E", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E7D32"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"Crop", "Sowing Date", "Completion Date", "Duration (days)", "Status"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	for i, e := range entries {
		row := i + 2
		f.SetCellValue(sheetName, cell("A", row), e.CropName)
		f.SetCellValue(sheetName, cell("B", row), e.StartDate.Format(dateLayout))
		f.SetCellValue(sheetName, cell("C", row), e.CompletionDate.Format(dateLayout))
		f.SetCellValue(sheetName, cell("D", row), e.DurationDays)
		f.SetCellValue(sheetName, cell("E", row), e.Status)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "harvest_history.xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar — 当前旅程导出为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	journey, err := s.repo.Journey.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNoActiveJourney
		}
		s.logger.Error("查询种植旅程失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", err
	}

	crop, err := s.repo.Crop.FindByName(ctx, journey.CropName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportNoRoutine
		}
		s.logger.Error("查询作物失败", zap.String("crop", journey.CropName), zap.Error(err))
		return nil, "", err
	}

	body := BuildJourneyCalendar(journey, crop.Routine, time.Now())
	filename := fmt.Sprintf("%s_journey.ics", crop.NameKey)
	return bytes.NewBufferString(body), filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
