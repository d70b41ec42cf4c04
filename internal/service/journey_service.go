package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/internal/repository"
	pkgerrors "github.com/notsura/agro/pkg/errors"
)

// ── 种植旅程模块业务错误 ──

var (
	ErrInvalidInput    = errors.New("crop name and sowing date are required")
	ErrNoActiveJourney = errors.New("no active journey")
)

// CropDataMissing 旅程作物不在目录中时状态里返回的错误文本
const CropDataMissing = "crop data not found"

const (
	dateLayout = "2006-01-02"
	// toggleRetries 乐观锁冲突时的最大重试次数
	toggleRetries = 3
)

// JourneyService 种植旅程生命周期接口；每个用户至多一条进行中的旅程
type JourneyService interface {
	Start(ctx context.Context, userID string, req *dto.StartJourneyRequest) (*dto.StartJourneyResponse, error)
	GetStatus(ctx context.Context, userID string, today time.Time) (*dto.JourneyStatusResponse, error)
	ToggleTask(ctx context.Context, userID, taskTitle string) (*dto.ToggleTaskResponse, error)
	Complete(ctx context.Context, userID string, now time.Time) (*dto.HistoryResponse, error)
	History(ctx context.Context, userID string) ([]dto.HistoryResponse, error)
}

type journeyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewJourneyService 创建 JourneyService 实例
func NewJourneyService(repo *repository.Repository, logger *zap.Logger) JourneyService {
	return &journeyService{repo: repo, logger: logger}
}

// ────────────────────── Start ──────────────────────

// Start 覆盖写入：已有旅程时替换作物与播种日期并清空已完成任务
func (s *journeyService) Start(ctx context.Context, userID string, req *dto.StartJourneyRequest) (*dto.StartJourneyResponse, error) {
	cropName := strings.TrimSpace(req.CropName)
	rawDate := strings.TrimSpace(req.SowingDate)
	if cropName == "" || rawDate == "" {
		return nil, ErrInvalidInput
	}

	sowing, err := ParseSowingDate(rawDate)
	if err != nil {
		return nil, err
	}

	journey := &model.Journey{
		UserID:     userID,
		CropName:   cropName,
		SowingDate: sowing,
	}
	if err := s.repo.Journey.Put(ctx, journey); err != nil {
		s.logger.Error("写入种植旅程失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("种植旅程已开始",
		zap.String("user_id", userID),
		zap.String("crop", cropName),
		zap.String("sowing_date", sowing.Format(dateLayout)),
	)

	return &dto.StartJourneyResponse{
		Message:    fmt.Sprintf("Journey for %s started!", cropName),
		CropName:   cropName,
		SowingDate: sowing.Format(dateLayout),
	}, nil
}

// ────────────────────── GetStatus ──────────────────────

func (s *journeyService) GetStatus(ctx context.Context, userID string, today time.Time) (*dto.JourneyStatusResponse, error) {
	journey, err := s.repo.Journey.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.JourneyStatusResponse{Active: false}, nil
		}
		s.logger.Error("查询种植旅程失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	crop, err := s.repo.Crop.FindByName(ctx, journey.CropName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("旅程作物不在目录中", zap.String("user_id", userID), zap.String("crop", journey.CropName))
			return &dto.JourneyStatusResponse{Active: true, Error: CropDataMissing}, nil
		}
		s.logger.Error("查询作物失败", zap.String("crop", journey.CropName), zap.Error(err))
		return nil, err
	}

	elapsed := ElapsedDays(journey.SowingDate, today)
	current, next := ResolveStage(crop.Routine, elapsed)

	completed := []string(journey.CompletedTasks)
	if completed == nil {
		completed = []string{}
	}

	return &dto.JourneyStatusResponse{
		Active:          true,
		CropName:        journey.CropName,
		SowingDate:      journey.SowingDate.Format(dateLayout),
		DaysSinceSowing: elapsed,
		CurrentTask:     current,
		NextTask:        next,
		Routine:         routineOf(crop),
		PostHarvest:     crop.PostHarvest,
		CompletedTasks:  completed,
	}, nil
}

// ────────────────────── ToggleTask ──────────────────────

// ToggleTask 按字符串精确匹配切换任务完成状态，版本冲突时重新读取后重试
func (s *journeyService) ToggleTask(ctx context.Context, userID, taskTitle string) (*dto.ToggleTaskResponse, error) {
	if taskTitle == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}

	for attempt := 1; ; attempt++ {
		journey, err := s.repo.Journey.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoActiveJourney
			}
			s.logger.Error("查询种植旅程失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}

		journey.CompletedTasks = toggle(journey.CompletedTasks, taskTitle)

		err = s.repo.Journey.UpdateTasks(ctx, journey)
		if err == nil {
			return &dto.ToggleTaskResponse{CompletedTasks: []string(journey.CompletedTasks)}, nil
		}
		if errors.Is(err, pkgerrors.ErrOptimisticLock) && attempt < toggleRetries {
			s.logger.Debug("任务切换版本冲突，重试", zap.String("user_id", userID), zap.Int("attempt", attempt))
			continue
		}
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新已完成任务失败", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}
}

func toggle(tasks model.StringList, title string) model.StringList {
	out := make(model.StringList, 0, len(tasks)+1)
	found := false
	for _, t := range tasks {
		if t == title {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		out = append(out, title)
	}
	return out
}

// ────────────────────── Complete ──────────────────────

// Complete 在同一事务中删除旅程并写入归档记录
// 读取后旅程被并发完成或重新开始时返回 ErrNoActiveJourney
func (s *journeyService) Complete(ctx context.Context, userID string, now time.Time) (*dto.HistoryResponse, error) {
	journey, err := s.repo.Journey.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveJourney
		}
		s.logger.Error("查询种植旅程失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	entry := &model.FarmingHistory{
		UserID:         userID,
		CropName:       journey.CropName,
		StartDate:      journey.SowingDate,
		CompletionDate: now,
		DurationDays:   ElapsedDays(journey.SowingDate, now),
		Status:         model.HistoryStatusHarvested,
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	// 先按读取时的版本删除：期间被重新 Start 的旅程不会被误删
	if err := txRepo.Journey.Delete(ctx, journey); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("旅程已被并发修改，放弃归档", zap.String("user_id", userID))
			return nil, ErrNoActiveJourney
		}
		s.logger.Error("删除种植旅程失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if err := txRepo.History.Append(ctx, entry); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("写入归档记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("种植旅程已归档",
		zap.String("user_id", userID),
		zap.String("crop", entry.CropName),
		zap.Int("duration_days", entry.DurationDays),
	)

	resp := toHistoryResponse(entry)
	return &resp, nil
}

// ────────────────────── History ──────────────────────

func (s *journeyService) History(ctx context.Context, userID string) ([]dto.HistoryResponse, error) {
	entries, err := s.repo.History.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询归档记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.HistoryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, toHistoryResponse(&entries[i]))
	}
	return result, nil
}

// ── 辅助函数 ──

// ParseSowingDate 接受 YYYY-MM-DD 或 RFC3339，返回 UTC 零点的日历日期
func ParseSowingDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return dateOnly(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: sowing_date must be YYYY-MM-DD", ErrInvalidInput)
}

func toHistoryResponse(h *model.FarmingHistory) dto.HistoryResponse {
	return dto.HistoryResponse{
		ID:             h.HistoryID,
		CropName:       h.CropName,
		StartDate:      h.StartDate.Format(dateLayout),
		CompletionDate: h.CompletionDate.Format(time.RFC3339),
		DurationDays:   h.DurationDays,
		Status:         h.Status,
	}
}
