package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/internal/repository"
)

var ErrCannotBlockSelf = errors.New("admins cannot block their own account")

// UserService 管理后台：用户管理与统计
type UserService interface {
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	// ToggleStatus 在 active / blocked 之间切换
	ToggleStatus(ctx context.Context, callerID, targetID string) (*dto.ToggleStatusResponse, error)
	Stats(ctx context.Context) (*dto.AdminStatsResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

// ────────────────────── ToggleStatus ──────────────────────

func (s *userService) ToggleStatus(ctx context.Context, callerID, targetID string) (*dto.ToggleStatusResponse, error) {
	if callerID == targetID {
		return nil, ErrCannotBlockSelf
	}

	user, err := s.repo.User.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", targetID), zap.Error(err))
		return nil, err
	}

	if user.IsBlocked() {
		user.Status = model.UserStatusActive
	} else {
		user.Status = model.UserStatusBlocked
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户状态失败", zap.String("user_id", targetID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户状态已变更",
		zap.String("operator", callerID),
		zap.String("user_id", targetID),
		zap.String("status", user.Status),
	)
	return &dto.ToggleStatusResponse{ID: user.UserID, Status: user.Status}, nil
}

// ────────────────────── Stats ──────────────────────

func (s *userService) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	var (
		stats dto.AdminStatsResponse
		err   error
	)

	counters := []struct {
		name string
		dst  *int64
		fn   func(context.Context) (int64, error)
	}{
		{"users", &stats.Users, s.repo.User.Count},
		{"crops", &stats.Crops, s.repo.Crop.Count},
		{"suitability_rules", &stats.SuitabilityRules, s.repo.Suitability.Count},
		{"active_journeys", &stats.ActiveJourneys, s.repo.Journey.Count},
		{"harvests", &stats.Harvests, s.repo.History.Count},
	}
	for _, c := range counters {
		if *c.dst, err = c.fn(ctx); err != nil {
			s.logger.Error("统计失败", zap.String("table", c.name), zap.Error(err))
			return nil, err
		}
	}
	return &stats, nil
}
