package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/notsura/agro/internal/model"
)

// HistoryRepository 种植归档数据访问接口（只追加）
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.FarmingHistory) error
	// ListByUser 按完成时间倒序
	ListByUser(ctx context.Context, userID string) ([]model.FarmingHistory, error)
	Count(ctx context.Context) (int64, error)
}

type historyRepo struct {
	db *gorm.DB
}

// NewHistoryRepo 创建 HistoryRepository 实例
func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) Append(ctx context.Context, entry *model.FarmingHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *historyRepo) ListByUser(ctx context.Context, userID string) ([]model.FarmingHistory, error) {
	entries := make([]model.FarmingHistory, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completion_date DESC").
		Find(&entries).Error
	return entries, err
}

func (r *historyRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.FarmingHistory{}).Count(&n).Error
	return n, err
}
