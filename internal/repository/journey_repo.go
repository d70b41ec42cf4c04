package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/notsura/agro/internal/model"
	pkgerrors "github.com/notsura/agro/pkg/errors"
)

// JourneyRepository 进行中旅程数据访问接口（按 user_id 唯一）
type JourneyRepository interface {
	// Get 未找到返回 gorm.ErrRecordNotFound
	Get(ctx context.Context, userID string) (*model.Journey, error)
	// Put 覆盖写入：已存在时替换作物、播种日期并清空已完成任务
	Put(ctx context.Context, journey *model.Journey) error
	// UpdateTasks 按版本号更新已完成任务，版本不一致返回 ErrOptimisticLock
	UpdateTasks(ctx context.Context, journey *model.Journey) error
	// Delete 仅当版本号与作物仍与读取时一致才删除，否则返回 gorm.ErrRecordNotFound
	Delete(ctx context.Context, journey *model.Journey) error
	Count(ctx context.Context) (int64, error)
}

type journeyRepo struct {
	db *gorm.DB
}

// NewJourneyRepo 创建 JourneyRepository 实例
func NewJourneyRepo(db *gorm.DB) JourneyRepository {
	return &journeyRepo{db: db}
}

func (r *journeyRepo) Get(ctx context.Context, userID string) (*model.Journey, error) {
	var journey model.Journey
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&journey).Error
	if err != nil {
		return nil, err
	}
	return &journey, nil
}

func (r *journeyRepo) Put(ctx context.Context, journey *model.Journey) error {
	journey.CompletedTasks = model.StringList{}
	journey.Version = 1

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"crop_name":       journey.CropName,
				"sowing_date":     journey.SowingDate,
				"completed_tasks": model.StringList{},
				"version":         gorm.Expr("journeys.version + 1"),
				"updated_at":      time.Now(),
			}),
		}).
		Create(journey).Error
}

func (r *journeyRepo) UpdateTasks(ctx context.Context, journey *model.Journey) error {
	oldVersion := journey.Version
	result := r.db.WithContext(ctx).
		Model(&model.Journey{}).
		Where("user_id = ? AND version = ?", journey.UserID, oldVersion).
		Updates(map[string]interface{}{
			"completed_tasks": journey.CompletedTasks,
			"version":         oldVersion + 1,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	journey.Version = oldVersion + 1
	return nil
}

func (r *journeyRepo) Delete(ctx context.Context, journey *model.Journey) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND version = ? AND crop_name = ?", journey.UserID, journey.Version, journey.CropName).
		Delete(&model.Journey{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *journeyRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Journey{}).Count(&n).Error
	return n, err
}
