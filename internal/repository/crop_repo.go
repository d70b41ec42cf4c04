package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/notsura/agro/internal/model"
)

// CropRepository 作物目录数据访问接口
type CropRepository interface {
	// FindByName 按名称大小写不敏感查找（走 name_key 唯一索引）
	FindByName(ctx context.Context, name string) (*model.Crop, error)
	GetByID(ctx context.Context, id string) (*model.Crop, error)
	List(ctx context.Context) ([]model.Crop, error)
	Create(ctx context.Context, crop *model.Crop) error
	Update(ctx context.Context, crop *model.Crop) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// Upsert 按 name_key 插入或覆盖，用于种子数据导入
	Upsert(ctx context.Context, crop *model.Crop) error
}

type cropRepo struct {
	db *gorm.DB
}

// NewCropRepo 创建 CropRepository 实例
func NewCropRepo(db *gorm.DB) CropRepository {
	return &cropRepo{db: db}
}

func (r *cropRepo) FindByName(ctx context.Context, name string) (*model.Crop, error) {
	var crop model.Crop
	err := r.db.WithContext(ctx).
		Where("name_key = ?", model.CropNameKey(name)).
		First(&crop).Error
	if err != nil {
		return nil, err
	}
	return &crop, nil
}

func (r *cropRepo) GetByID(ctx context.Context, id string) (*model.Crop, error) {
	var crop model.Crop
	err := r.db.WithContext(ctx).
		Where("crop_id = ?", id).
		First(&crop).Error
	if err != nil {
		return nil, err
	}
	return &crop, nil
}

func (r *cropRepo) List(ctx context.Context) ([]model.Crop, error) {
	var crops []model.Crop
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&crops).Error
	return crops, err
}

func (r *cropRepo) Create(ctx context.Context, crop *model.Crop) error {
	return translate(r.db.WithContext(ctx).Create(crop).Error)
}

func (r *cropRepo) Update(ctx context.Context, crop *model.Crop) error {
	return translate(r.db.WithContext(ctx).Save(crop).Error)
}

func (r *cropRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("crop_id = ?", id).
		Delete(&model.Crop{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cropRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Crop{}).Count(&n).Error
	return n, err
}

func (r *cropRepo) Upsert(ctx context.Context, crop *model.Crop) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "category", "image", "growing_season", "avg_duration",
				"soil_preference", "water_requirement", "cultivation_guide",
				"pests_diseases", "active_alerts", "routine", "post_harvest", "updated_at",
			}),
		}).
		Create(crop).Error
}
