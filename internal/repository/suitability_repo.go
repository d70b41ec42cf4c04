package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/notsura/agro/internal/model"
)

// SuitabilityRepository 适宜性规则数据访问接口
type SuitabilityRepository interface {
	// FindRule 三元组精确匹配，未命中返回 gorm.ErrRecordNotFound
	FindRule(ctx context.Context, soil, season, climate string) (*model.SuitabilityRule, error)
	// FindRuleBySeason 按录入顺序返回第一条季节相同的规则
	FindRuleBySeason(ctx context.Context, season string) (*model.SuitabilityRule, error)
	List(ctx context.Context) ([]model.SuitabilityRule, error)
	// Upsert 三元组已存在时覆盖作物列表，否则追加到末尾
	Upsert(ctx context.Context, rule *model.SuitabilityRule) error
	Count(ctx context.Context) (int64, error)
}

type suitabilityRepo struct {
	db *gorm.DB
}

// NewSuitabilityRepo 创建 SuitabilityRepository 实例
func NewSuitabilityRepo(db *gorm.DB) SuitabilityRepository {
	return &suitabilityRepo{db: db}
}

func (r *suitabilityRepo) FindRule(ctx context.Context, soil, season, climate string) (*model.SuitabilityRule, error) {
	var rule model.SuitabilityRule
	err := r.db.WithContext(ctx).
		Where("soil = ? AND season = ? AND climate = ?", soil, season, climate).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *suitabilityRepo) FindRuleBySeason(ctx context.Context, season string) (*model.SuitabilityRule, error) {
	var rule model.SuitabilityRule
	err := r.db.WithContext(ctx).
		Where("season = ?", season).
		Order("position ASC").
		Order("created_at ASC").
		Take(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *suitabilityRepo) List(ctx context.Context) ([]model.SuitabilityRule, error) {
	var rules []model.SuitabilityRule
	err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&rules).Error
	return rules, err
}

func (r *suitabilityRepo) Upsert(ctx context.Context, rule *model.SuitabilityRule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.SuitabilityRule
		err := tx.Where("soil = ? AND season = ? AND climate = ?", rule.Soil, rule.Season, rule.Climate).
			First(&existing).Error
		switch {
		case err == nil:
			existing.Crops = rule.Crops
			if err := tx.Model(&existing).Update("crops", rule.Crops).Error; err != nil {
				return err
			}
			*rule = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		var maxPos int
		if err := tx.Model(&model.SuitabilityRule{}).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		rule.Position = maxPos + 1
		return translate(tx.Create(rule).Error)
	})
}

func (r *suitabilityRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SuitabilityRule{}).Count(&n).Error
	return n, err
}
