package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pkgerrors "github.com/notsura/agro/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db          *gorm.DB
	User        UserRepository
	Crop        CropRepository
	Suitability SuitabilityRepository
	Journey     JourneyRepository
	History     HistoryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		User:        NewUserRepo(db),
		Crop:        NewCropRepo(db),
		Suitability: NewSuitabilityRepo(db),
		Journey:     NewJourneyRepo(db),
		History:     NewHistoryRepo(db),
	}
}

// BeginTx 开启事务；未绑定数据库（单元测试中的 mock 聚合）时返回 nil
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务的 Repository 聚合；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Ping 检查数据库连通性
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate 将唯一约束冲突转换为 pkgerrors.ErrDuplicate
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrDuplicate
	}
	return err
}
