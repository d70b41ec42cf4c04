// Package seed 加载内置作物目录并幂等写入数据库
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/internal/repository"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// AdminSpec 初始管理员
type AdminSpec struct {
	Email    string `yaml:"email"`
	Fullname string `yaml:"fullname"`
}

// RuleSpec 适宜性规则
type RuleSpec struct {
	Soil    string   `yaml:"soil"`
	Season  string   `yaml:"season"`
	Climate string   `yaml:"climate"`
	Crops   []string `yaml:"crops"`
}

// CropSpec 作物条目
type CropSpec struct {
	Name             string                 `yaml:"name"`
	Category         string                 `yaml:"category"`
	Image            string                 `yaml:"image"`
	GrowingSeason    string                 `yaml:"growing_season"`
	AvgDuration      string                 `yaml:"avg_duration"`
	SoilPreference   string                 `yaml:"soil_preference"`
	WaterRequirement string                 `yaml:"water_requirement"`
	CultivationGuide model.CultivationGuide `yaml:"cultivation_guide"`
	PestsDiseases    []model.PestDisease    `yaml:"pests_diseases"`
	ActiveAlerts     []model.Alert          `yaml:"active_alerts"`
	Routine          []model.StageSpec      `yaml:"routine"`
	PostHarvest      *model.PostHarvest     `yaml:"post_harvest"`
}

// Catalog 种子数据
type Catalog struct {
	Admin            AdminSpec  `yaml:"admin"`
	SuitabilityRules []RuleSpec `yaml:"suitability_rules"`
	Crops            []CropSpec `yaml:"crops"`
}

// Options 写入选项
type Options struct {
	AdminPassword string // 为空时不创建管理员
}

// Result 写入统计
type Result struct {
	Crops        int  `json:"crops"`
	Rules        int  `json:"rules"`
	AdminCreated bool `json:"admin_created"`
}

// Default 解析内置目录
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse 解析 YAML 目录并校验
func Parse(raw []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("解析种子目录失败: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate 检查名称唯一、阶段区间合法
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Crops))
	for _, crop := range c.Crops {
		key := model.CropNameKey(crop.Name)
		if key == "" {
			return errors.New("种子目录校验失败: 作物名称不能为空")
		}
		if seen[key] {
			return fmt.Errorf("种子目录校验失败: 作物 %q 重复", crop.Name)
		}
		seen[key] = true

		prev := 0
		for _, st := range crop.Routine {
			if st.StartDay > st.EndDay || st.StartDay < prev {
				return fmt.Errorf("种子目录校验失败: 作物 %q 阶段 %q 区间无效", crop.Name, st.Title)
			}
			prev = st.StartDay
		}
	}
	for _, r := range c.SuitabilityRules {
		if r.Soil == "" || r.Season == "" || r.Climate == "" || len(r.Crops) == 0 {
			return fmt.Errorf("种子目录校验失败: 规则 (%s, %s, %s) 不完整", r.Soil, r.Season, r.Climate)
		}
	}
	return nil
}

// Apply 在单个事务内按作物名称 / 规则三元组写入；重复执行结果一致
func Apply(ctx context.Context, repo *repository.Repository, cat *Catalog, opts Options, logger *zap.Logger) (*Result, error) {
	res := &Result{}

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("开启事务失败: %w", err)
	}
	txRepo := repo.WithTx(tx)

	rollback := func(err error) (*Result, error) {
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}

	for i := range cat.Crops {
		crop := toCrop(&cat.Crops[i])
		if err := txRepo.Crop.Upsert(ctx, crop); err != nil {
			return rollback(fmt.Errorf("写入作物 %q 失败: %w", crop.Name, err))
		}
		res.Crops++
	}

	for _, r := range cat.SuitabilityRules {
		rule := &model.SuitabilityRule{
			Soil:    r.Soil,
			Season:  r.Season,
			Climate: r.Climate,
			Crops:   model.StringList(r.Crops),
		}
		if err := txRepo.Suitability.Upsert(ctx, rule); err != nil {
			return rollback(fmt.Errorf("写入规则 (%s, %s, %s) 失败: %w", r.Soil, r.Season, r.Climate, err))
		}
		res.Rules++
	}

	if opts.AdminPassword != "" && cat.Admin.Email != "" {
		created, err := ensureAdmin(ctx, txRepo, cat.Admin, opts.AdminPassword)
		if err != nil {
			return rollback(err)
		}
		res.AdminCreated = created
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return nil, fmt.Errorf("提交事务失败: %w", err)
		}
	}

	logger.Info("种子数据写入完成",
		zap.Int("crops", res.Crops),
		zap.Int("rules", res.Rules),
		zap.Bool("admin_created", res.AdminCreated),
	)
	return res, nil
}

// ensureAdmin 管理员已存在时不改动其密码
func ensureAdmin(ctx context.Context, repo *repository.Repository, spec AdminSpec, password string) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(spec.Email))
	_, err := repo.User.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("查询管理员失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("密码哈希失败: %w", err)
	}

	admin := &model.User{
		Email:        email,
		Fullname:     spec.Fullname,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
	}
	if err := repo.User.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("创建管理员失败: %w", err)
	}
	return true, nil
}

func toCrop(s *CropSpec) *model.Crop {
	return &model.Crop{
		Name:             strings.TrimSpace(s.Name),
		Category:         s.Category,
		Image:            s.Image,
		GrowingSeason:    s.GrowingSeason,
		AvgDuration:      s.AvgDuration,
		SoilPreference:   s.SoilPreference,
		WaterRequirement: s.WaterRequirement,
		CultivationGuide: s.CultivationGuide,
		PestsDiseases:    model.PestList(s.PestsDiseases),
		ActiveAlerts:     model.AlertList(s.ActiveAlerts),
		Routine:          model.Routine(s.Routine),
		PostHarvest:      s.PostHarvest,
	}
}
