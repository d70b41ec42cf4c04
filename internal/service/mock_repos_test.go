package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/internal/repository"
	pkgerrors "github.com/notsura/agro/pkg/errors"
	"github.com/notsura/agro/pkg/redis"
)

var errStorage = errors.New("storage down")

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return pkgerrors.ErrDuplicate
		}
	}
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	ids := make([]string, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result []model.User
	for i, id := range ids {
		if i < offset || len(result) >= limit {
			continue
		}
		result = append(result, *m.users[id])
	}
	return result, int64(len(ids)), nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── Mock CropRepository ──

type mockCropRepo struct {
	crops   map[string]*model.Crop // key: crop_id
	listErr error
	lists   int // List 调用次数，用于验证缓存
}

func newMockCropRepo(crops ...model.Crop) *mockCropRepo {
	m := &mockCropRepo{crops: make(map[string]*model.Crop)}
	for i := range crops {
		c := crops[i]
		if c.CropID == "" {
			c.CropID = "crop-" + model.CropNameKey(c.Name)
		}
		c.NameKey = model.CropNameKey(c.Name)
		m.crops[c.CropID] = &c
	}
	return m
}

func (m *mockCropRepo) FindByName(_ context.Context, name string) (*model.Crop, error) {
	key := model.CropNameKey(name)
	for _, c := range m.crops {
		if c.NameKey == key {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCropRepo) GetByID(_ context.Context, id string) (*model.Crop, error) {
	if c, ok := m.crops[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCropRepo) List(_ context.Context) ([]model.Crop, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]model.Crop, 0, len(m.crops))
	for _, c := range m.crops {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockCropRepo) Create(_ context.Context, crop *model.Crop) error {
	crop.NameKey = model.CropNameKey(crop.Name)
	for _, c := range m.crops {
		if c.NameKey == crop.NameKey {
			return pkgerrors.ErrDuplicate
		}
	}
	if crop.CropID == "" {
		crop.CropID = "crop-" + crop.NameKey
	}
	cp := *crop
	m.crops[crop.CropID] = &cp
	return nil
}

func (m *mockCropRepo) Update(_ context.Context, crop *model.Crop) error {
	crop.NameKey = model.CropNameKey(crop.Name)
	for id, c := range m.crops {
		if id != crop.CropID && c.NameKey == crop.NameKey {
			return pkgerrors.ErrDuplicate
		}
	}
	cp := *crop
	m.crops[crop.CropID] = &cp
	return nil
}

func (m *mockCropRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.crops[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.crops, id)
	return nil
}

func (m *mockCropRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.crops)), nil
}

func (m *mockCropRepo) Upsert(ctx context.Context, crop *model.Crop) error {
	if existing, err := m.FindByName(ctx, crop.Name); err == nil {
		crop.CropID = existing.CropID
		return m.Update(ctx, crop)
	}
	return m.Create(ctx, crop)
}

// ── Mock SuitabilityRepository ──

type mockSuitabilityRepo struct {
	rules []model.SuitabilityRule // 声明顺序
	err   error
}

func newMockSuitabilityRepo(rules ...model.SuitabilityRule) *mockSuitabilityRepo {
	return &mockSuitabilityRepo{rules: rules}
}

func (m *mockSuitabilityRepo) FindRule(_ context.Context, soil, season, climate string) (*model.SuitabilityRule, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.rules {
		r := m.rules[i]
		if r.Soil == soil && r.Season == season && r.Climate == climate {
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSuitabilityRepo) FindRuleBySeason(_ context.Context, season string) (*model.SuitabilityRule, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.rules {
		if m.rules[i].Season == season {
			r := m.rules[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSuitabilityRepo) List(_ context.Context) ([]model.SuitabilityRule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]model.SuitabilityRule(nil), m.rules...), nil
}

func (m *mockSuitabilityRepo) Upsert(_ context.Context, rule *model.SuitabilityRule) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.rules {
		r := &m.rules[i]
		if r.Soil == rule.Soil && r.Season == rule.Season && r.Climate == rule.Climate {
			r.Crops = rule.Crops
			*rule = *r
			return nil
		}
	}
	rule.Position = len(m.rules) + 1
	m.rules = append(m.rules, *rule)
	return nil
}

func (m *mockSuitabilityRepo) Count(_ context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.rules)), nil
}

// ── Mock JourneyRepository ──

type mockJourneyRepo struct {
	mu       sync.Mutex
	journeys map[string]*model.Journey // key: user_id
	// conflicts 接下来的 UpdateTasks 调用中模拟并发修改的次数
	conflicts int
	updates   int
	deleteErr error
	// afterGet 在 Get 返回前执行，用于模拟读取之后的并发写入
	afterGet func()
}

func newMockJourneyRepo() *mockJourneyRepo {
	return &mockJourneyRepo{journeys: make(map[string]*model.Journey)}
}

func (m *mockJourneyRepo) Get(_ context.Context, userID string) (*model.Journey, error) {
	m.mu.Lock()
	j, ok := m.journeys[userID]
	if !ok {
		m.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	cp := *j
	cp.CompletedTasks = append(model.StringList(nil), j.CompletedTasks...)
	hook := m.afterGet
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return &cp, nil
}

func (m *mockJourneyRepo) Put(_ context.Context, journey *model.Journey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	version := 1
	if existing, ok := m.journeys[journey.UserID]; ok {
		version = existing.Version + 1
	}
	cp := *journey
	cp.CompletedTasks = model.StringList{}
	cp.Version = version
	m.journeys[journey.UserID] = &cp
	return nil
}

func (m *mockJourneyRepo) UpdateTasks(_ context.Context, journey *model.Journey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	existing, ok := m.journeys[journey.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if m.conflicts > 0 {
		m.conflicts--
		existing.Version++
		return pkgerrors.ErrOptimisticLock
	}
	if existing.Version != journey.Version {
		return pkgerrors.ErrOptimisticLock
	}
	existing.CompletedTasks = append(model.StringList(nil), journey.CompletedTasks...)
	existing.Version++
	journey.Version = existing.Version
	return nil
}

func (m *mockJourneyRepo) Delete(_ context.Context, journey *model.Journey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	existing, ok := m.journeys[journey.UserID]
	if !ok || existing.Version != journey.Version || existing.CropName != journey.CropName {
		return gorm.ErrRecordNotFound
	}
	delete(m.journeys, journey.UserID)
	return nil
}

func (m *mockJourneyRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.journeys)), nil
}

// ── Mock HistoryRepository ──

type mockHistoryRepo struct {
	entries []model.FarmingHistory
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{}
}

func (m *mockHistoryRepo) Append(_ context.Context, entry *model.FarmingHistory) error {
	if entry.HistoryID == "" {
		entry.HistoryID = fmt.Sprintf("hist-%d", len(m.entries)+1)
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockHistoryRepo) ListByUser(_ context.Context, userID string) ([]model.FarmingHistory, error) {
	result := []model.FarmingHistory{}
	for _, e := range m.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CompletionDate.After(result[j].CompletionDate)
	})
	return result, nil
}

func (m *mockHistoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.entries)), nil
}

// ── Mock Cache / TokenBlacklist ──

type mockCache struct {
	data    map[string][]byte
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (m *mockCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	m.deletes++
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type mockBlacklist struct {
	tokens map[string]time.Duration
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.tokens == nil {
		m.tokens = make(map[string]time.Duration)
	}
	m.tokens[jti] = ttl
	return nil
}

// ── 组装 ──

type testRepos struct {
	user        *mockUserRepo
	crop        *mockCropRepo
	suitability *mockSuitabilityRepo
	journey     *mockJourneyRepo
	history     *mockHistoryRepo
}

// newTestRepository db 为 nil，BeginTx 返回 nil 事务，Service 层按非事务路径执行
func newTestRepository(crops ...model.Crop) (*repository.Repository, *testRepos) {
	m := &testRepos{
		user:        newMockUserRepo(),
		crop:        newMockCropRepo(crops...),
		suitability: newMockSuitabilityRepo(),
		journey:     newMockJourneyRepo(),
		history:     newMockHistoryRepo(),
	}
	repo := &repository.Repository{
		User:        m.user,
		Crop:        m.crop,
		Suitability: m.suitability,
		Journey:     m.journey,
		History:     m.history,
	}
	return repo, m
}

// ── 测试数据 ──

func riceCrop() model.Crop {
	return model.Crop{
		Name:             "Rice",
		Category:         "Grain",
		GrowingSeason:    "Summer/Kharif",
		SoilPreference:   "Alluvial/Clay",
		WaterRequirement: "High",
		Routine: model.Routine{
			{StartDay: 1, EndDay: 10, Title: "Nursery Preparation", DailyRoutine: []string{"Check nursery moisture levels"}},
			{StartDay: 25, EndDay: 30, Title: "Transplanting"},
			{StartDay: 31, EndDay: 60, Title: "Vegetative Growth"},
		},
		PostHarvest: &model.PostHarvest{Storage: "Dry to 14% moisture"},
	}
}

func wheatCrop() model.Crop {
	return model.Crop{
		Name:             "Wheat",
		Category:         "Grain",
		GrowingSeason:    "Winter/Rabi",
		SoilPreference:   "Loamy/Alluvial",
		WaterRequirement: "Moderate",
		Routine: model.Routine{
			{StartDay: 1, EndDay: 20, Title: "Sowing"},
		},
	}
}

func tomatoCrop() model.Crop {
	return model.Crop{
		Name:             "Tomato",
		Category:         "Vegetable",
		GrowingSeason:    "Summer",
		SoilPreference:   "Red/Loamy",
		WaterRequirement: "Moderate",
		Routine: model.Routine{
			{StartDay: 1, EndDay: 30, Title: "Nursery"},
		},
	}
}
