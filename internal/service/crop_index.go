package service

import "github.com/notsura/agro/internal/model"

// CropIndex 以规范化名称为键的作物查找表，推荐、评分与时间线共用同一套大小写规则
type CropIndex struct {
	byKey map[string]*model.Crop
}

// NewCropIndex 由作物列表构建索引；名称键重复时保留先出现者
func NewCropIndex(crops []model.Crop) *CropIndex {
	idx := &CropIndex{byKey: make(map[string]*model.Crop, len(crops))}
	for i := range crops {
		key := model.CropNameKey(crops[i].Name)
		if _, ok := idx.byKey[key]; ok {
			continue
		}
		idx.byKey[key] = &crops[i]
	}
	return idx
}

// Lookup 大小写不敏感地查找作物
func (x *CropIndex) Lookup(name string) (*model.Crop, bool) {
	if x == nil {
		return nil, false
	}
	c, ok := x.byKey[model.CropNameKey(name)]
	return c, ok
}

// Len 索引中的作物数量
func (x *CropIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.byKey)
}
