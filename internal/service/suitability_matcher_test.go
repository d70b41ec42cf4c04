package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notsura/agro/internal/model"
)

func sampleRules() []model.SuitabilityRule {
	return []model.SuitabilityRule{
		{Soil: "Alluvial", Season: "Summer", Climate: "Hot", Crops: model.StringList{"Rice", "Sugarcane", "Watermelon", "Banana"}, Position: 1},
		{Soil: "Alluvial", Season: "Summer", Climate: "Moderate", Crops: model.StringList{"Rice", "Banana", "Tomato"}, Position: 2},
		{Soil: "Alluvial", Season: "Kharif", Climate: "Moderate", Crops: model.StringList{"Rice", "Maize", "Soybean", "Groundnut"}, Position: 3},
		{Soil: "Black", Season: "Summer", Climate: "Hot", Crops: model.StringList{"Cotton", "Soybean", "Sugarcane", "Banana"}, Position: 4},
	}
}

func TestNormalizeEnvironment(t *testing.T) {
	tests := []struct {
		name                string
		soil, season, water string
		want                Environment
	}{
		{"全部为空取默认值", "", "", "", Environment{Soil: "Alluvial", Season: "Kharif", Climate: "Moderate"}},
		{"取第一个词", "Black Soil", "Summer Season", "High rainfall", Environment{Soil: "Black", Season: "Summer", Climate: "Hot"}},
		{"前导空白", "   Red  loam", "\tWinter", "Moderate", Environment{Soil: "Red", Season: "Winter", Climate: "Moderate"}},
		{"Arid 视为 Hot", "Red", "Kharif", "Semi-Arid", Environment{Soil: "Red", Season: "Kharif", Climate: "Hot"}},
		{"大小写敏感", "Red", "Kharif", "high", Environment{Soil: "Red", Season: "Kharif", Climate: "Moderate"}},
		{"Low 无对应气候", "Red", "Kharif", "Low", Environment{Soil: "Red", Season: "Kharif", Climate: "Moderate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEnvironment(tt.soil, tt.season, tt.water))
		})
	}
}

func TestSuitabilityMatcher_ConfiguredDefaults(t *testing.T) {
	m := NewSuitabilityMatcher(newMockSuitabilityRepo(), "Red", "Rabi", nil)
	env := m.Normalize("", "", "")
	assert.Equal(t, Environment{Soil: "Red", Season: "Rabi", Climate: "Moderate"}, env)
}

func TestSuitabilityMatcher_ExactMatch(t *testing.T) {
	m := NewSuitabilityMatcher(newMockSuitabilityRepo(sampleRules()...), "", "", nil)

	crops, exact, err := m.Match(context.Background(), Environment{Soil: "Black", Season: "Summer", Climate: "Hot"})
	require.NoError(t, err)
	assert.True(t, exact)
	assert.Equal(t, []string{"Cotton", "Soybean", "Sugarcane", "Banana"}, crops)
}

func TestSuitabilityMatcher_SeasonFallbackUsesFirstRule(t *testing.T) {
	m := NewSuitabilityMatcher(newMockSuitabilityRepo(sampleRules()...), "", "", nil)

	crops, exact, err := m.Match(context.Background(), Environment{Soil: "Red", Season: "Summer", Climate: "Cool"})
	require.NoError(t, err)
	assert.False(t, exact)
	assert.Equal(t, []string{"Rice", "Sugarcane", "Watermelon", "Banana"}, crops)
}

func TestSuitabilityMatcher_DefaultFallback(t *testing.T) {
	m := NewSuitabilityMatcher(newMockSuitabilityRepo(sampleRules()...), "", "", nil)

	crops, exact, err := m.Match(context.Background(), Environment{Soil: "Sandy", Season: "Monsoon", Climate: "Hot"})
	require.NoError(t, err)
	assert.False(t, exact)
	assert.Equal(t, []string{"Rice", "Wheat", "Maize"}, crops)

	// 返回值为副本，修改不影响默认列表
	crops[0] = "Changed"
	again, _, err := m.Match(context.Background(), Environment{Soil: "Sandy", Season: "Monsoon", Climate: "Hot"})
	require.NoError(t, err)
	assert.Equal(t, "Rice", again[0])
}

func TestSuitabilityMatcher_ConfiguredFallback(t *testing.T) {
	m := NewSuitabilityMatcher(newMockSuitabilityRepo(), "", "", []string{"Millet"})

	crops, exact, err := m.Match(context.Background(), Environment{Soil: "Red", Season: "Kharif", Climate: "Moderate"})
	require.NoError(t, err)
	assert.False(t, exact)
	assert.Equal(t, []string{"Millet"}, crops)
}

func TestSuitabilityMatcher_StorageError(t *testing.T) {
	repo := newMockSuitabilityRepo(sampleRules()...)
	repo.err = errStorage
	m := NewSuitabilityMatcher(repo, "", "", nil)

	_, _, err := m.Match(context.Background(), Environment{Soil: "Alluvial", Season: "Summer", Climate: "Hot"})
	assert.ErrorIs(t, err, errStorage)
}
