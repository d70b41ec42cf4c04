package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notsura/agro/internal/dto"
)

func setupTestRecommendService() (RecommendService, *testRepos) {
	repo, m := newTestRepository(riceCrop(), wheatCrop(), tomatoCrop())
	m.suitability.rules = sampleRules()

	matcher := NewSuitabilityMatcher(m.suitability, "", "", nil)
	crops := NewCropService(repo, nil, 0, zap.NewNop())
	return NewRecommendService(matcher, fixedScorer(96), crops, zap.NewNop()), m
}

func names(items []dto.RecommendationItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestRecommend_ExactMatchSkipsUnknownCandidates(t *testing.T) {
	svc, _ := setupTestRecommendService()

	items, err := svc.Recommend(context.Background(), &dto.RecommendRequest{
		Soil: "Alluvial", Season: "Summer", Water: "High",
	})
	require.NoError(t, err)

	// Sugarcane / Watermelon / Banana 不在目录中
	require.Equal(t, []string{"Rice"}, names(items))
	assert.Equal(t, 96, items[0].SuitabilityPercent)
	assert.Equal(t, LabelHigh, items[0].Suitability)
	assert.True(t, items[0].IsRecommended)
	assert.Len(t, items[0].Routine, 3)
}

func TestRecommend_CategoryFilter(t *testing.T) {
	svc, _ := setupTestRecommendService()
	ctx := context.Background()

	base := dto.RecommendRequest{Soil: "Alluvial", Season: "Summer", Water: "Moderate"}

	all, err := svc.Recommend(ctx, &base)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rice", "Tomato"}, names(all))

	veg := base
	veg.Category = "veg"
	filtered, err := svc.Recommend(ctx, &veg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tomato"}, names(filtered))

	explicitAll := base
	explicitAll.Category = "All"
	unfiltered, err := svc.Recommend(ctx, &explicitAll)
	require.NoError(t, err)
	assert.Len(t, unfiltered, 2)
}

func TestRecommend_SeasonFallbackUsesFloor(t *testing.T) {
	svc, _ := setupTestRecommendService()

	report, err := svc.Evaluate(context.Background(), &dto.RecommendRequest{
		Soil: "Red Soil", Season: "Summer", Water: "High",
	})
	require.NoError(t, err)

	assert.Equal(t, "Red", report.Soil)
	assert.Equal(t, "Hot", report.Climate)
	assert.False(t, report.IsExactMatch)
	require.Equal(t, []string{"Rice"}, names(report.Items))
	// 33 (季节) + 34 (气候) = 67，推荐作物提升到 82
	assert.Equal(t, RecommendedFloor, report.Items[0].SuitabilityPercent)
}

func TestRecommend_UnknownTargetCrop(t *testing.T) {
	svc, _ := setupTestRecommendService()

	items, err := svc.Recommend(context.Background(), &dto.RecommendRequest{
		Soil: "Alluvial", Season: "Summer", Water: "High", Crop: "Quinoa",
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	custom := items[1]
	assert.Equal(t, "Quinoa", custom.Name)
	assert.Equal(t, CustomAdvisoryScore, custom.SuitabilityPercent)
	assert.Equal(t, LabelUnknown, custom.Suitability)
	assert.False(t, custom.IsRecommended)
	assert.Equal(t, "Custom Advisory: No historical data for 'Quinoa'. Proceed with calculated risk.", custom.Warning)
	require.Len(t, custom.Routine, 3)
	assert.Equal(t, "General", custom.Routine[0].Period)
	assert.Equal(t, "Harvest", custom.Routine[2].Period)
}

func TestRecommend_KnownTargetCropWithWarning(t *testing.T) {
	svc, _ := setupTestRecommendService()

	items, err := svc.Recommend(context.Background(), &dto.RecommendRequest{
		Soil: "Alluvial", Season: "Summer", Water: "High", Crop: "wheat",
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	target := items[1]
	assert.Equal(t, "Wheat", target.Name)
	// 土壤 33 + Hot 遇 Moderate 需水 15
	assert.Equal(t, 48, target.SuitabilityPercent)
	assert.Equal(t, LabelLow, target.Suitability)
	assert.False(t, target.IsRecommended)
	assert.Equal(t,
		"Caution: Wheat has a 48% match for your parameters. Traditionally, it faces challenges in Alluvial soil during Summer.",
		target.Warning,
	)
}

func TestRecommend_TargetAlreadyRecommended(t *testing.T) {
	svc, _ := setupTestRecommendService()

	items, err := svc.Recommend(context.Background(), &dto.RecommendRequest{
		Soil: "Alluvial", Season: "Summer", Water: "High", Crop: " RICE ",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rice"}, names(items))
}

func TestRecommend_HighScoringTargetHasNoWarning(t *testing.T) {
	svc, _ := setupTestRecommendService()

	items, err := svc.Recommend(context.Background(), &dto.RecommendRequest{
		Soil: "Red", Season: "Summer", Water: "Moderate", Crop: "Tomato",
	})
	require.NoError(t, err)

	var tomato *dto.RecommendationItem
	for i := range items {
		if items[i].Name == "Tomato" {
			tomato = &items[i]
		}
	}
	require.NotNil(t, tomato)
	assert.Equal(t, 100, tomato.SuitabilityPercent)
	assert.Empty(t, tomato.Warning)
}

func TestRecommend_StorageError(t *testing.T) {
	svc, m := setupTestRecommendService()
	m.suitability.err = errStorage

	_, err := svc.Recommend(context.Background(), &dto.RecommendRequest{})
	assert.ErrorIs(t, err, errStorage)
}

func TestRecommend_CatalogError(t *testing.T) {
	svc, m := setupTestRecommendService()
	m.crop.listErr = errStorage

	_, err := svc.Recommend(context.Background(), &dto.RecommendRequest{})
	assert.ErrorIs(t, err, errStorage)
}
