package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"poprank/internal/models"
)

func TestBaseScorePerVariant(t *testing.T) {
	tests := []struct {
		name string
		item models.ContentItem
		want float64
	}{
		{
			"image: clicks + likes + completeness",
			models.ContentItem{Variant: models.VariantImage, Clicks: 10, LikeCount: 3, Completeness: 50},
			10*1.0 + 3*8.0 + 50*0.1,
		},
		{
			"video counts views at reduced weight",
			models.ContentItem{Variant: models.VariantVideo, Clicks: 4, LikeCount: 2, ViewCount: 200, Completeness: 80},
			4*1.0 + 2*8.0 + 200*0.5 + 80*0.1,
		},
		{
			"audio uses plays instead of clicks",
			models.ContentItem{Variant: models.VariantAudio, PlayCount: 30, LikeCount: 5, Completeness: 20},
			30*1.0 + 5*8.0 + 20*0.1,
		},
		{
			"image ignores play and view counters",
			models.ContentItem{Variant: models.VariantImage, LikeCount: 1, PlayCount: 999, ViewCount: 999},
			8.0,
		},
		{
			"completeness clamped to 0-100",
			models.ContentItem{Variant: models.VariantImage, Completeness: 250},
			10.0,
		},
		{
			"negative completeness treated as zero",
			models.ContentItem{Variant: models.VariantAudio, Completeness: -5},
			0.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BaseScore(&tt.item), 0.001)
		})
	}
}

// 完整走一遍规格场景：T0 创建、加成 100、无互动，
// 5 小时后剩 50，来一个赞变 58，10 小时后只剩基础分。
func TestScoreScenario(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	item := &models.ContentItem{Variant: models.VariantImage, CreatedAt: t0, InitialBoost: 100}

	assert.InDelta(t, 100.0, Score(item, t0), 0.001)
	assert.InDelta(t, 50.0, Score(item, t0.Add(5*time.Hour)), 0.001)

	item.LikeCount = 1
	assert.InDelta(t, 58.0, Score(item, t0.Add(5*time.Hour)), 0.001)

	assert.InDelta(t, 8.0, Score(item, t0.Add(10*time.Hour)), 0.001)
	assert.InDelta(t, 8.0, Score(item, t0.Add(100*time.Hour)), 0.001)
}

func TestScoreIsPure(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	item := &models.ContentItem{Variant: models.VariantVideo, CreatedAt: t0, InitialBoost: 60, LikeCount: 4, ViewCount: 100}
	now := t0.Add(3 * time.Hour)

	first := Score(item, now)
	second := Score(item, now)
	assert.Equal(t, first, second)
}

func TestExplainScore(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	item := &models.ContentItem{
		ID: 7, Variant: models.VariantImage, CreatedAt: t0,
		InitialBoost: 100, LikeCount: 1, CachedScore: 100,
	}
	now := t0.Add(5 * time.Hour)

	ex := ExplainScore(item, now)
	assert.Equal(t, uint(7), ex.ItemID)
	assert.InDelta(t, 8.0, ex.Base, 0.001)
	assert.InDelta(t, 50.0, ex.DecayBoost, 0.001)
	assert.InDelta(t, 58.0, ex.LiveScore, 0.001)
	assert.InDelta(t, 100.0, ex.CachedScore, 0.001)
	assert.InDelta(t, -42.0, ex.Delta, 0.001)
	assert.Equal(t, OriginNatural, ex.BoostOrigin)
	assert.Equal(t, t0, ex.OriginAt)
}
