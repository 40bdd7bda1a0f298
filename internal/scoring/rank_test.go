package scoring

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poprank/internal/models"
)

func TestSortRankedTieBreak(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	items := []models.ContentItem{
		{ID: 1, CachedScore: 50, CreatedAt: t0},
		{ID: 2, CachedScore: 50, CreatedAt: t0.Add(time.Hour)}, // 同分，更新的在前
		{ID: 3, CachedScore: 80, CreatedAt: t0},
		{ID: 4, CachedScore: 50, CreatedAt: t0.Add(time.Hour)}, // 同分同时间，ID 大的在前
	}

	SortRanked(items)

	ids := make([]uint, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	assert.Equal(t, []uint{3, 4, 2, 1}, ids)
}

func TestSortRankedDeterministic(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	base := make([]models.ContentItem, 0, 40)
	for i := 0; i < 40; i++ {
		base = append(base, models.ContentItem{
			ID:          uint(i + 1),
			CachedScore: float64(i % 5 * 10), // 大量同分
			CreatedAt:   t0.Add(time.Duration(i%7) * time.Hour),
		})
	}

	sorted := append([]models.ContentItem(nil), base...)
	SortRanked(sorted)

	// 随机打乱后重排，结果必须一致
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		shuffled := append([]models.ContentItem(nil), base...)
		r.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		SortRanked(shuffled)
		require.Equal(t, sorted, shuffled, "trial %d", trial)
	}
}
