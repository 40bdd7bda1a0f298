package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"poprank/internal/models"
)

func TestDecayedBoostLinearWindow(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	item := &models.ContentItem{Variant: models.VariantImage, CreatedAt: t0, InitialBoost: 100}

	tests := []struct {
		name  string
		since time.Duration
		want  float64
	}{
		{"at origin", 0, 100},
		{"one hour", time.Hour, 90},
		{"half window", 5 * time.Hour, 50},
		{"nine hours", 9 * time.Hour, 10},
		{"window end", 10 * time.Hour, 0},
		{"past window", 48 * time.Hour, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DecayedBoost(item, t0.Add(tt.since)), 0.001)
		})
	}
}

func TestDecayedBoostBounds(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	item := &models.ContentItem{Variant: models.VariantAudio, CreatedAt: t0, InitialBoost: 73}

	// 任意时刻都落在 [0, InitialBoost]，且单调不增
	prev := item.InitialBoost + 1
	for m := 0; m <= 15*60; m += 7 {
		now := t0.Add(time.Duration(m) * time.Minute)
		got := DecayedBoost(item, now)
		assert.GreaterOrEqual(t, got, 0.0, "minute %d", m)
		assert.LessOrEqual(t, got, item.InitialBoost, "minute %d", m)
		assert.LessOrEqual(t, got, prev, "minute %d not monotonic", m)
		prev = got
	}
}

func TestDecayedBoostFailClosed(t *testing.T) {
	now := time.Now()

	t.Run("missing created_at", func(t *testing.T) {
		item := &models.ContentItem{Variant: models.VariantImage, InitialBoost: 100}
		assert.Equal(t, 0.0, DecayedBoost(item, now))
	})

	t.Run("zero boost", func(t *testing.T) {
		item := &models.ContentItem{Variant: models.VariantImage, CreatedAt: now}
		assert.Equal(t, 0.0, DecayedBoost(item, now))
	})

	t.Run("origin in the future clamps to full boost", func(t *testing.T) {
		item := &models.ContentItem{Variant: models.VariantImage, CreatedAt: now.Add(time.Hour), InitialBoost: 40}
		assert.Equal(t, 40.0, DecayedBoost(item, now))
	})
}

func TestPowerBoostOriginOverride(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	usedAt := t0.Add(9 * time.Hour)
	expiry := usedAt.Add(7 * 24 * time.Hour)

	item := &models.ContentItem{
		Variant:        models.VariantVideo,
		CreatedAt:      t0,
		InitialBoost:   80,
		BoostUsedAt:    &usedAt,
		BoostExpiresAt: &expiry,
	}

	t.Run("redeem resets clock, not additive", func(t *testing.T) {
		// 自然加成本来只剩 10，用券后按新锚点从头计
		origin, kind := BoostOrigin(item, usedAt)
		assert.Equal(t, OriginPower, kind)
		assert.Equal(t, usedAt, origin)
		assert.Equal(t, 80.0, DecayedBoost(item, usedAt))
		assert.Equal(t, 40.0, DecayedBoost(item, usedAt.Add(5*time.Hour)))
	})

	t.Run("expired coupon falls back to created_at", func(t *testing.T) {
		after := expiry.Add(time.Minute)
		origin, kind := BoostOrigin(item, after)
		assert.Equal(t, OriginNatural, kind)
		assert.Equal(t, t0, origin)
		// 创建时间早就超出衰减窗口了
		assert.Equal(t, 0.0, DecayedBoost(item, after))
	})
}

func TestBoostFromTopScore(t *testing.T) {
	assert.Equal(t, 80.0, BoostFromTopScore(100))
	assert.Equal(t, 10.0, BoostFromTopScore(0), "empty feed still gets the floor boost")
	assert.Equal(t, 10.0, BoostFromTopScore(5))
}
