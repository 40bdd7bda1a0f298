package scoring

import (
	"time"

	"poprank/internal/models"
)

// BaseScore 计算不随时间变化的加权基础分。
// 各内容类型用各自的计数字段，权重共用 DefaultWeights。
// 完整度分超出 0-100 的脏数据夹取到合法区间，不报错。
func BaseScore(item *models.ContentItem) float64 {
	w := DefaultWeights

	completeness := item.Completeness
	if completeness < 0 {
		completeness = 0
	} else if completeness > 100 {
		completeness = 100
	}

	base := float64(item.LikeCount)*w.Like + float64(completeness)*w.Complete

	switch item.Variant {
	case models.VariantImage:
		base += float64(item.Clicks) * w.Click
	case models.VariantVideo:
		base += float64(item.Clicks)*w.Click + float64(item.ViewCount)*w.View
	case models.VariantAudio:
		base += float64(item.PlayCount) * w.Play
	default:
		// 未知类型只按点赞和完整度算，不让单条坏记录中断批处理
	}

	return base
}

// Score 计算 now 时刻的完整分数：基础分 + 剩余新鲜度加成。
// 纯函数，无副作用。急切写入和批量对账都必须走这里，不允许各自抄一份公式。
func Score(item *models.ContentItem, now time.Time) float64 {
	return BaseScore(item) + DecayedBoost(item, now)
}

// Explain 诊断用的分数拆解，用于排查"这条内容为什么排在这里"
type Explain struct {
	ItemID      uint      `json:"item_id"`
	Base        float64   `json:"base"`
	DecayBoost  float64   `json:"decayed_boost"`
	LiveScore   float64   `json:"live_score"`
	CachedScore float64   `json:"cached_score"`
	Delta       float64   `json:"delta"`
	BoostOrigin string    `json:"boost_origin"`
	OriginAt    time.Time `json:"origin_at"`
}

// ExplainScore 生成 item 在 now 时刻的分数拆解
func ExplainScore(item *models.ContentItem, now time.Time) Explain {
	base := BaseScore(item)
	boost := DecayedBoost(item, now)
	originAt, originKind := BoostOrigin(item, now)

	live := base + boost
	return Explain{
		ItemID:      item.ID,
		Base:        base,
		DecayBoost:  boost,
		LiveScore:   live,
		CachedScore: item.CachedScore,
		Delta:       live - item.CachedScore,
		BoostOrigin: originKind,
		OriginAt:    originAt,
	}
}
