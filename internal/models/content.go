package models

import (
	"time"
)

// 内容类型常量
const (
	VariantImage = "image"
	VariantVideo = "video"
	VariantAudio = "audio"
)

// ValidVariant 检查内容类型是否合法
func ValidVariant(v string) bool {
	return v == VariantImage || v == VariantVideo || v == VariantAudio
}

type ContentItem struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Cid     string `gorm:"uniqueIndex;size:8;not null" json:"cid"`
	Variant string `gorm:"size:8;not null;index" json:"variant"` // image / video / audio
	Title   string `json:"title"`

	// 互动计数，由上传/互动等外部模块写入
	Clicks       int `gorm:"default:0" json:"clicks"`
	LikeCount    int `gorm:"default:0" json:"like_count"`
	CommentCount int `gorm:"default:0" json:"comment_count"` // 仅图片使用
	ViewCount    int `gorm:"default:0" json:"view_count"`    // 仅视频使用
	PlayCount    int `gorm:"default:0" json:"play_count"`    // 仅音频使用

	// 完整度分（0-100），创建时由外部模块算好，这里只读
	Completeness int `gorm:"default:0" json:"completeness"`

	// 新鲜度加成：创建时按当前榜首分数定一个初始值，10 小时内线性衰减到 0
	InitialBoost float64 `gorm:"default:0" json:"initial_boost"`

	// 神力券：使用后衰减时钟从 BoostUsedAt 重新开始计时，过期后回落到 CreatedAt
	BoostUsedAt    *time.Time `json:"boost_used_at,omitempty"`
	BoostExpiresAt *time.Time `json:"boost_expires_at,omitempty"`

	// 落库的权威分数，列表页只读这个字段，不做实时计算
	CachedScore    float64   `gorm:"default:0;index" json:"cached_score"`
	ScoreUpdatedAt time.Time `json:"score_updated_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PowerBoostActive 判断神力券在 now 时刻是否生效
func (c *ContentItem) PowerBoostActive(now time.Time) bool {
	return c.BoostUsedAt != nil && c.BoostExpiresAt != nil && now.Before(*c.BoostExpiresAt)
}

// PowerBoostExpired 判断神力券是否已经过期（用过但不再生效）
func (c *ContentItem) PowerBoostExpired(now time.Time) bool {
	return c.BoostUsedAt != nil && c.BoostExpiresAt != nil && !now.Before(*c.BoostExpiresAt)
}
