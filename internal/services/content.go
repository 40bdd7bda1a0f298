package services

import (
	"errors"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"poprank/internal/db"
	"poprank/internal/models"
	"poprank/internal/scoring"
	"poprank/internal/utils"
)

// 神力券默认有效期（可触发窗口，和 10 小时衰减窗口是两回事）
const DefaultCouponDays = 7

// EngagementDelta 一次互动事件带来的计数增减
type EngagementDelta struct {
	Clicks   int `json:"clicks"`
	Likes    int `json:"likes"` // 取消点赞时为负
	Comments int `json:"comments"`
	Views    int `json:"views"`
	Plays    int `json:"plays"`
}

func (d EngagementDelta) Empty() bool {
	return d.Clicks == 0 && d.Likes == 0 && d.Comments == 0 && d.Views == 0 && d.Plays == 0
}

const cidChars = "abcdefghijklmnopqrstuvwxyz0123456789"

func newCid() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = cidChars[rand.Intn(len(cidChars))]
	}
	return string(b)
}

// TopCachedScore 当前全站最高落库分数，用于给新加成定大小
func TopCachedScore() float64 {
	var top float64
	db.DB.Model(&models.ContentItem{}).
		Select("COALESCE(MAX(cached_score), 0)").
		Scan(&top)
	return top
}

// CreateContent 登记一条新内容：初始加成按当前榜首分数定，
// 衰减时钟从创建时间开始走，cached_score 立即可用于排序。
func CreateContent(variant, title string, completeness int) (*models.ContentItem, error) {
	if !models.ValidVariant(variant) {
		return nil, errors.New("unknown content variant: " + variant)
	}

	boost := scoring.BoostFromTopScore(TopCachedScore())
	now := time.Now()

	item := models.ContentItem{
		Cid:            newCid(),
		Variant:        variant,
		Title:          title,
		Completeness:   completeness,
		InitialBoost:   boost,
		ScoreUpdatedAt: now,
	}
	// 刚创建，加成分毫未衰减
	item.CachedScore = scoring.BaseScore(&item) + boost

	if err := db.DB.Create(&item).Error; err != nil {
		return nil, err
	}

	utils.GetCache().PurgePrefix("feed:")
	return &item, nil
}

// ApplyEngagement 应用互动计数变更并急切重算分数。
// "改计数 -> 重算 -> 落分"在一个事务里完成：计数用数据库端原子增减，
// 回读拿到的是包含并发变更在内的最新值，不会出现丢更新。
func ApplyEngagement(itemID uint, d EngagementDelta) (*models.ContentItem, error) {
	if d.Empty() {
		return nil, errors.New("empty engagement delta")
	}

	var item models.ContentItem
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if d.Clicks != 0 {
			updates["clicks"] = gorm.Expr("GREATEST(clicks + ?, 0)", d.Clicks)
		}
		if d.Likes != 0 {
			// 点赞数可以因取消点赞下降，但不为负
			updates["like_count"] = gorm.Expr("GREATEST(like_count + ?, 0)", d.Likes)
		}
		if d.Comments != 0 {
			updates["comment_count"] = gorm.Expr("GREATEST(comment_count + ?, 0)", d.Comments)
		}
		if d.Views != 0 {
			updates["view_count"] = gorm.Expr("GREATEST(view_count + ?, 0)", d.Views)
		}
		if d.Plays != 0 {
			updates["play_count"] = gorm.Expr("GREATEST(play_count + ?, 0)", d.Plays)
		}

		res := tx.Model(&models.ContentItem{}).Where("id = ?", itemID).UpdateColumns(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		// 回读变更后的计数再算分，UPDATE 已经拿了行锁，并发互动会排队到这里之后
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}

		now := time.Now()
		item.CachedScore = scoring.Score(&item, now)
		item.ScoreUpdatedAt = now
		return tx.Model(&models.ContentItem{}).Where("id = ?", itemID).
			UpdateColumns(map[string]interface{}{
				"cached_score":     item.CachedScore,
				"score_updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	utils.GetCache().PurgePrefix("feed:")
	return &item, nil
}

// RedeemPowerBoost 使用神力券：衰减时钟从现在重新起算（覆盖而非叠加），
// 加成大小按 topScore 重新定，cached_score 在同一事务里立即改写。
// 已有生效中的券会被新券直接覆盖，不叠加。
func RedeemPowerBoost(itemID uint, couponDays int, topScore float64) (*models.ContentItem, error) {
	if couponDays <= 0 {
		couponDays = DefaultCouponDays
	}
	if topScore <= 0 {
		// 调用方没带榜首分就现查一次
		topScore = TopCachedScore()
	}

	boost := scoring.BoostFromTopScore(topScore)
	now := time.Now()
	expiry := now.Add(time.Duration(couponDays) * 24 * time.Hour)

	var item models.ContentItem
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}

		item.InitialBoost = boost
		item.BoostUsedAt = &now
		item.BoostExpiresAt = &expiry
		item.CachedScore = scoring.Score(&item, now)
		item.ScoreUpdatedAt = now

		return tx.Model(&models.ContentItem{}).Where("id = ?", itemID).
			UpdateColumns(map[string]interface{}{
				"initial_boost":    boost,
				"boost_used_at":    now,
				"boost_expires_at": expiry,
				"cached_score":     item.CachedScore,
				"score_updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	utils.GetCache().PurgePrefix("feed:")
	return &item, nil
}
