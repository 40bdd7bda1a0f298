package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"poprank/internal/db"
	"poprank/internal/models"
	"poprank/internal/scoring"
)

// 对账修正原因
const (
	ReasonCounterMissed = "counter-mutation-missed" // 计数变了但急切写入没跟上
	ReasonBoostDecayed  = "boost-decayed"           // 缓存里残留着已经衰减掉的加成
	ReasonPowerExpired  = "power-expired"           // 神力券刚过期，分数回落
)

// ReconcileReport 单次对账的统计结果
type ReconcileReport struct {
	Scanned   int            `json:"scanned"`
	Corrected int            `json:"corrected"`
	Skipped   int            `json:"skipped"`
	ByReason  map[string]int `json:"by_reason"`
}

// 每批处理的内容条数，按 ID 游标分页，长任务可以随时中断重来
const reconcileChunkSize = 200

// evaluateDrift 判断一条内容的落库分数是否漂移，以及漂移原因。
// 纯函数：不碰数据库，对账和测试共用。
// 差值在容差内不改写，保证对账连跑两次第二次零改动。
func evaluateDrift(item *models.ContentItem, now time.Time) (live float64, reason string, needs bool) {
	live = scoring.Score(item, now)
	delta := live - item.CachedScore
	if math.Abs(delta) <= scoring.Epsilon {
		return live, "", false
	}

	switch {
	case item.PowerBoostExpired(now):
		reason = ReasonPowerExpired
	case live < item.CachedScore && item.CachedScore > scoring.BaseScore(item):
		reason = ReasonBoostDecayed
	default:
		reason = ReasonCounterMissed
	}
	return live, reason, true
}

// Reconcile 批量对账：逐条实时算分，漂移超过容差就改写 cached_score。
// variant 非空时只处理对应类型。单条失败记日志后跳过，不中断整批；
// 内容库整体不可用才算致命，直接报错退出。
func (s *ScoreSyncService) Reconcile(variant string) (*ReconcileReport, error) {
	report := &ReconcileReport{ByReason: make(map[string]int)}

	// 先探一下库，连内容表都读不到就没必要往下走了
	var total int64
	if err := db.DB.Model(&models.ContentItem{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("content store unavailable: %w", err)
	}

	lastID := uint(0)
	for {
		var items []models.ContentItem
		q := db.DB.Where("id > ?", lastID).Order("id ASC").Limit(reconcileChunkSize)
		if variant != "" {
			q = q.Where("variant = ?", variant)
		}
		if err := q.Find(&items).Error; err != nil {
			return report, fmt.Errorf("reconcile batch read failed after id %d: %w", lastID, err)
		}
		if len(items) == 0 {
			break
		}

		for i := range items {
			item := &items[i]
			lastID = item.ID
			report.Scanned++

			now := time.Now()
			live, reason, needs := evaluateDrift(item, now)
			if !needs {
				continue
			}

			// 水位守卫：计算期间如果有急切写入抢先落了更新的分，放弃本次改写
			res := db.DB.Model(&models.ContentItem{}).
				Where("id = ? AND score_updated_at <= ?", item.ID, now).
				UpdateColumns(map[string]interface{}{
					"cached_score":     live,
					"score_updated_at": now,
				})
			if res.Error != nil {
				log.Printf("对账改写内容 %d 失败: %v", item.ID, res.Error)
				report.Skipped++
				continue
			}
			if res.RowsAffected == 0 {
				report.Skipped++
				continue
			}

			report.Corrected++
			report.ByReason[reason]++
			log.Printf("对账修正内容 %d: %.2f -> %.2f (%s)", item.ID, item.CachedScore, live, reason)

			// 修正明细落库，失败只记日志
			correction := models.ScoreCorrection{
				ItemID:   item.ID,
				Variant:  item.Variant,
				OldScore: item.CachedScore,
				NewScore: live,
				Delta:    live - item.CachedScore,
				Reason:   reason,
			}
			if err := db.DB.Create(&correction).Error; err != nil {
				log.Printf("记录修正明细失败（内容 %d）: %v", item.ID, err)
			}
		}
	}

	return report, nil
}
