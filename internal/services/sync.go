package services

import (
	"log"
	"os"
	"sync"
	"time"

	"poprank/internal/db"
	"poprank/internal/models"
	"poprank/internal/scoring"
	"poprank/internal/utils"
)

// ScoreSyncService 负责把实时计算的分数落到 cached_score 字段。
// 写入只有两条路：互动/用券时的急切重算，和兜底的批量对账。
// 分数本身的计算一律走 scoring 包，这里不允许再抄一份公式。
type ScoreSyncService struct {
	queue   chan uint // 待重算的内容 ID 队列
	pending map[uint]bool
	mu      sync.Mutex
}

var (
	syncService *ScoreSyncService
	once        sync.Once
)

// GetScoreSyncService 获取单例同步服务
func GetScoreSyncService() *ScoreSyncService {
	once.Do(func() {
		syncService = &ScoreSyncService{
			queue:   make(chan uint, 1000), // 缓冲队列，防止阻塞
			pending: make(map[uint]bool),
		}
		// 启动后台 worker
		go syncService.worker()
	})
	return syncService
}

// ScheduleUpdate 将内容加入重算队列（异步）。
// 点击/播放这类量大且能容忍轻微滞后的计数走这条路，
// 用去重机制避免短时间内重复计算同一条内容。
func (s *ScoreSyncService) ScheduleUpdate(itemID uint) {
	s.mu.Lock()
	if s.pending[itemID] {
		// 已在队列中，跳过
		s.mu.Unlock()
		return
	}
	s.pending[itemID] = true
	s.mu.Unlock()

	// 非阻塞发送到队列
	select {
	case s.queue <- itemID:
		// 成功加入队列
	default:
		// 队列满了，移除 pending 标记
		s.mu.Lock()
		delete(s.pending, itemID)
		s.mu.Unlock()
		log.Printf("分数重算队列已满，跳过内容 %d", itemID)
	}
}

// worker 后台处理队列中的重算请求
func (s *ScoreSyncService) worker() {
	// 批量处理：收集一批请求后统一处理
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case itemID := <-s.queue:
			batch = append(batch, itemID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			// 定时处理剩余的
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *ScoreSyncService) processBatch(itemIDs []uint) {
	for _, itemID := range itemIDs {
		if err := s.RefreshScore(itemID); err != nil {
			log.Printf("重算内容 %d 分数失败: %v", itemID, err)
		}

		// 清除 pending 状态
		s.mu.Lock()
		delete(s.pending, itemID)
		s.mu.Unlock()
	}
}

// RefreshScore 重新计算单条内容的分数并落库。
// 写入带 score_updated_at 水位守卫：只有比上一次写入更新的计算结果才允许落下去，
// 避免对账批次用旧快照把并发的急切写入冲回去。
func (s *ScoreSyncService) RefreshScore(itemID uint) error {
	var item models.ContentItem
	if err := db.DB.First(&item, itemID).Error; err != nil {
		return err
	}

	now := time.Now()
	score := scoring.Score(&item, now)

	return db.DB.Model(&models.ContentItem{}).
		Where("id = ? AND score_updated_at <= ?", itemID, now).
		UpdateColumns(map[string]interface{}{
			"cached_score":     score,
			"score_updated_at": now,
		}).Error
}

// StartScheduledReconcile 启动定时对账任务。
// 加成只靠时间流逝也会缩水，没有任何互动的内容分数照样会过期，
// 急切写入覆盖不到这种情况，必须定期全量兜底。
func (s *ScoreSyncService) StartScheduledReconcile() {
	interval := time.Duration(utils.StringToInt(os.Getenv("RECONCILE_INTERVAL_MINUTES"))) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			log.Println("开始定时分数对账...")
			report, err := s.Reconcile("")
			if err != nil {
				log.Printf("定时对账失败: %v", err)
				continue
			}
			log.Printf("定时对账完成: 扫描 %d 条，修正 %d 条", report.Scanned, report.Corrected)
		}
	}()
}
