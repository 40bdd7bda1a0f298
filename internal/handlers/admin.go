package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"poprank/internal/db"
	"poprank/internal/models"
	"poprank/internal/scoring"
	"poprank/internal/services"
)

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// ExplainScore 诊断单条内容的分数构成："这条为什么排在这里"。
// 可用 ?at=RFC3339 指定时刻，默认当前时间。只算不写。
func (h *AdminHandler) ExplainScore(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var item models.ContentItem
	if err := db.DB.First(&item, id).Error; err != nil {
		JSONError(c, http.StatusNotFound, "content not found")
		return
	}

	now := time.Now()
	if at := c.Query("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			JSONError(c, http.StatusBadRequest, "invalid at parameter, want RFC3339")
			return
		}
		now = parsed
	}

	c.JSON(http.StatusOK, scoring.ExplainScore(&item, now))
}

// Reconcile 手动触发一次对账，返回扫描/修正统计。
// 定时任务之外给运维留的入口，排行异常时不用等下一个整点。
func (h *AdminHandler) Reconcile(c *gin.Context) {
	variant := c.Query("variant")
	if variant != "" && !models.ValidVariant(variant) {
		JSONError(c, http.StatusBadRequest, "unknown content variant: "+variant)
		return
	}

	report, err := services.GetScoreSyncService().Reconcile(variant)
	if err != nil {
		log.Printf("手动对账失败: %v", err)
		JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, report)
}

// Drift 漂移巡检：取落库分数最高的一批内容，逐条实时算分对比。
// 只用来观察，不改写任何数据，也不作为任何线上排序依据。
func (h *AdminHandler) Drift(c *gin.Context) {
	limit := 100
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	var items []models.ContentItem
	if err := db.DB.Order("cached_score DESC, created_at DESC, id DESC").
		Limit(limit).Find(&items).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "drift scan failed")
		return
	}

	// 库里怎么排不重要，按快照的确定性顺序输出
	scoring.SortRanked(items)

	now := time.Now()
	explains := make([]scoring.Explain, 0, len(items))
	drifted := 0
	for i := range items {
		ex := scoring.ExplainScore(&items[i], now)
		if ex.Delta > scoring.Epsilon || ex.Delta < -scoring.Epsilon {
			drifted++
		}
		explains = append(explains, ex)
	}

	c.JSON(http.StatusOK, gin.H{
		"checked": len(explains),
		"drifted": drifted,
		"items":   explains,
	})
}

// Corrections 最近的对账修正明细
func (h *AdminHandler) Corrections(c *gin.Context) {
	limit := 50
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	var corrections []models.ScoreCorrection
	if err := db.DB.Order("id DESC").Limit(limit).Find(&corrections).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "corrections query failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"corrections": corrections})
}
