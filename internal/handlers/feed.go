package handlers

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"poprank/internal/db"
	"poprank/internal/models"
	"poprank/internal/utils"
)

type FeedHandler struct{}

func NewFeedHandler() *FeedHandler {
	return &FeedHandler{}
}

// List 排行榜列表页：只读落库分数排序，绝不实时算分。
// cached_score 降序，同分时新内容在前，再按 ID 兜底，保证同一快照排序稳定。
func (h *FeedHandler) List(c *gin.Context) {
	// 分页参数
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}

	variant := c.Query("variant")
	if variant != "" && !models.ValidVariant(variant) {
		JSONError(c, http.StatusBadRequest, "unknown content variant: "+variant)
		return
	}

	cacheKey := fmt.Sprintf("feed:%s:page:%d", variant, page)
	if cachedData := utils.GetCache().Get(cacheKey); cachedData != nil {
		if resp, ok := cachedData.(gin.H); ok {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	perPage := 30
	offset := (page - 1) * perPage

	// 查询总数
	countQ := db.DB.Model(&models.ContentItem{})
	if variant != "" {
		countQ = countQ.Where("variant = ?", variant)
	}
	var total int64
	countQ.Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	listQ := db.DB.Model(&models.ContentItem{})
	if variant != "" {
		listQ = listQ.Where("variant = ?", variant)
	}

	var items []models.ContentItem
	err := listQ.
		Order("cached_score DESC, created_at DESC, id DESC").
		Limit(perPage).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		// 分数字段读不了也不能把整个列表页搞挂，退回按时间排序
		log.Printf("按分数查询列表失败，退回时间排序: %v", err)
		fallback := db.DB.Model(&models.ContentItem{})
		if variant != "" {
			fallback = fallback.Where("variant = ?", variant)
		}
		if err := fallback.Order("created_at DESC, id DESC").
			Limit(perPage).Offset(offset).Find(&items).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "feed unavailable")
			return
		}
	}

	resp := gin.H{
		"items":       items,
		"page":        page,
		"per_page":    perPage,
		"total":       total,
		"total_pages": totalPages,
	}

	utils.GetCache().Set(cacheKey, resp, 30*time.Second)
	c.JSON(http.StatusOK, resp)
}
