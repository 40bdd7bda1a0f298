package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"poprank/internal/db"
	"poprank/internal/models"
	"poprank/internal/services"
)

type ContentHandler struct{}

func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

type createContentRequest struct {
	Variant      string `json:"variant" binding:"required"`
	Title        string `json:"title"`
	Completeness int    `json:"completeness"`
}

// Create 登记新内容（由上传模块调用，完整度分已经算好）
func (h *ContentHandler) Create(c *gin.Context) {
	var req createContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := services.CreateContent(req.Variant, req.Title, req.Completeness)
	if err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Get 查询单条内容
func (h *ContentHandler) Get(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var item models.ContentItem
	if err := db.DB.First(&item, id).Error; err != nil {
		JSONError(c, http.StatusNotFound, "content not found")
		return
	}

	c.JSON(http.StatusOK, item)
}

// Engage 应用互动计数变更（点赞/取消赞/评论等），急切重算分数。
// 返回时 cached_score 已经是变更后的值，不用等对账。
func (h *ContentHandler) Engage(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var delta services.EngagementDelta
	if err := c.ShouldBindJSON(&delta); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := services.ApplyEngagement(uint(id), delta)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			JSONError(c, http.StatusNotFound, "content not found")
			return
		}
		log.Printf("处理内容 %d 互动失败: %v", id, err)
		JSONError(c, http.StatusInternalServerError, "engagement update failed")
		return
	}

	c.JSON(http.StatusOK, item)
}

// Click 记一次点击。量大且对排序实时性要求不高，
// 计数原子加一后把重算扔进异步队列，不阻塞请求。
func (h *ContentHandler) Click(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	res := db.DB.Model(&models.ContentItem{}).Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	if res.Error != nil {
		JSONError(c, http.StatusInternalServerError, "click update failed")
		return
	}
	if res.RowsAffected == 0 {
		JSONError(c, http.StatusNotFound, "content not found")
		return
	}

	services.GetScoreSyncService().ScheduleUpdate(uint(id))
	c.Status(http.StatusNoContent)
}

type redeemBoostRequest struct {
	CouponDays int     `json:"coupon_days"`
	TopScore   float64 `json:"top_score"` // 商城模块用下单时刻的榜首分，可不传由引擎现查
}

// Boost 使用神力券（由商城模块在核销后调用）
func (h *ContentHandler) Boost(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req redeemBoostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := services.RedeemPowerBoost(uint(id), req.CouponDays, req.TopScore)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			JSONError(c, http.StatusNotFound, "content not found")
			return
		}
		log.Printf("内容 %d 用券失败: %v", id, err)
		JSONError(c, http.StatusInternalServerError, "boost redemption failed")
		return
	}

	c.JSON(http.StatusOK, item)
}
