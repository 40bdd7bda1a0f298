package router

import (
	"poprank/internal/handlers"
	"poprank/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	feedHandler := handlers.NewFeedHandler()
	contentHandler := handlers.NewContentHandler()
	adminHandler := handlers.NewAdminHandler()

	// 排行榜（展示层只需要这一个接口）
	r.GET("/feed", feedHandler.List)

	// 内容与互动（上传/互动/商城等外部模块调用）
	content := r.Group("/content")
	{
		content.POST("", contentHandler.Create)            // 登记新内容
		content.GET("/:id", contentHandler.Get)            // 查询单条内容
		content.POST("/:id/engage", contentHandler.Engage) // 互动计数变更，急切重算
		content.POST("/:id/click", contentHandler.Click)   // 点击计数，异步重算
		content.POST("/:id/boost", contentHandler.Boost)   // 使用神力券
	}

	// 管理接口（诊断 + 对账）
	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/content/:id/score", adminHandler.ExplainScore) // 分数拆解
		admin.GET("/drift", adminHandler.Drift)                    // 漂移巡检
		admin.GET("/corrections", adminHandler.Corrections)        // 修正明细
		admin.POST("/reconcile", adminHandler.Reconcile)           // 手动对账
	}
}
