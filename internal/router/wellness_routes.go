// Package router 提供 HTTP 路由注册
// 本文件定义日记与心情打卡的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWellnessRoutes 注册日记和心情打卡路由（需要认证）
func (rt *Router) RegisterWellnessRoutes(rg *gin.RouterGroup) {
	journalGroup := rg.Group("/journal")
	{
		journalGroup.POST("", rt.handlers.Journal.CreateEntry)   // 创建日记条目
		journalGroup.GET("", rt.handlers.Journal.GetEntryList)   // 查询自己的条目
		journalGroup.DELETE("", rt.handlers.Journal.DeleteEntry) // 删除自己的条目
	}

	moodGroup := rg.Group("/mood")
	{
		moodGroup.POST("", rt.handlers.Mood.CreateEntry)     // 打卡
		moodGroup.GET("", rt.handlers.Mood.GetRecentEntries) // 最近记录
	}
}
