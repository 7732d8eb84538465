// Package router 提供 HTTP 路由注册
// 本文件定义会话与消息的路由（轮询客户端消费的核心接口）
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes 注册会话和消息路由（需要认证）
func (rt *Router) RegisterChatRoutes(rg *gin.RouterGroup) {
	rg.GET("/companions", rt.handlers.Auth.ListCompanions) // 陪伴者名录（创建私聊时选择）

	sessionGroup := rg.Group("/sessions")
	{
		sessionGroup.POST("", rt.handlers.Session.CreateSession)   // 创建会话
		sessionGroup.GET("", rt.handlers.Session.GetSessionList)   // 会话列表（按身份分流）
		sessionGroup.DELETE("", rt.handlers.Session.DeleteSession) // 删除会话（创建者）
	}

	messageGroup := rg.Group("/messages")
	{
		messageGroup.GET("", rt.handlers.Message.GetMessageList) // 增量拉取消息
		messageGroup.POST("", rt.handlers.Message.SendMessage)   // 发送消息
	}
}

// RegisterCompanionRoutes 注册陪伴者专用路由
// 上游已挂载 RequireCompanion 角色检查
func (rt *Router) RegisterCompanionRoutes(rg *gin.RouterGroup) {
	rg.POST("/close", rt.handlers.Companion.CloseSession) // 关闭群组房间
	rg.POST("/read", rt.handlers.Companion.MarkRead)      // 标记已读
}
