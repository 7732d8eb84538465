// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"safespace_chat_server/internal/handler"
	"safespace_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器
// 持有 Handler 聚合对象，按模块注册路由组
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
// 路由分三层：公开（登录）、已认证（会话/消息/日记/心情）、陪伴者专用
func (rt *Router) RegisterRoutes(engine *gin.Engine) {
	rt.RegisterAuthRoutes(engine)

	// 已认证路由
	authed := engine.Group("", middleware.JWTAuth())
	rt.RegisterChatRoutes(authed)
	rt.RegisterWellnessRoutes(authed)

	// 陪伴者专用生命周期操作
	companion := authed.Group("/companion", middleware.RequireCompanion())
	rt.RegisterCompanionRoutes(companion)
}
