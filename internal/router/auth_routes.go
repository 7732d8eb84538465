// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"safespace_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由
// 登录接口公开；身份查询需要已登录
func (rt *Router) RegisterAuthRoutes(engine *gin.Engine) {
	authGroup := engine.Group("/auth")
	{
		authGroup.POST("/login", rt.handlers.Auth.Login)                    // 用户邀请码登录
		authGroup.POST("/companion/login", rt.handlers.Auth.CompanionLogin) // 陪伴者账号密码登录
		authGroup.POST("/logout", rt.handlers.Auth.Logout)                  // 登出（清 Cookie）
		authGroup.GET("/me", middleware.JWTAuth(), rt.handlers.Auth.Me)     // 查询当前身份
	}
}
