// Package handler 提供 HTTP 请求处理器
// 本文件处理登录、登出和身份查询
package handler

import (
	"safespace_chat_server/internal/config"
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/infrastructure/middleware"
	"safespace_chat_server/internal/service"
	"safespace_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证请求处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户邀请码登录
// POST /auth/login
// 请求体: request.LoginRequest
// 登录成功后签发 JWT 并写入 Cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.Login(&req)
	if err != nil {
		HandleError(c, err)
		return
	}

	token, err := jwt.GenerateToken(data.UserId, data.DisplayName, false)
	if err != nil {
		HandleError(c, err)
		return
	}
	setSessionCookie(c, middleware.UserCookieName, token)
	HandleSuccess(c, data)
}

// CompanionLogin 陪伴者账号密码登录
// POST /auth/companion/login
// 请求体: request.CompanionLoginRequest
func (h *AuthHandler) CompanionLogin(c *gin.Context) {
	var req request.CompanionLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.CompanionLogin(&req)
	if err != nil {
		HandleError(c, err)
		return
	}

	token, err := jwt.GenerateToken(data.UserId, data.DisplayName, true)
	if err != nil {
		HandleError(c, err)
		return
	}
	setSessionCookie(c, middleware.CompanionCookieName, token)
	HandleSuccess(c, data)
}

// Me 查询当前登录身份
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actorId := c.GetString(middleware.CtxActorId)
	data, err := h.authSvc.Me(actorId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListCompanions 陪伴者名录
// GET /companions
// 创建私聊房间前客户端用它展示可选的陪伴者
func (h *AuthHandler) ListCompanions(c *gin.Context) {
	data, err := h.authSvc.ListCompanions()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Logout 登出：清除两种身份的 Cookie
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.UserCookieName, "", -1, "/", "", false, true)
	c.SetCookie(middleware.CompanionCookieName, "", -1, "/", "", false, true)
	HandleSuccess(c, nil)
}

// setSessionCookie 写入会话 Cookie
// HttpOnly 防止脚本读取；有效期与 JWT 一致
func setSessionCookie(c *gin.Context, name, token string) {
	maxAge := config.GetConfig().JWTConfig.TokenExpiry * 3600
	c.SetCookie(name, token, maxAge, "/", "", false, true)
}
