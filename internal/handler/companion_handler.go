// Package handler 提供 HTTP 请求处理器
// 本文件处理陪伴者专用的生命周期操作
package handler

import (
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/infrastructure/middleware"
	"safespace_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// CompanionHandler 陪伴者专用操作处理器
// 路由挂载 RequireCompanion 中间件，到这里的请求已确认陪伴者身份
type CompanionHandler struct {
	sessionSvc service.SessionService
}

// NewCompanionHandler 创建陪伴者操作处理器实例
func NewCompanionHandler(sessionSvc service.SessionService) *CompanionHandler {
	return &CompanionHandler{sessionSvc: sessionSvc}
}

// CloseSession 关闭群组房间
// POST /companion/close
// 请求体: request.CloseSessionRequest
// 重复关闭幂等成功；私聊房间返回 403 策略错误
func (h *CompanionHandler) CloseSession(c *gin.Context) {
	var req request.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.sessionSvc.CloseSession(c.GetString(middleware.CtxActorId), req.SessionId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// MarkRead 标记会话已读
// POST /companion/read
// 请求体: request.MarkReadRequest
// 存储不支持已读跟踪时也返回成功
func (h *CompanionHandler) MarkRead(c *gin.Context) {
	var req request.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.sessionSvc.MarkRead(c.GetString(middleware.CtxActorId), req.SessionId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
