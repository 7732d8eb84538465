// Package handler 提供 HTTP 请求处理器
// 本文件处理会话相关的 API 请求
package handler

import (
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/infrastructure/middleware"
	"safespace_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler 会话请求处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建会话处理器实例
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// CreateSession 创建会话
// POST /sessions
// 请求体: request.CreateSessionRequest
// 响应: respond.CreateSessionRespond
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req request.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.sessionSvc.CreateSession(c.GetString(middleware.CtxActorId), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetSessionList 获取会话列表
// GET /sessions
// 按登录身份分流：普通用户看自己创建的会话，陪伴者看分配给自己的会话
// （陪伴者侧的用户身份已匿名化）
func (h *SessionHandler) GetSessionList(c *gin.Context) {
	actorId := c.GetString(middleware.CtxActorId)

	var data any
	var err error
	if c.GetBool(middleware.CtxIsCompanion) {
		data, err = h.sessionSvc.GetCompanionSessionList(actorId)
	} else {
		data, err = h.sessionSvc.GetUserSessionList(actorId)
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteSession 删除会话（创建者专用，级联删除消息）
// DELETE /sessions?sessionId=xxx
// 查询参数: request.DeleteSessionRequest
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	var req request.DeleteSessionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.sessionSvc.DeleteSession(c.GetString(middleware.CtxActorId), req.SessionId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
