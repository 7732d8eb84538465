// Package handler 提供 HTTP 请求处理器
// 本文件处理消息拉取和发送
package handler

import (
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/infrastructure/middleware"
	"safespace_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建消息处理器实例
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// GetMessageList 增量拉取消息
// GET /messages?sessionId=xxx&after=2026-09-01T10:00:00.000Z
// 查询参数: request.GetMessageListRequest
// 响应: respond.GetMessageListRespond（含会话状态和 serverTime 水位）
func (h *MessageHandler) GetMessageList(c *gin.Context) {
	var req request.GetMessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.GetMessageList(&req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SendMessage 发送消息
// POST /messages
// 请求体: request.SendMessageRequest
// 响应: respond.SendMessageRespond（带服务端分配的 id 和时间戳）
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.SendMessage(c.GetString(middleware.CtxActorId), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
