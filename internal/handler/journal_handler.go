// Package handler 提供 HTTP 请求处理器
// 本文件处理私人日记相关请求
package handler

import (
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/infrastructure/middleware"
	"safespace_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// JournalHandler 日记请求处理器
type JournalHandler struct {
	journalSvc service.JournalService
}

// NewJournalHandler 创建日记处理器实例
func NewJournalHandler(journalSvc service.JournalService) *JournalHandler {
	return &JournalHandler{journalSvc: journalSvc}
}

// CreateEntry 创建日记条目
// POST /journal
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	var req request.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.journalSvc.CreateEntry(c.GetString(middleware.CtxActorId), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetEntryList 查询自己的日记条目
// GET /journal
func (h *JournalHandler) GetEntryList(c *gin.Context) {
	data, err := h.journalSvc.GetEntryList(c.GetString(middleware.CtxActorId))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteEntry 删除自己的日记条目
// DELETE /journal?entryId=xxx
func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	var req request.DeleteJournalRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.journalSvc.DeleteEntry(c.GetString(middleware.CtxActorId), req.EntryId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
