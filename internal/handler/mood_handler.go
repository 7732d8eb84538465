// Package handler 提供 HTTP 请求处理器
// 本文件处理心情打卡相关请求
package handler

import (
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/infrastructure/middleware"
	"safespace_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MoodHandler 心情打卡请求处理器
type MoodHandler struct {
	moodSvc service.MoodService
}

// NewMoodHandler 创建心情打卡处理器实例
func NewMoodHandler(moodSvc service.MoodService) *MoodHandler {
	return &MoodHandler{moodSvc: moodSvc}
}

// CreateEntry 心情打卡
// POST /mood
func (h *MoodHandler) CreateEntry(c *gin.Context) {
	var req request.CreateMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.moodSvc.CreateEntry(c.GetString(middleware.CtxActorId), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetRecentEntries 查询最近的打卡记录
// GET /mood
func (h *MoodHandler) GetRecentEntries(c *gin.Context) {
	data, err := h.moodSvc.GetRecentEntries(c.GetString(middleware.CtxActorId))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
