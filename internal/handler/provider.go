// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
package handler

import (
	"safespace_chat_server/internal/service"
)

// Handlers 聚合所有 Handler 实例
// Router 层通过此结构注册路由
type Handlers struct {
	Auth      *AuthHandler
	Session   *SessionHandler
	Message   *MessageHandler
	Companion *CompanionHandler
	Journal   *JournalHandler
	Mood      *MoodHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(svc.Auth),
		Session:   NewSessionHandler(svc.Session),
		Message:   NewMessageHandler(svc.Message),
		Companion: NewCompanionHandler(svc.Session),
		Journal:   NewJournalHandler(svc.Journal),
		Mood:      NewMoodHandler(svc.Mood),
	}
}
