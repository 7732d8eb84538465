// Package service 提供服务层的组装入口
// 本文件负责按依赖顺序构造所有服务实例
package service

import (
	"safespace_chat_server/internal/dao/mysql/repository"
	"safespace_chat_server/internal/dao/redis"
	"safespace_chat_server/internal/service/anon"
	"safespace_chat_server/internal/service/auth"
	"safespace_chat_server/internal/service/journal"
	"safespace_chat_server/internal/service/message"
	"safespace_chat_server/internal/service/mood"
	"safespace_chat_server/internal/service/session"
)

// Services 聚合所有服务实例
// Handler 层通过此结构访问业务逻辑
type Services struct {
	Anon    AnonService
	Auth    AuthService
	Session SessionService
	Message MessageService
	Journal JournalService
	Mood    MoodService
}

// NewServices 创建并装配所有服务
// 会话服务依赖消息服务（系统消息、预览、未读数）和匿名服务（标签），
// 这里按依赖顺序构造
func NewServices(repos *repository.Repositories, cache redis.AsyncCacheService) *Services {
	anonSvc := anon.NewService(repos)
	messageSvc := message.NewService(repos, cache)
	sessionSvc := session.NewService(repos, cache, messageSvc, anonSvc)
	authSvc := auth.NewService(repos, anonSvc)
	journalSvc := journal.NewService(repos)
	moodSvc := mood.NewService(repos)

	return &Services{
		Anon:    anonSvc,
		Auth:    authSvc,
		Session: sessionSvc,
		Message: messageSvc,
		Journal: journalSvc,
		Mood:    moodSvc,
	}
}
