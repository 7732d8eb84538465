// Package service 定义业务逻辑层的服务接口
// Handler 层只依赖这些接口，便于测试时注入桩实现
package service

import (
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/dto/respond"
	"safespace_chat_server/internal/model"
)

// AnonService 匿名编号服务
// 负责用户匿名编号的幂等分配与展示标签格式化
type AnonService interface {
	// EnsureAnonNumber 确保用户持有一个匿名编号并返回它
	// 已分配则直接返回；未分配则抽取候选编号并持久化，
	// 有限次尝试后仍失败则返回错误，绝不无限阻塞
	EnsureAnonNumber(userId string) (int, error)

	// FormatAnonLabel 把匿名编号格式化为展示标签
	// 有效编号 -> "Pengguna 042"（三位补零）；无效/缺失 -> "Pengguna ---"
	FormatAnonLabel(n int) string
}

// SessionService 会话生命周期服务
type SessionService interface {
	// CreateSession 创建会话；指定陪伴者则为私聊房间，否则为群组房间
	CreateSession(userId string, req *request.CreateSessionRequest) (*respond.CreateSessionRespond, error)

	// GetUserSessionList 用户侧会话列表（含最后消息预览和未读数）
	GetUserSessionList(userId string) ([]respond.UserSessionListRespond, error)

	// GetCompanionSessionList 陪伴者侧会话列表
	// 用户身份匿名化：只下发匿名标签，不下发昵称
	GetCompanionSessionList(companionId string) ([]respond.CompanionSessionListRespond, error)

	// CloseSession 陪伴者关闭群组房间
	// 仅被分配的陪伴者可关闭；私聊房间拒绝；重复关闭幂等成功
	CloseSession(companionId, sessionId string) error

	// DeleteSession 创建者删除自己的会话（级联删除全部消息）
	DeleteSession(userId, sessionId string) error

	// MarkRead 陪伴者把会话标记为已读
	// 旧库缺少已读列时静默成功
	MarkRead(companionId, sessionId string) error
}

// MessageService 消息投递服务
type MessageService interface {
	// GetMessageList 拉取消息；after 为空全量，非空只返回严格晚于 after 的消息
	GetMessageList(req *request.GetMessageListRequest) (*respond.GetMessageListRespond, error)

	// SendMessage 以 actor 身份向会话追加一条消息
	// 会话已关闭时拒绝写入
	SendMessage(actorId string, req *request.SendMessageRequest) (*respond.SendMessageRespond, error)

	// AppendSystemMessage 追加一条系统消息（无发送者，展示名 "Sistem"）
	AppendSystemMessage(sessionId, text string) error

	// ComputeUnreadCount 计算指定一侧的未读消息数
	// 回退链：已读水位 -> 本方最后一条消息 -> 对方全部消息
	ComputeUnreadCount(session *model.ChatSession, forCompanion bool) (int64, error)

	// LastMessagePreview 会话最后一条消息的预览文本和时间戳
	// 会话尚无消息时返回空串
	LastMessagePreview(sessionId string) (text string, at string, err error)
}

// AuthService 登录与身份服务
type AuthService interface {
	// Login 用户邀请码登录：昵称+邀请码幂等注册并分配匿名编号
	Login(req *request.LoginRequest) (*respond.LoginRespond, error)

	// CompanionLogin 陪伴者账号密码登录
	CompanionLogin(req *request.CompanionLoginRequest) (*respond.LoginRespond, error)

	// Me 查询当前登录身份
	Me(userId string) (*respond.LoginRespond, error)

	// ListCompanions 陪伴者名录，创建私聊房间时选择 companionId 用
	ListCompanions() ([]respond.CompanionRespond, error)
}

// JournalService 日记服务
type JournalService interface {
	CreateEntry(userId string, req *request.CreateJournalRequest) (*respond.JournalRespond, error)
	GetEntryList(userId string) ([]respond.JournalRespond, error)
	DeleteEntry(userId, entryId string) error
}

// MoodService 心情打卡服务
type MoodService interface {
	CreateEntry(userId string, req *request.CreateMoodRequest) (*respond.MoodRespond, error)
	GetRecentEntries(userId string) ([]respond.MoodRespond, error)
}
