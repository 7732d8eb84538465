// Package message 实现消息投递服务
// 消息仅追加、不可变；客户端通过时间游标增量拉取
package message

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"safespace_chat_server/internal/dao/mysql/repository"
	"safespace_chat_server/internal/dao/redis"
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/dto/respond"
	"safespace_chat_server/internal/model"
	"safespace_chat_server/pkg/constants"
	"safespace_chat_server/pkg/enum/chat_session/session_status_enum"
	"safespace_chat_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SystemSenderName 系统消息的展示名
const SystemSenderName = "Sistem"

// Service MessageService 接口的实现
type Service struct {
	repos *repository.Repositories
	cache redis.AsyncCacheService
}

// NewService 创建消息服务实例
func NewService(repos *repository.Repositories, cache redis.AsyncCacheService) *Service {
	return &Service{repos: repos, cache: cache}
}

// GetMessageList 拉取会话消息
// after 为空做全量拉取；非空则只返回 created_at 严格晚于 after 的消息。
// 响应携带 serverTime 水位：空会话的客户端用它作为游标种子，
// 避免拿不到游标时反复全量拉取
func (s *Service) GetMessageList(req *request.GetMessageListRequest) (*respond.GetMessageListRespond, error) {
	session, err := s.repos.Session.FindByUuid(req.SessionId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "Sesi tidak ditemukan")
		}
		return nil, err
	}

	var messages []model.Message
	if req.After == "" {
		messages, err = s.repos.Message.FindBySessionId(req.SessionId)
	} else {
		var after time.Time
		after, err = time.Parse(constants.TIME_CURSOR_LAYOUT, req.After)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "Parameter after tidak valid")
		}
		messages, err = s.repos.Message.FindBySessionIdAfter(req.SessionId, after)
	}
	if err != nil {
		return nil, err
	}

	rsp := &respond.GetMessageListRespond{
		Messages:   make([]respond.MessageRespond, 0, len(messages)),
		Session:    respond.SessionStatusRespond{Status: normalizeStatus(session.Status)},
		ServerTime: time.Now().Format(constants.TIME_CURSOR_LAYOUT),
	}
	for i := range messages {
		rsp.Messages = append(rsp.Messages, toMessageRespond(&messages[i]))
	}
	return rsp, nil
}

// SendMessage 以 actor 身份向会话追加一条消息
// 已关闭的会话拒绝写入；空白消息拒绝
func (s *Service) SendMessage(actorId string, req *request.SendMessageRequest) (*respond.SendMessageRespond, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "Pesan tidak boleh kosong")
	}

	session, err := s.repos.Session.FindByUuid(req.SessionId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "Sesi tidak ditemukan")
		}
		return nil, err
	}
	if session.Status == session_status_enum.CLOSED {
		return nil, errorx.New(errorx.CodeSessionClosed, "Ruang ini telah ditutup")
	}

	actor, err := s.repos.User.FindByUuid(actorId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrUnauthorized
		}
		return nil, err
	}

	message := &model.Message{
		Uuid:        uuid.NewString(),
		SessionId:   session.Uuid,
		SenderId:    sql.NullString{String: actor.Uuid, Valid: true},
		DisplayName: actor.DisplayName,
		Text:        text,
		IsCompanion: actor.IsCompanion,
	}
	if err := s.repos.Message.Create(message); err != nil {
		return nil, err
	}

	s.invalidateSessionListCache(session)
	return &respond.SendMessageRespond{Message: toMessageRespond(message)}, nil
}

// AppendSystemMessage 追加一条系统消息
// 没有发送者（sender_id 为 NULL），展示名固定为 "Sistem"
func (s *Service) AppendSystemMessage(sessionId, text string) error {
	message := &model.Message{
		Uuid:        uuid.NewString(),
		SessionId:   sessionId,
		DisplayName: SystemSenderName,
		Text:        text,
		IsSystem:    true,
	}
	return s.repos.Message.Create(message)
}

// ComputeUnreadCount 计算指定一侧的未读消息数
// 三级回退链：
//  1. 陪伴者侧且有持久化已读水位 -> 统计水位之后的对方消息
//  2. 本方发过消息 -> 统计本方最后一条消息之后的对方消息
//     （近似值：对方在本方最后发言之前发的未读消息会被漏算，宁可少报不误报）
//  3. 本方从未发言 -> 对方全部消息都算未读
func (s *Service) ComputeUnreadCount(session *model.ChatSession, forCompanion bool) (int64, error) {
	oppositeIsCompanion := !forCompanion

	if forCompanion && session.CompanionLastReadAt.Valid {
		return s.repos.Message.CountByRoleAfter(session.Uuid, oppositeIsCompanion, session.CompanionLastReadAt.Time)
	}

	lastOwn, err := s.repos.Message.FindLastByRole(session.Uuid, forCompanion)
	if err != nil {
		if errorx.IsNotFound(err) {
			return s.repos.Message.CountByRole(session.Uuid, oppositeIsCompanion)
		}
		return 0, err
	}
	return s.repos.Message.CountByRoleAfter(session.Uuid, oppositeIsCompanion, lastOwn.CreatedAt)
}

// LastMessagePreview 会话最后一条消息的预览文本和时间戳
// 会话尚无消息时返回空串（不视为错误）
func (s *Service) LastMessagePreview(sessionId string) (string, string, error) {
	last, err := s.repos.Message.FindLastBySessionId(sessionId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return "", "", nil
		}
		return "", "", err
	}
	return last.Text, last.CreatedAt.Format(constants.TIME_CURSOR_LAYOUT), nil
}

// invalidateSessionListCache 异步失效会话两侧的列表缓存
// 新消息会改变列表里的预览和未读数；失效是尽力而为，失败只记日志
func (s *Service) invalidateSessionListCache(session *model.ChatSession) {
	createdBy := session.CreatedBy
	companionId := ""
	if session.CompanionId.Valid {
		companionId = session.CompanionId.String
	}
	s.cache.SubmitTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.cache.Delete(ctx, "session_list:user:"+createdBy); err != nil {
			zap.L().Warn("删除用户会话列表缓存失败", zap.String("user_id", createdBy), zap.Error(err))
		}
		if companionId != "" {
			if err := s.cache.Delete(ctx, "session_list:companion:"+companionId); err != nil {
				zap.L().Warn("删除陪伴者会话列表缓存失败", zap.String("companion_id", companionId), zap.Error(err))
			}
		}
	})
}

// normalizeStatus 归一化会话状态
// 旧库没有 status 列时读出来是空串，视为 active（旧库的会话永远不会被关闭）
func normalizeStatus(status string) string {
	if status == "" {
		return session_status_enum.ACTIVE
	}
	return status
}

// toMessageRespond 把消息模型转换为响应 DTO
func toMessageRespond(m *model.Message) respond.MessageRespond {
	rsp := respond.MessageRespond{
		MessageId:   m.Uuid,
		SessionId:   m.SessionId,
		DisplayName: m.DisplayName,
		Text:        m.Text,
		IsCompanion: m.IsCompanion,
		IsSystem:    m.IsSystem,
		CreatedAt:   m.CreatedAt.Format(constants.TIME_CURSOR_LAYOUT),
	}
	if m.SenderId.Valid {
		rsp.SenderId = m.SenderId.String
	}
	return rsp
}
