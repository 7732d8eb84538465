// Package session 实现会话生命周期服务
// 覆盖会话的创建、列表、关闭、删除和已读标记
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"safespace_chat_server/internal/dao/mysql/repository"
	"safespace_chat_server/internal/dao/redis"
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/dto/respond"
	"safespace_chat_server/internal/model"
	"safespace_chat_server/pkg/constants"
	"safespace_chat_server/pkg/enum/chat_session/room_type_enum"
	"safespace_chat_server/pkg/enum/chat_session/session_status_enum"
	"safespace_chat_server/pkg/errorx"
	"safespace_chat_server/pkg/util/random"

	"go.uber.org/zap"
)

// ClosedByCompanionNotice 关闭房间时写入的系统消息文本
const ClosedByCompanionNotice = "Ruang grup ini telah ditutup oleh pendamping."

// MessageCollaborator 会话服务依赖的消息能力子集
// 在使用方定义窄接口，避免与消息包互相引用
type MessageCollaborator interface {
	AppendSystemMessage(sessionId, text string) error
	ComputeUnreadCount(session *model.ChatSession, forCompanion bool) (int64, error)
	LastMessagePreview(sessionId string) (text string, at string, err error)
}

// AnonCollaborator 会话服务依赖的匿名编号能力子集
type AnonCollaborator interface {
	EnsureAnonNumber(userId string) (int, error)
	FormatAnonLabel(n int) string
}

// Service SessionService 接口的实现
type Service struct {
	repos    *repository.Repositories
	cache    redis.AsyncCacheService
	messages MessageCollaborator
	anon     AnonCollaborator
	caps     *schemaCaps
}

// NewService 创建会话服务实例
func NewService(repos *repository.Repositories, cache redis.AsyncCacheService,
	messages MessageCollaborator, anon AnonCollaborator) *Service {
	return &Service{
		repos:    repos,
		cache:    cache,
		messages: messages,
		anon:     anon,
		caps:     newSchemaCaps(),
	}
}

// CreateSession 创建会话
// 指定陪伴者 -> 私聊房间；未指定 -> 群组房间。
// 旧库缺少生命周期列时降级为只写必备列
func (s *Service) CreateSession(userId string, req *request.CreateSessionRequest) (*respond.CreateSessionRespond, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "Topik tidak boleh kosong")
	}

	session := &model.ChatSession{
		Uuid:      "S" + random.GetNowAndLenRandomString(11),
		Topic:     topic,
		CreatedBy: userId,
		RoomType:  room_type_enum.GROUP,
		Status:    session_status_enum.ACTIVE,
	}
	if req.CompanionId != "" {
		companion, err := s.repos.User.FindByUuid(req.CompanionId)
		if err != nil || !companion.IsCompanion {
			return nil, errorx.New(errorx.CodeInvalidParam, "Pendamping tidak ditemukan")
		}
		session.CompanionId = sql.NullString{String: companion.Uuid, Valid: true}
		session.RoomType = room_type_enum.PRIVATE
	}

	var err error
	if s.caps.roomLifecycle.Load() {
		err = s.repos.Session.Create(session)
		if errorx.IsSchemaUnsupported(err) {
			s.caps.roomLifecycle.Store(false)
			zap.L().Info("存储缺少会话生命周期列,降级创建", zap.String("session_id", session.Uuid))
			err = s.repos.Session.CreateWithoutLifecycleColumns(session)
		}
	} else {
		err = s.repos.Session.CreateWithoutLifecycleColumns(session)
	}
	if err != nil {
		return nil, err
	}

	s.invalidateListCache(session)
	return &respond.CreateSessionRespond{
		SessionId: session.Uuid,
		Topic:     session.Topic,
		RoomType:  session.RoomType,
		Status:    session.Status,
		CreatedAt: session.CreatedAt.Format(constants.TIME_CURSOR_LAYOUT),
	}, nil
}

// GetUserSessionList 用户侧会话列表
// 走 cache-aside：短 TTL 缓存 + 写路径主动失效
func (s *Service) GetUserSessionList(userId string) ([]respond.UserSessionListRespond, error) {
	cacheKey := "session_list:user:" + userId
	if cached := s.readListCache(cacheKey); cached != "" {
		var list []respond.UserSessionListRespond
		if err := json.Unmarshal([]byte(cached), &list); err == nil {
			return list, nil
		}
	}

	sessions, err := s.repos.Session.FindByCreator(userId)
	if err != nil {
		return nil, err
	}

	list := make([]respond.UserSessionListRespond, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		item := respond.UserSessionListRespond{
			SessionId: sess.Uuid,
			Topic:     sess.Topic,
			RoomType:  normalizeRoomType(sess),
			Status:    normalizeStatus(sess.Status),
			CreatedBy: sess.CreatedBy,
			CreatedAt: sess.CreatedAt.Format(constants.TIME_CURSOR_LAYOUT),
		}
		if sess.CompanionId.Valid {
			if companion, err := s.repos.User.FindByUuid(sess.CompanionId.String); err == nil {
				item.CompanionName = companion.DisplayName
			}
		}
		if text, at, err := s.messages.LastMessagePreview(sess.Uuid); err == nil {
			item.LastMessage = text
			item.LastMessageTime = at
		}
		if unread, err := s.messages.ComputeUnreadCount(sess, false); err == nil {
			item.UnreadCount = unread
		}
		list = append(list, item)
	}

	s.writeListCache(cacheKey, list)
	return list, nil
}

// GetCompanionSessionList 陪伴者侧会话列表
// 用户身份在这里完成匿名化：列表触发匿名编号分配，只下发匿名标签。
// 旧库缺少 status 列时回退到不过滤状态的查询
func (s *Service) GetCompanionSessionList(companionId string) ([]respond.CompanionSessionListRespond, error) {
	cacheKey := "session_list:companion:" + companionId
	if cached := s.readListCache(cacheKey); cached != "" {
		var list []respond.CompanionSessionListRespond
		if err := json.Unmarshal([]byte(cached), &list); err == nil {
			return list, nil
		}
	}

	var sessions []model.ChatSession
	var err error
	if s.caps.roomLifecycle.Load() {
		sessions, err = s.repos.Session.FindActiveByCompanion(companionId)
		if errorx.IsSchemaUnsupported(err) {
			s.caps.roomLifecycle.Store(false)
			zap.L().Info("存储缺少 status 列,回退到全量会话查询", zap.String("companion_id", companionId))
			sessions, err = s.repos.Session.FindByCompanion(companionId)
		}
	} else {
		sessions, err = s.repos.Session.FindByCompanion(companionId)
	}
	if err != nil {
		return nil, err
	}

	list := make([]respond.CompanionSessionListRespond, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		item := respond.CompanionSessionListRespond{
			SessionId: sess.Uuid,
			Topic:     sess.Topic,
			UserId:    sess.CreatedBy,
			CreatedAt: sess.CreatedAt.Format(constants.TIME_CURSOR_LAYOUT),
			RoomType:  normalizeRoomType(sess),
			Status:    normalizeStatus(sess.Status),
		}

		// 列表是陪伴者第一次"看到"用户的地方，匿名编号在这里兜底分配
		n, err := s.anon.EnsureAnonNumber(sess.CreatedBy)
		if err != nil {
			zap.L().Warn("匿名编号分配失败,使用占位标签",
				zap.String("user_id", sess.CreatedBy), zap.Error(err))
			n = 0
		}
		item.AnonNumber = n
		item.AnonLabel = s.anon.FormatAnonLabel(n)

		if count, err := s.repos.Message.CountBySessionId(sess.Uuid); err == nil {
			item.MessageCount = count
		}
		if text, at, err := s.messages.LastMessagePreview(sess.Uuid); err == nil {
			item.LastMessage = text
			item.LastMessageTime = at
		}
		if unread, err := s.messages.ComputeUnreadCount(sess, true); err == nil {
			item.UnreadCount = unread
		}
		list = append(list, item)
	}

	s.writeListCache(cacheKey, list)
	return list, nil
}

// CloseSession 陪伴者关闭群组房间
// 规则：
//   - 会话已分配陪伴者时，只有被分配的那位可以关闭
//   - 群组房间（未分配陪伴者）任何陪伴者都可以关闭
//   - 私聊房间永远不能关闭（策略错误，不是权限错误）
//   - 已关闭的房间重复关闭幂等成功，不写第二条系统消息
//
// 关闭成功后尽力写入一条系统消息通知用户；系统消息失败不回滚关闭
func (s *Service) CloseSession(companionId, sessionId string) error {
	sess, err := s.repos.Session.FindByUuid(sessionId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "Sesi tidak ditemukan")
		}
		return err
	}

	if sess.CompanionId.Valid && sess.CompanionId.String != companionId {
		return errorx.New(errorx.CodePolicyForbidden, "Hanya pendamping yang ditugaskan yang dapat menutup ruang ini")
	}
	if normalizeRoomType(sess) != room_type_enum.GROUP {
		return errorx.New(errorx.CodePolicyForbidden, "Ruang pribadi tidak dapat ditutup")
	}
	if sess.Status == session_status_enum.CLOSED {
		return nil // 幂等：重复关闭直接成功
	}

	if err := s.repos.Session.MarkClosed(sess.Uuid, companionId, time.Now()); err != nil {
		if errorx.IsSchemaUnsupported(err) {
			// 旧库没有生命周期列，关闭操作本身不可用，提示迁移而不是报存储故障
			s.caps.roomLifecycle.Store(false)
			return errorx.New(errorx.CodeInvalidParam, "Penutupan ruang memerlukan migrasi basis data")
		}
		return err
	}

	if err := s.messages.AppendSystemMessage(sess.Uuid, ClosedByCompanionNotice); err != nil {
		zap.L().Warn("关闭通知系统消息写入失败", zap.String("session_id", sess.Uuid), zap.Error(err))
	}

	s.invalidateListCache(sess)
	return nil
}

// DeleteSession 创建者删除自己的会话
// 在事务里级联物理删除会话与其全部消息
func (s *Service) DeleteSession(userId, sessionId string) error {
	sess, err := s.repos.Session.FindByUuid(sessionId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "Sesi tidak ditemukan")
		}
		return err
	}
	if sess.CreatedBy != userId {
		return errorx.New(errorx.CodePolicyForbidden, "Hanya pembuat sesi yang dapat menghapusnya")
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Message.HardDeleteBySessionId(sess.Uuid); err != nil {
			return err
		}
		return tx.Session.HardDeleteByUuid(sess.Uuid)
	})
	if err != nil {
		return err
	}

	s.invalidateListCache(sess)
	return nil
}

// MarkRead 陪伴者把会话标记为已读
// 旧库缺少 companion_last_read_at 列时静默成功：
// 已读跟踪是增强能力，缺失时未读数走回退链，不应让客户端报错
func (s *Service) MarkRead(companionId, sessionId string) error {
	sess, err := s.repos.Session.FindByUuid(sessionId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "Sesi tidak ditemukan")
		}
		return err
	}
	if sess.CompanionId.Valid && sess.CompanionId.String != companionId {
		return errorx.New(errorx.CodePolicyForbidden, "Hanya pendamping yang ditugaskan yang dapat menandai baca")
	}

	if !s.caps.readTracking.Load() {
		return nil
	}
	if err := s.repos.Session.UpdateCompanionLastReadAt(sess.Uuid, time.Now()); err != nil {
		if errorx.IsSchemaUnsupported(err) {
			s.caps.readTracking.Store(false)
			zap.L().Info("存储缺少已读列,之后的标记已读直接静默成功", zap.String("session_id", sess.Uuid))
			return nil
		}
		return err
	}

	s.invalidateListCache(sess)
	return nil
}

// readListCache 读取列表缓存，未命中或出错返回空串
func (s *Service) readListCache(key string) string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		zap.L().Warn("读取会话列表缓存失败", zap.String("key", key), zap.Error(err))
		return ""
	}
	return cached
}

// writeListCache 异步回写列表缓存
func (s *Service) writeListCache(key string, list any) {
	bytes, err := json.Marshal(list)
	if err != nil {
		return
	}
	s.cache.SubmitTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.cache.Set(ctx, key, string(bytes), constants.REDIS_TIMEOUT*time.Minute); err != nil {
			zap.L().Warn("回写会话列表缓存失败", zap.String("key", key), zap.Error(err))
		}
	})
}

// invalidateListCache 异步失效会话两侧的列表缓存
func (s *Service) invalidateListCache(sess *model.ChatSession) {
	createdBy := sess.CreatedBy
	companionId := ""
	if sess.CompanionId.Valid {
		companionId = sess.CompanionId.String
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

// normalizeRoomType 归一化房间类型
// 旧库没有 room_type 列时按是否分配陪伴者推断
func normalizeRoomType(sess *model.ChatSession) string {
	if sess.RoomType != "" {
		return sess.RoomType
	}
	if sess.CompanionId.Valid {
		return room_type_enum.PRIVATE
	}
	return room_type_enum.GROUP
}

// normalizeStatus 归一化会话状态，空串视为 active
func normalizeStatus(status string) string {
	if status == "" {
		return session_status_enum.ACTIVE
	}
	return status
}
