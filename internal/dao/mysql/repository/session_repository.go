// Package repository 提供数据访问层的具体实现
// 本文件实现 SessionRepository 接口，处理会话相关的数据库操作
package repository

import (
	"database/sql"
	"time"

	"safespace_chat_server/internal/model"
	"safespace_chat_server/pkg/enum/chat_session/session_status_enum"

	"gorm.io/gorm"
)

// sessionRepository SessionRepository 接口的实现
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建 SessionRepository 实例
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// FindByUuid 根据 UUID 查找会话
func (r *sessionRepository) FindByUuid(uuid string) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := r.db.Where("uuid = ?", uuid).First(&session).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会话 uuid=%s", uuid)
	}
	return &session, nil
}

// FindByCreator 查找用户创建的所有会话
// 用于用户侧会话列表，按创建时间倒序
func (r *sessionRepository) FindByCreator(userId string) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	if err := r.db.Where("created_by = ?", userId).Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会话列表 created_by=%s", userId)
	}
	return sessions, nil
}

// FindActiveByCompanion 查找分配给陪伴者的未关闭会话
// status 是可选列，旧库会返回 CodeSchemaUnsupported
func (r *sessionRepository) FindActiveByCompanion(companionId string) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	if err := r.db.Where("companion_id = ? AND status <> ?", companionId, session_status_enum.CLOSED).
		Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询陪伴者会话列表 companion_id=%s", companionId)
	}
	return sessions, nil
}

// FindByCompanion 查找分配给陪伴者的所有会话（不过滤状态，降级路径）
func (r *sessionRepository) FindByCompanion(companionId string) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	if err := r.db.Where("companion_id = ?", companionId).
		Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询陪伴者会话列表 companion_id=%s", companionId)
	}
	return sessions, nil
}

// Create 创建会话
func (r *sessionRepository) Create(session *model.ChatSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return wrapDBError(err, "创建会话")
	}
	return nil
}

// CreateWithoutLifecycleColumns 降级创建
// 跳过旧库不存在的可选列，其余字段照常写入
func (r *sessionRepository) CreateWithoutLifecycleColumns(session *model.ChatSession) error {
	if err := r.db.
		Omit("RoomType", "Status", "CompanionLastReadAt", "ClosedAt", "ClosedBy").
		Create(session).Error; err != nil {
		return wrapDBError(err, "创建会话(降级)")
	}
	return nil
}

// MarkClosed 把会话置为 closed 并记录关闭时间与关闭人
// 只迁移 active 状态的行；已关闭的行不会被重复更新
func (r *sessionRepository) MarkClosed(uuid, closedBy string, closedAt time.Time) error {
	if err := r.db.Model(&model.ChatSession{}).
		Where("uuid = ? AND status <> ?", uuid, session_status_enum.CLOSED).
		Updates(map[string]interface{}{
			"status":    session_status_enum.CLOSED,
			"closed_at": sql.NullTime{Time: closedAt, Valid: true},
			"closed_by": sql.NullString{String: closedBy, Valid: true},
		}).Error; err != nil {
		return wrapDBErrorf(err, "关闭会话 uuid=%s", uuid)
	}
	return nil
}

// UpdateCompanionLastReadAt 更新陪伴者最后已读时间
// companion_last_read_at 是可选列，旧库会返回 CodeSchemaUnsupported
func (r *sessionRepository) UpdateCompanionLastReadAt(uuid string, readAt time.Time) error {
	if err := r.db.Model(&model.ChatSession{}).
		Where("uuid = ?", uuid).
		Update("companion_last_read_at", sql.NullTime{Time: readAt, Valid: true}).Error; err != nil {
		return wrapDBErrorf(err, "更新已读时间 uuid=%s", uuid)
	}
	return nil
}

// HardDeleteByUuid 物理删除会话
func (r *sessionRepository) HardDeleteByUuid(uuid string) error {
	if err := r.db.Unscoped().Where("uuid = ?", uuid).Delete(&model.ChatSession{}).Error; err != nil {
		return wrapDBErrorf(err, "删除会话 uuid=%s", uuid)
	}
	return nil
}
