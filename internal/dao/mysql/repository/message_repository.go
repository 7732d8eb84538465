package repository

import (
	"time"

	"safespace_chat_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// messageOrder 消息的规范排序：创建时间升序，同时间戳按主键升序兜底
const messageOrder = "created_at ASC, id ASC"

// FindBySessionId 查找会话的全部消息
func (r *messageRepository) FindBySessionId(sessionId string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("session_id = ?", sessionId).Order(messageOrder).Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 session_id=%s", sessionId)
	}
	return messages, nil
}

// FindBySessionIdAfter 查找严格晚于 after 的消息
// 严格大于比较：相同时间戳的消息会在边界拉取中重复返回，由客户端按 uuid 去重
func (r *messageRepository) FindBySessionIdAfter(sessionId string, after time.Time) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("session_id = ? AND created_at > ?", sessionId, after).
		Order(messageOrder).Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "增量查询消息 session_id=%s", sessionId)
	}
	return messages, nil
}

// FindLastBySessionId 查找会话最后一条消息
func (r *messageRepository) FindLastBySessionId(sessionId string) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("session_id = ?", sessionId).
		Order("created_at DESC, id DESC").First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询最后一条消息 session_id=%s", sessionId)
	}
	return &message, nil
}

// FindLastByRole 查找指定角色最后发出的一条消息
func (r *messageRepository) FindLastByRole(sessionId string, isCompanion bool) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("session_id = ? AND is_companion = ?", sessionId, isCompanion).
		Order("created_at DESC, id DESC").First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询角色最后消息 session_id=%s", sessionId)
	}
	return &message, nil
}

// CountBySessionId 统计会话消息总数
func (r *messageRepository) CountBySessionId(sessionId string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).Where("session_id = ?", sessionId).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计消息数 session_id=%s", sessionId)
	}
	return count, nil
}

// CountByRole 统计指定角色的消息数
func (r *messageRepository) CountByRole(sessionId string, isCompanion bool) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).
		Where("session_id = ? AND is_companion = ?", sessionId, isCompanion).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计角色消息数 session_id=%s", sessionId)
	}
	return count, nil
}

// CountByRoleAfter 统计指定角色在 after 之后的消息数
func (r *messageRepository) CountByRoleAfter(sessionId string, isCompanion bool, after time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).
		Where("session_id = ? AND is_companion = ? AND created_at > ?", sessionId, isCompanion, after).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计未读消息数 session_id=%s", sessionId)
	}
	return count, nil
}

// Create 追加消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// HardDeleteBySessionId 物理删除会话的全部消息
func (r *messageRepository) HardDeleteBySessionId(sessionId string) error {
	if err := r.db.Unscoped().Where("session_id = ?", sessionId).Delete(&model.Message{}).Error; err != nil {
		return wrapDBErrorf(err, "删除会话消息 session_id=%s", sessionId)
	}
	return nil
}
