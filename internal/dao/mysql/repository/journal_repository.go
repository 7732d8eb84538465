package repository

import (
	"safespace_chat_server/internal/model"
	"safespace_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository 创建日记 Repository
func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

// FindByUser 查找用户的日记条目，最新在前
func (r *journalRepository) FindByUser(userId string) ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	if err := r.db.Where("user_id = ?", userId).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询日记列表 user_id=%s", userId)
	}
	return entries, nil
}

// Create 创建日记条目
func (r *journalRepository) Create(entry *model.JournalEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return wrapDBError(err, "创建日记条目")
	}
	return nil
}

// SoftDeleteByUuidAndUser 软删除用户自己的条目
// 带 user_id 条件防止越权删除他人条目；未命中任何行返回 CodeNotFound
func (r *journalRepository) SoftDeleteByUuidAndUser(uuid, userId string) error {
	result := r.db.Where("uuid = ? AND user_id = ?", uuid, userId).Delete(&model.JournalEntry{})
	if result.Error != nil {
		return wrapDBErrorf(result.Error, "删除日记条目 uuid=%s", uuid)
	}
	if result.RowsAffected == 0 {
		return errorx.Newf(errorx.CodeNotFound, "日记条目不存在 uuid=%s", uuid)
	}
	return nil
}
