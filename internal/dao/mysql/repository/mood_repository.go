package repository

import (
	"safespace_chat_server/internal/model"

	"gorm.io/gorm"
)

type moodRepository struct {
	db *gorm.DB
}

// NewMoodRepository 创建心情打卡 Repository
func NewMoodRepository(db *gorm.DB) MoodRepository {
	return &moodRepository{db: db}
}

// FindRecentByUser 查找用户最近的打卡记录
func (r *moodRepository) FindRecentByUser(userId string, limit int) ([]model.MoodEntry, error) {
	var entries []model.MoodEntry
	if err := r.db.Where("user_id = ?", userId).Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询心情记录 user_id=%s", userId)
	}
	return entries, nil
}

// Create 创建打卡记录
func (r *moodRepository) Create(entry *model.MoodEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return wrapDBError(err, "创建心情记录")
	}
	return nil
}
