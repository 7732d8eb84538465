package model

import "gorm.io/gorm"

// MoodEntry 心情打卡模型
// 对应数据库 mood_entries 表
type MoodEntry struct {
	gorm.Model

	// UserId 所属用户 UUID
	UserId string `gorm:"column:user_id;index;type:varchar(20);not null;comment:用户uuid"`

	// Mood 心情值，1-5
	Mood int `gorm:"column:mood;not null;comment:心情值1-5"`

	// Note 备注，可为空
	Note string `gorm:"column:note;type:varchar(255);comment:备注"`
}

// TableName 指定表名
func (MoodEntry) TableName() string {
	return "mood_entries"
}
