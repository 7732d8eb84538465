package model

import "gorm.io/gorm"

// JournalEntry 日记条目模型
// 对应数据库 journal_entries 表
type JournalEntry struct {
	gorm.Model

	// Uuid 条目唯一标识
	Uuid string `gorm:"column:uuid;uniqueIndex;type:varchar(40);not null;comment:条目uuid"`

	// UserId 所属用户 UUID
	UserId string `gorm:"column:user_id;index;type:varchar(20);not null;comment:用户uuid"`

	// Title 标题，可为空
	Title string `gorm:"column:title;type:varchar(100);comment:标题"`

	// Content 正文
	Content string `gorm:"column:content;type:TEXT;not null;comment:正文"`
}

// TableName 指定表名
func (JournalEntry) TableName() string {
	return "journal_entries"
}
