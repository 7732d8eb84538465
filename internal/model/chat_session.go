// Package model 定义数据库实体模型
// 本文件定义聊天会话模型
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// ChatSession 聊天会话模型
// 对应数据库 chat_sessions 表
// 会话代表一位用户与陪伴者（或群组房间）之间的聊天关系
type ChatSession struct {
	gorm.Model

	// Uuid 会话唯一标识
	// 格式：S + 17位日期随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:varchar(20);not null;comment:会话uuid"`

	// Topic 会话主题
	// 创建时由用户填写，不能为空
	Topic string `gorm:"column:topic;type:varchar(100);not null;comment:会话主题"`

	// CreatedBy 创建会话的用户 UUID
	CreatedBy string `gorm:"column:created_by;index;type:varchar(20);not null;comment:创建人uuid"`

	// CompanionId 被分配的陪伴者 UUID
	// 创建时指定则为私聊房间；为空则为群组房间
	CompanionId sql.NullString `gorm:"column:companion_id;index;type:varchar(20);comment:陪伴者uuid"`

	// RoomType 房间类型：private / group
	// 见 pkg/enum/chat_session/room_type_enum
	RoomType string `gorm:"column:room_type;type:varchar(10);not null;default:private;comment:房间类型"`

	// Status 会话状态：active / closed
	// closed 为终态，之后只允许读取和追加终结性的系统消息
	Status string `gorm:"column:status;type:varchar(10);not null;default:active;comment:会话状态"`

	// CompanionLastReadAt 陪伴者最后已读时间
	// 可选列：旧库可能不存在，所有读写都要容忍 schema 缺失
	CompanionLastReadAt sql.NullTime `gorm:"column:companion_last_read_at;comment:陪伴者最后已读时间"`

	// ClosedAt 关闭时间
	ClosedAt sql.NullTime `gorm:"column:closed_at;comment:关闭时间"`

	// ClosedBy 执行关闭操作的陪伴者 UUID
	ClosedBy sql.NullString `gorm:"column:closed_by;type:varchar(20);comment:关闭人uuid"`
}

// TableName 指定表名
func (ChatSession) TableName() string {
	return "chat_sessions"
}
