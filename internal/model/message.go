// Package model 定义数据库实体模型
// 本文件定义消息模型
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Message 消息模型
// 对应数据库 messages 表
// 消息不可变且仅追加；排序按 CreatedAt 升序，相同时间戳按插入顺序（主键）兜底
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识
	// 客户端按它去重（相同时间戳边界拉取可能重复返回）
	Uuid string `gorm:"column:uuid;uniqueIndex;type:varchar(40);not null;comment:消息uuid"`

	// SessionId 会话 UUID，关联 chat_sessions 表
	SessionId string `gorm:"column:session_id;index;type:varchar(20);not null;comment:会话uuid"`

	// SenderId 发送者 UUID
	// 系统消息没有发送者，为 NULL
	SenderId sql.NullString `gorm:"column:sender_id;index;type:varchar(20);comment:发送者uuid"`

	// DisplayName 发送者显示标签
	// 冗余存储：普通用户为昵称，陪伴者为陪伴者名称，系统消息为 "Sistem"
	DisplayName string `gorm:"column:display_name;type:varchar(50);not null;comment:显示标签"`

	// Text 消息正文
	Text string `gorm:"column:text;type:TEXT;not null;comment:消息正文"`

	// IsCompanion 是否由陪伴者发出
	// 未读数按对端角色的消息统计，靠这个标志区分两侧
	IsCompanion bool `gorm:"column:is_companion;not null;default:false;comment:是否陪伴者消息"`

	// IsSystem 是否系统消息（生命周期事件生成，如房间关闭通知）
	IsSystem bool `gorm:"column:is_system;not null;default:false;comment:是否系统消息"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "messages"
}
