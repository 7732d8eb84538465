// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"time"

	"safespace_chat_server/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByDisplayNameAndInvite 根据昵称+邀请码查找用户（登录幂等）
	FindByDisplayNameAndInvite(displayName, inviteCode string) (*model.UserInfo, error)
	// FindCompanionByName 根据名称查找陪伴者账号
	FindCompanionByName(displayName string) (*model.UserInfo, error)
	// FindCompanions 查找所有陪伴者
	FindCompanions() ([]model.UserInfo, error)
	// FindByAnonNumber 根据匿名编号查找占用者（分配前的冲突检查）
	FindByAnonNumber(n int) (*model.UserInfo, error)
	// Create 创建新用户
	Create(user *model.UserInfo) error
	// AssignAnonNumber 为尚未分配编号的用户写入匿名编号
	// 条件更新：仅当 anon_number 仍为 NULL 时生效，并发竞争靠唯一索引兜底
	AssignAnonNumber(uuid string, n int) error
}

// SessionRepository 会话数据访问接口
type SessionRepository interface {
	// FindByUuid 根据 UUID 查找会话
	FindByUuid(uuid string) (*model.ChatSession, error)
	// FindByCreator 查找用户创建的所有会话
	FindByCreator(userId string) ([]model.ChatSession, error)
	// FindActiveByCompanion 查找分配给陪伴者的未关闭会话
	// 旧库缺少 status 列时返回 CodeSchemaUnsupported，调用方降级到 FindByCompanion
	FindActiveByCompanion(companionId string) ([]model.ChatSession, error)
	// FindByCompanion 查找分配给陪伴者的所有会话（不过滤状态）
	FindByCompanion(companionId string) ([]model.ChatSession, error)
	// Create 创建新会话
	Create(session *model.ChatSession) error
	// CreateWithoutLifecycleColumns 降级创建：跳过旧库不存在的可选列
	CreateWithoutLifecycleColumns(session *model.ChatSession) error
	// MarkClosed 把会话置为 closed 并记录关闭时间与关闭人
	MarkClosed(uuid, closedBy string, closedAt time.Time) error
	// UpdateCompanionLastReadAt 更新陪伴者最后已读时间
	UpdateCompanionLastReadAt(uuid string, readAt time.Time) error
	// HardDeleteByUuid 物理删除会话（创建者删除会话时级联调用）
	HardDeleteByUuid(uuid string) error
}

// MessageRepository 消息数据访问接口
// 消息仅追加；所有查询按 created_at 升序、同时间戳按主键升序
type MessageRepository interface {
	// FindBySessionId 查找会话的全部消息
	FindBySessionId(sessionId string) ([]model.Message, error)
	// FindBySessionIdAfter 查找严格晚于 after 的消息（增量游标拉取）
	FindBySessionIdAfter(sessionId string, after time.Time) ([]model.Message, error)
	// FindLastBySessionId 查找会话最后一条消息（预览用）
	FindLastBySessionId(sessionId string) (*model.Message, error)
	// FindLastByRole 查找指定角色最后发出的一条消息（未读数降级用）
	FindLastByRole(sessionId string, isCompanion bool) (*model.Message, error)
	// CountBySessionId 统计会话消息总数
	CountBySessionId(sessionId string) (int64, error)
	// CountByRole 统计指定角色的消息数
	CountByRole(sessionId string, isCompanion bool) (int64, error)
	// CountByRoleAfter 统计指定角色在 after 之后的消息数
	CountByRoleAfter(sessionId string, isCompanion bool, after time.Time) (int64, error)
	// Create 追加消息
	Create(message *model.Message) error
	// HardDeleteBySessionId 物理删除会话的全部消息（会话删除级联）
	HardDeleteBySessionId(sessionId string) error
}

// JournalRepository 日记数据访问接口
type JournalRepository interface {
	// FindByUser 查找用户的日记条目（最新在前）
	FindByUser(userId string) ([]model.JournalEntry, error)
	// Create 创建日记条目
	Create(entry *model.JournalEntry) error
	// SoftDeleteByUuidAndUser 软删除用户自己的条目
	SoftDeleteByUuidAndUser(uuid, userId string) error
}

// MoodRepository 心情打卡数据访问接口
type MoodRepository interface {
	// FindRecentByUser 查找用户最近的打卡记录
	FindRecentByUser(userId string, limit int) ([]model.MoodEntry, error)
	// Create 创建打卡记录
	Create(entry *model.MoodEntry) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db      *gorm.DB          // GORM 数据库实例
	User    UserRepository    // 用户 Repository
	Session SessionRepository // 会话 Repository
	Message MessageRepository // 消息 Repository
	Journal JournalRepository // 日记 Repository
	Mood    MoodRepository    // 心情 Repository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:      db,
		User:    NewUserRepository(db),
		Session: NewSessionRepository(db),
		Message: NewMessageRepository(db),
		Journal: NewJournalRepository(db),
		Mood:    NewMoodRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
