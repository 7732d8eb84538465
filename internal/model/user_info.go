// Package model 定义数据库实体模型
// 本文件定义用户模型
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// UserInfo 用户模型
// 对应数据库 users 表
// 同时承载普通用户和陪伴者（倾听者）两种身份
type UserInfo struct {
	gorm.Model // 内嵌 GORM 模型，包含 ID、CreatedAt、UpdatedAt、DeletedAt

	// Uuid 用户唯一标识
	// 格式：U + 17位日期随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:varchar(20);not null;comment:用户uuid"`

	// DisplayName 显示昵称
	// 普通用户登录时自报的昵称；对陪伴者展示时会被匿名编号替代
	DisplayName string `gorm:"column:display_name;type:varchar(50);not null;comment:显示昵称"`

	// InviteCode 登录使用的邀请码
	// 同一昵称 + 同一邀请码视为同一用户
	InviteCode string `gorm:"column:invite_code;index;type:varchar(50);comment:邀请码"`

	// AnonNumber 匿名编号，1-999，全局唯一
	// 分配前为 NULL；一经分配不再变更（竞争恢复除外）
	// 唯一索引是并发分配时最后一道防线：两个请求同时写入同一编号时，后写的会失败
	AnonNumber sql.NullInt32 `gorm:"column:anon_number;uniqueIndex;comment:匿名编号1-999"`

	// IsCompanion 是否为陪伴者
	IsCompanion bool `gorm:"column:is_companion;not null;default:false;comment:是否陪伴者"`

	// PasswordHash 陪伴者登录密码的 bcrypt 哈希
	// 普通用户无密码，留空
	PasswordHash string `gorm:"column:password_hash;type:varchar(100);comment:密码哈希"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "users"
}
