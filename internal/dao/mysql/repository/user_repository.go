// Package repository 提供数据访问层的具体实现
// 本文件实现 UserRepository 接口
package repository

import (
	"database/sql"

	"safespace_chat_server/internal/model"
	"safespace_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// userRepository UserRepository 接口的实现
type userRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 根据 UUID 查找用户
func (r *userRepository) FindByUuid(uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByDisplayNameAndInvite 根据昵称+邀请码查找用户
// 登录时用于判断是否已注册，同一昵称+邀请码视为同一用户
func (r *userRepository) FindByDisplayNameAndInvite(displayName, inviteCode string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("display_name = ? AND invite_code = ?", displayName, inviteCode).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 display_name=%s", displayName)
	}
	return &user, nil
}

// FindCompanionByName 根据名称查找陪伴者账号
func (r *userRepository) FindCompanionByName(displayName string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("display_name = ? AND is_companion = ?", displayName, true).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询陪伴者 display_name=%s", displayName)
	}
	return &user, nil
}

// FindCompanions 查找所有陪伴者
func (r *userRepository) FindCompanions() ([]model.UserInfo, error) {
	var users []model.UserInfo
	if err := r.db.Where("is_companion = ?", true).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "查询陪伴者列表")
	}
	return users, nil
}

// FindByAnonNumber 根据匿名编号查找占用者
// 分配前的冲突检查：编号未被占用时返回 CodeNotFound
func (r *userRepository) FindByAnonNumber(n int) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("anon_number = ?", n).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询匿名编号占用者 n=%d", n)
	}
	return &user, nil
}

// Create 创建新用户
func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// AssignAnonNumber 为尚未分配编号的用户写入匿名编号
// 仅当 anon_number 仍为 NULL 时更新；未命中任何行（已被其他请求抢先分配）
// 或唯一索引冲突（编号被其他用户抢占）都返回 CodeDBError，由调用方重读恢复
func (r *userRepository) AssignAnonNumber(uuid string, n int) error {
	result := r.db.Model(&model.UserInfo{}).
		Where("uuid = ? AND anon_number IS NULL", uuid).
		Update("anon_number", sql.NullInt32{Int32: int32(n), Valid: true})
	if result.Error != nil {
		return wrapDBErrorf(result.Error, "写入匿名编号 uuid=%s n=%d", uuid, n)
	}
	if result.RowsAffected == 0 {
		return errorx.Newf(errorx.CodeDBError, "匿名编号写入未生效 uuid=%s", uuid)
	}
	return nil
}
