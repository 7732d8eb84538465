// Package mysql 提供数据访问层的初始化
// 负责建立 MySQL 连接、自动迁移表结构、初始化 Repository 层
package mysql

import (
	"fmt"

	"safespace_chat_server/internal/config"               // 配置管理
	"safespace_chat_server/internal/dao/mysql/repository" // Repository 层
	"safespace_chat_server/internal/model"                // 数据模型

	"go.uber.org/zap"                  // 日志库
	mysqldriver "gorm.io/driver/mysql" // GORM MySQL 驱动
	"gorm.io/gorm"                     // GORM ORM 框架
)

// Init 初始化数据库连接并返回 Repository 层实例
// 执行步骤：
//  1. 从配置读取 MySQL 连接信息
//  2. 构建 DSN（Data Source Name）连接字符串
//  3. 使用 GORM 建立数据库连接
//  4. 执行 AutoMigrate 自动迁移表结构
//  5. 创建并返回 Repository 实例
func Init() *repository.Repositories {
	conf := config.GetConfig()

	// 构建 MySQL DSN 连接字符串
	// 格式：user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{})
	if err != nil {
		// 连接失败，记录致命错误并退出程序
		zap.L().Fatal(err.Error())
	}

	// AutoMigrate 自动迁移表结构
	// 如果表不存在则创建，如果字段变更则更新结构
	// 注意：不会删除已有字段或数据
	// 会话的可选列（room_type/status/companion_last_read_at）在这里会被补齐；
	// 指向未迁移旧库的只读部署依赖 Service 层的能力降级
	err = db.AutoMigrate(
		&model.UserInfo{},     // 用户表
		&model.ChatSession{},  // 会话表
		&model.Message{},      // 消息表
		&model.JournalEntry{}, // 日记表
		&model.MoodEntry{},    // 心情打卡表
	)
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	return repository.NewRepositories(db)
}
