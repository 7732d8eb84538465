// Package repository 提供数据访问层的具体实现
// 本文件提供错误包装辅助函数
package repository

import (
	"errors"
	"strings"

	"safespace_chat_server/pkg/errorx"

	gosqlmysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlErrUnknownColumn MySQL "Unknown column" 错误码 (ER_BAD_FIELD_ERROR)
// 旧库缺少可选列（如 companion_last_read_at）时触发
const mysqlErrUnknownColumn = 1054

// isUnknownColumnErr 判断错误是否为"列不存在"
// 这是全仓库唯一一处嗅探该条件的地方：上层统一拿到 CodeSchemaUnsupported，
// 不允许在 Service 里散落对错误文本的字符串匹配
func isUnknownColumnErr(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *gosqlmysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrUnknownColumn
	}
	// sqlite（测试环境）没有错误码结构体，只能按文本兜底
	// 查询/更新报 "no such column"，插入报 "has no column named"
	msg := err.Error()
	return strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "has no column named") ||
		strings.Contains(msg, "Unknown column")
}

// wrapDBError 包装数据库错误
// 根据错误类型返回不同的错误码：
//   - ErrRecordNotFound -> CodeNotFound
//   - 列不存在         -> CodeSchemaUnsupported（调用方应降级重试）
//   - 其他错误         -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	if isUnknownColumnErr(err) {
		return errorx.Wrap(err, errorx.CodeSchemaUnsupported, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

// wrapDBErrorf 包装数据库错误（支持格式化消息）
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	if isUnknownColumnErr(err) {
		return errorx.Wrapf(err, errorx.CodeSchemaUnsupported, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}
