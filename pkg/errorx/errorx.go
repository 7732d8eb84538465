package errorx

import (
	"errors"
	"fmt"
	"net/http"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持 %w 包装底层错误，且能被 errors.Is/errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息
	cause error  // 被包装的底层错误
}

// Error 实现 Go 标准 error 接口
// 当存在底层错误时，返回格式为 "消息: 底层错误"；否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 实现 errors.Unwrap 接口，支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeNotFound, "会话不存在")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy // 默认返回服务繁忙
}

// 业务状态码常量定义
const (
	CodeSuccess           = 1000 // 成功
	CodeInvalidParam      = 1001 // 请求参数错误
	CodeUserExist         = 1002 // 用户已存在
	CodeUserNotExist      = 1003 // 用户不存在
	CodeInvalidPassword   = 1004 // 密码错误
	CodeServerBusy        = 1005 // 服务繁忙
	CodeUnauthorized      = 1006 // 未授权/认证失败
	CodePolicyForbidden   = 1007 // 已认证但业务规则不允许
	CodeNotFound          = 1008 // 资源不存在
	CodeSessionClosed     = 1009 // 会话已关闭，拒绝写入
	CodeDBError           = 1010 // 数据库错误
	CodeCacheError        = 1011 // 缓存错误
	CodeSchemaUnsupported = 1012 // 存储缺少可选列，需要降级重试（不应透传给调用方）
)

// 预定义常用错误实例
// 这些实例既可直接返回，也可用于 errors.Is 比较
var (
	ErrInvalidParam = New(CodeInvalidParam, "Parameter permintaan tidak valid")
	ErrServerBusy   = New(CodeServerBusy, "Server sedang sibuk, coba lagi nanti")
	ErrUnauthorized = New(CodeUnauthorized, "Belum terautentikasi")
)

// HTTPStatus 把业务错误码映射为 HTTP 状态码
// 对外接口使用标准状态码：400 参数、401 未认证、403 业务禁止、404 不存在、500 存储失败
func HTTPStatus(code int) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeUserExist, CodeInvalidPassword, CodeSessionClosed:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodePolicyForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeUserNotExist:
		return http.StatusNotFound
	default:
		// CodeDBError / CodeCacheError / CodeServerBusy 等一律按服务端错误处理
		return http.StatusInternalServerError
	}
}

// IsNotFound 检查错误是否为"未找到"类型（包括 gorm.ErrRecordNotFound 的包装）
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}

// IsSchemaUnsupported 检查错误是否为"可选列缺失"类型
// 调用方捕获后应降级重试，而不是把错误返回给用户
func IsSchemaUnsupported(err error) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == CodeSchemaUnsupported
}
