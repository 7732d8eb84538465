package session_status_enum

// 会话生命周期状态
// ACTIVE -> CLOSED 单向迁移，CLOSED 为终态，不可重新打开
const (
	ACTIVE = "active"
	CLOSED = "closed"
)
