package request

// CreateSessionRequest 创建会话请求
// 使用位置:
//   - internal/handler/session_handler.go: CreateSession
//   - internal/service/session/service.go: CreateSession
type CreateSessionRequest struct {
	Topic       string `json:"topic" binding:"required"`
	CompanionId string `json:"companionId"` // 可选；指定则创建私聊房间，否则为群组房间
}
