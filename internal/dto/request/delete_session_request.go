package request

// DeleteSessionRequest 删除会话请求
// 使用位置:
//   - internal/handler/session_handler.go: DeleteSession
type DeleteSessionRequest struct {
	SessionId string `json:"sessionId" form:"sessionId" binding:"required"`
}
