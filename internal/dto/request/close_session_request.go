package request

// CloseSessionRequest 陪伴者关闭房间请求
// 使用位置:
//   - internal/handler/companion_handler.go: CloseSession
type CloseSessionRequest struct {
	SessionId string `json:"sessionId" binding:"required"`
}
