package request

// MarkReadRequest 陪伴者标记已读请求
// 使用位置:
//   - internal/handler/companion_handler.go: MarkRead
type MarkReadRequest struct {
	SessionId string `json:"sessionId" binding:"required"`
}
