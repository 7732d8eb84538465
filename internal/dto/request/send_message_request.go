package request

// SendMessageRequest 发送消息请求
// 使用位置:
//   - internal/handler/message_handler.go: SendMessage
//   - internal/service/message/service.go: SendMessage
type SendMessageRequest struct {
	SessionId string `json:"sessionId" binding:"required"`
	Text      string `json:"text" binding:"required"`
}
