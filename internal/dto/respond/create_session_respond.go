package respond

// CreateSessionRespond 创建会话响应
// 使用位置:
//   - internal/service/session/service.go: CreateSession
type CreateSessionRespond struct {
	SessionId string `json:"sessionId"`
	Topic     string `json:"topic"`
	RoomType  string `json:"roomType"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}
