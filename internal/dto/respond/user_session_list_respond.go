package respond

// UserSessionListRespond 用户会话列表响应（单个条目）
// 使用位置:
//   - internal/service/session/service.go: GetUserSessionList
type UserSessionListRespond struct {
	SessionId       string `json:"sessionId"`
	Topic           string `json:"topic"`
	CompanionName   string `json:"companionName,omitempty"` // 私聊房间显示陪伴者名称
	RoomType        string `json:"roomType"`
	Status          string `json:"status"`
	CreatedBy       string `json:"createdBy"`
	CreatedAt       string `json:"createdAt"`
	LastMessage     string `json:"lastMessage,omitempty"`
	LastMessageTime string `json:"lastMessageTime"`
	UnreadCount     int64  `json:"unreadCount"`
}
