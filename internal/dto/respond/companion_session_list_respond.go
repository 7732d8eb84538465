package respond

// CompanionSessionListRespond 陪伴者会话列表响应（单个条目）
// 匿名化：只下发匿名标签和编号，绝不下发用户昵称
// 使用位置:
//   - internal/service/session/service.go: GetCompanionSessionList
type CompanionSessionListRespond struct {
	SessionId       string `json:"sessionId"`
	Topic           string `json:"topic"`
	AnonLabel       string `json:"anonLabel"`            // 如 "Pengguna 042"
	AnonNumber      int    `json:"anonNumber,omitempty"` // 0 表示尚未分配
	UserId          string `json:"userId,omitempty"`
	CreatedAt       string `json:"createdAt"`
	MessageCount    int64  `json:"messageCount"`
	LastMessage     string `json:"lastMessage,omitempty"`
	LastMessageTime string `json:"lastMessageTime"`
	UnreadCount     int64  `json:"unreadCount"`
	RoomType        string `json:"roomType"`
	Status          string `json:"status"`
}
