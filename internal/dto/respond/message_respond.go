package respond

// MessageRespond 单条消息响应
// CreatedAt 使用 constants.TIME_CURSOR_LAYOUT 格式，客户端直接拿它当下一次拉取的游标
// 使用位置:
//   - internal/service/message/service.go: GetMessageList, SendMessage
//   - internal/client/poller/poller.go: 消息去重与游标推进
type MessageRespond struct {
	MessageId   string `json:"messageId"`
	SessionId   string `json:"sessionId"`
	SenderId    string `json:"senderId,omitempty"` // 系统消息为空
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
	IsCompanion bool   `json:"isCompanion"`
	IsSystem    bool   `json:"isSystem"`
	CreatedAt   string `json:"createdAt"`
}
