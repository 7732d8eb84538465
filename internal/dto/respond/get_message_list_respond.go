package respond

// SessionStatusRespond 消息列表响应里附带的会话状态
// 客户端靠它发现房间被关闭并停止轮询
type SessionStatusRespond struct {
	Status string `json:"status"`
}

// GetMessageListRespond 增量拉取消息响应
// ServerTime 为服务端时间水位：会话暂无消息时客户端用它作为游标种子，
// 避免空游标反复全量拉取同一个空结果
// 使用位置:
//   - internal/service/message/service.go: GetMessageList
type GetMessageListRespond struct {
	Messages   []MessageRespond     `json:"messages"`
	Session    SessionStatusRespond `json:"session"`
	ServerTime string               `json:"serverTime"`
}
