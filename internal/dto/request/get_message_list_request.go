package request

// GetMessageListRequest 增量拉取消息请求
// After 为空表示全量拉取；非空时只返回严格晚于该时间戳的消息
// 使用位置:
//   - internal/handler/message_handler.go: GetMessageList
type GetMessageListRequest struct {
	SessionId string `json:"sessionId" form:"sessionId" binding:"required"`
	After     string `json:"after" form:"after"` // 游标，constants.TIME_CURSOR_LAYOUT 格式
}
