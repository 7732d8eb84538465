package respond

// SendMessageRespond 发送消息响应
// 返回带服务端分配 id 和时间戳的完整记录，客户端用它做乐观更新的去重
// 使用位置:
//   - internal/service/message/service.go: SendMessage
type SendMessageRespond struct {
	Message MessageRespond `json:"message"`
}
