package request

// CreateJournalRequest 创建日记条目请求
// 使用位置:
//   - internal/handler/journal_handler.go: CreateEntry
type CreateJournalRequest struct {
	Title   string `json:"title" binding:"max=100"`
	Content string `json:"content" binding:"required"`
}
