package respond

// JournalRespond 日记条目响应
// 使用位置:
//   - internal/service/journal/service.go
type JournalRespond struct {
	EntryId   string `json:"entryId"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}
