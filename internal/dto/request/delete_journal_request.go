package request

// DeleteJournalRequest 删除日记条目请求
// 使用位置:
//   - internal/handler/journal_handler.go: DeleteEntry
type DeleteJournalRequest struct {
	EntryId string `json:"entryId" form:"entryId" binding:"required"`
}
