package request

// CreateMoodRequest 心情打卡请求
// 使用位置:
//   - internal/handler/mood_handler.go: CreateEntry
type CreateMoodRequest struct {
	Mood int    `json:"mood" binding:"required,min=1,max=5"`
	Note string `json:"note" binding:"max=255"`
}
