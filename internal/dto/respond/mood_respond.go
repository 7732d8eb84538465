package respond

// MoodRespond 心情打卡响应
// 使用位置:
//   - internal/service/mood/service.go
type MoodRespond struct {
	Mood      int    `json:"mood"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"createdAt"`
}
