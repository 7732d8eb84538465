package respond

// CompanionRespond 陪伴者名录条目
// 用户创建私聊房间时从名录里选择 companionId；只下发 id 和名称
// 使用位置:
//   - internal/service/auth/service.go: ListCompanions
type CompanionRespond struct {
	CompanionId string `json:"companionId"`
	DisplayName string `json:"displayName"`
}
