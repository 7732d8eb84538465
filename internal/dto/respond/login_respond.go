package respond

// LoginRespond 登录响应
// 使用位置:
//   - internal/service/auth/service.go: Login, CompanionLogin
type LoginRespond struct {
	UserId      string `json:"userId"`
	DisplayName string `json:"displayName"`
	IsCompanion bool   `json:"isCompanion"`
	AnonNumber  int    `json:"anonNumber,omitempty"` // 登录时分配的匿名编号
}
