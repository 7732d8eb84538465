package request

// LoginRequest 用户邀请码登录请求
// 使用位置:
//   - internal/handler/auth_handler.go: Login
//   - internal/service/auth/service.go: Login
type LoginRequest struct {
	InviteCode  string `json:"inviteCode" binding:"required"`
	DisplayName string `json:"displayName" binding:"required,min=2,max=50"`
}
