package request

// CompanionLoginRequest 陪伴者账号密码登录请求
// 使用位置:
//   - internal/handler/auth_handler.go: CompanionLogin
type CompanionLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
