package request

// RegisterRequest 注册请求
// 使用位置:
//   - internal/handler/auth_handler.go: Register
type RegisterRequest struct {
	FullName     string  `json:"fullName" binding:"max=100"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=6"`
	MobileNumber *string `json:"mobileNumber" binding:"omitempty,max=20"`
	Avatar       *string `json:"avatar" binding:"omitempty,url"`
}

// LoginRequest 邮箱密码登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SocialProfile 第三方平台返回的用户资料
type SocialProfile struct {
	ID      string `json:"id" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// SocialLoginRequest 第三方登录请求
// token 的校验由接入层完成，这里只使用 profile
type SocialLoginRequest struct {
	Provider string        `json:"provider" binding:"required"`
	Token    string        `json:"token"`
	Profile  SocialProfile `json:"profile" binding:"required"`
}

// ForgotPasswordRequest 申请重置密码验证码
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 使用验证码重置密码
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}
