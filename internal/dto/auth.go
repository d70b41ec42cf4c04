package dto

// ── 认证模块 DTO ──

// SignupRequest 注册请求
type SignupRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Fullname string `json:"fullname" binding:"omitempty,max=100"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
