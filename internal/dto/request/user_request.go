package request

// CreateUserRequest 管理员创建用户
type CreateUserRequest struct {
	FullName     string  `json:"fullName" binding:"max=100"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=6"`
	MobileNumber *string `json:"mobileNumber" binding:"omitempty,max=20"`
	Avatar       *string `json:"avatar" binding:"omitempty,url"`
	IsAdmin      bool    `json:"isAdmin"`
}

// UpdateUserRequest 部分更新，nil 表示不修改
type UpdateUserRequest struct {
	FullName     *string `json:"fullName" binding:"omitempty,max=100"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Password     *string `json:"password" binding:"omitempty,min=6"`
	MobileNumber *string `json:"mobileNumber" binding:"omitempty,max=20"`
	Avatar       *string `json:"avatar" binding:"omitempty,url"`
}

// ListUsersQuery 用户列表查询
type ListUsersQuery struct {
	SearchTerm string `form:"searchTerm"`
	PageQuery
}
