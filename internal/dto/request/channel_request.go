package request

// CreateChannelRequest 创建频道
type CreateChannelRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
	IsPrivate   bool   `json:"isPrivate"`
}

// UpdateChannelRequest 部分更新频道，nil 表示保持原值
type UpdateChannelRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	IsPrivate   *bool   `json:"isPrivate"`
}

// AddMemberRequest 添加成员
type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}
