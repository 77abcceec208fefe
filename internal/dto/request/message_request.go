package request

// SendMessageRequest 发送消息
// type 为空时按 private 处理；private 需要 receiverId，channel 需要 channelId
type SendMessageRequest struct {
	Content    string `json:"content" binding:"required"`
	Type       string `json:"type" binding:"omitempty,oneof=public private channel"`
	ReceiverID string `json:"receiverId"`
	ChannelID  string `json:"channelId"`
}

// ListMessagesQuery 消息列表
type ListMessagesQuery struct {
	ReceiverID string `form:"receiverId"`
	Content    string `form:"content"`
	Type       string `form:"type" binding:"omitempty,oneof=public private channel"`
	PageQuery
}

// UpdateMessageRequest 修改消息内容
type UpdateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ReactionRequest 添加表情回应
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required,max=32"`
}
