package respond

// UserStatusEvent userStatusChange 事件
type UserStatusEvent struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

// ErrorEvent 回给单个连接的 error 事件
type ErrorEvent struct {
	Message string `json:"message"`
}
