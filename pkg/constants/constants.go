package constants

import "time"

const (
	CHANNEL_SIZE = 100 // 每个连接的发送缓冲大小

	RESET_CODE_LENGTH = 6
	RESET_CODE_TTL    = 15 * time.Minute
)

// 实时事件名称
const (
	EventSendMessage          = "sendMessage" // 入站
	EventReceiveMessage       = "receiveMessage"
	EventNewMessage           = "newMessage"
	EventMessageUpdated       = "messageUpdated"
	EventMessageDeleted       = "messageDeleted"
	EventUserStatusChange     = "userStatusChange"
	EventChannelCreated       = "channelCreated"
	EventChannelUpdated       = "channelUpdated"
	EventChannelDeleted       = "channelDeleted"
	EventChannelMemberAdded   = "channelMemberAdded"
	EventChannelMemberRemoved = "channelMemberRemoved"
	EventError                = "error"
)
