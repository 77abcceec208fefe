package websocket

import (
	"encoding/json"
)

// Event WebSocket 帧格式，收发双向一致
// ID 只出现在服务端下发的事件中，客户端可据此对直发与队列转发的两份副本去重
type Event struct {
	ID    string          `json:"eventId,omitempty"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendMessagePayload 入站 sendMessage 事件
type SendMessagePayload struct {
	Content  string `json:"content"`
	SenderID string `json:"senderId"`
}

// NewEvent 序列化 data 并构造事件
func NewEvent(id, event string, data any) (Event, error) {
	ev := Event{ID: id, Event: event}
	if data == nil {
		return ev, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return ev, err
	}
	ev.Data = raw
	return ev, nil
}
