// Package websocket 管理 WebSocket 连接：握手、读写协程、全量广播
package websocket

import (
	"encoding/json"
	"sync"

	"parkhya_chat_server/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

// Hub 持有全部在线连接
// 广播时只序列化一次，非阻塞地投递到每个连接的发送队列，队列满的连接丢弃该帧
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	metrics.WSConnections.Inc()
	return true
}

// unregister 移除连接并关闭其发送队列，重复调用无副作用
func (h *Hub) unregister(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	close(c.send)
	metrics.WSConnections.Dec()
	return true
}

// Emit 构造事件并广播给所有连接
func (h *Hub) Emit(id, event string, data any) error {
	ev, err := NewEvent(id, event, data)
	if err != nil {
		return err
	}
	return h.Broadcast(ev)
}

// Broadcast 广播给所有连接，不做接收方过滤
func (h *Hub) Broadcast(ev Event) error {
	frame, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			zap.L().Warn("ws send queue full, frame dropped",
				zap.String("event", ev.Event),
				zap.String("user_id", c.userID))
		}
	}
	return nil
}

// sendTo 只发给一个连接（入站错误回执）
func (h *Hub) sendTo(c *Client, ev Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		zap.L().Error("marshal ws event", zap.String("event", ev.Event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

// Count 当前连接数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close 关闭所有连接的发送队列，写协程随后发送 close 帧并断开
func (h *Hub) Close() {
	h.drain()
}

// drain 标记关闭并移除全部连接，返回被移除的连接；重复调用返回 nil
func (h *Hub) drain() []*Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	metrics.WSConnections.Sub(float64(len(h.clients)))
	drained := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		drained = append(drained, c)
	}
	return drained
}
