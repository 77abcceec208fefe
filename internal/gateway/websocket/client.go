package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"parkhya_chat_server/pkg/constants"
	"parkhya_chat_server/pkg/errorx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client 一条 WebSocket 连接
type Client struct {
	gateway *Gateway
	conn    *websocket.Conn
	userID  string
	send    chan []byte
}

// readPump 读取上行事件，连接断开后负责清理
func (c *Client) readPump() {
	defer c.gateway.disconnect(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("ws read error", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
		c.dispatch(raw)
	}
}

// writePump 把发送队列写到连接，并定时发送 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 发送队列已关闭
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				zap.L().Warn("ws write error", zap.String("user_id", c.userID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) dispatch(raw []byte) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		c.replyError(errorx.New(errorx.CodeInvalidParam, "Malformed event"))
		return
	}

	switch ev.Event {
	case constants.EventSendMessage:
		var payload SendMessagePayload
		if len(ev.Data) == 0 || json.Unmarshal(ev.Data, &payload) != nil {
			c.replyError(errorx.New(errorx.CodeInvalidParam, "Malformed sendMessage payload"))
			return
		}
		if err := c.gateway.inbound.HandleSendMessage(context.Background(), c.userID, payload); err != nil {
			c.replyError(err)
		}
	default:
		c.replyError(errorx.Newf(errorx.CodeInvalidParam, "Unknown event %q", ev.Event))
	}
}

// replyError 错误只回给当前连接，内部错误不透出细节
func (c *Client) replyError(err error) {
	msg := errorx.ErrServerBusy.Msg
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) && !errorx.IsInternal(codeErr.Code) {
		msg = codeErr.Msg
	} else {
		zap.L().Error("ws inbound failed", zap.String("user_id", c.userID), zap.Error(err))
	}
	ev, _ := NewEvent("", constants.EventError, map[string]string{"message": msg})
	c.gateway.hub.sendTo(c, ev)
}
