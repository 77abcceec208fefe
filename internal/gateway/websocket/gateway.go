package websocket

import (
	"context"
	"net/http"

	"parkhya_chat_server/pkg/constants"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Gateway 负责握手并把连接挂到 Hub 上
type Gateway struct {
	hub      *Hub
	presence PresenceTracker
	inbound  InboundHandler
	upgrader websocket.Upgrader
}

// NewGateway allowedOrigins 含 "*" 时不校验 Origin
func NewGateway(hub *Hub, presence PresenceTracker, inbound InboundHandler, allowedOrigins []string) *Gateway {
	g := &Gateway{hub: hub, presence: presence, inbound: inbound}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return g
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// 非浏览器客户端
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Serve 升级连接；userID 来自握手参数，为空时不参与在线状态
func (g *Gateway) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已经写过错误响应
		return err
	}

	c := &Client{
		gateway: g,
		conn:    conn,
		userID:  userID,
		send:    make(chan []byte, constants.CHANNEL_SIZE),
	}
	if !g.hub.register(c) {
		_ = conn.Close()
		return nil
	}
	zap.L().Info("ws connected", zap.String("user_id", userID), zap.String("remote", r.RemoteAddr))

	if userID != "" && g.presence != nil {
		g.presence.Connect(context.Background(), userID)
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// Close 停止接收新连接并断开全部现有连接
// 被断开的连接在这里补发下线，读协程随后退出时不会重复处理
func (g *Gateway) Close(ctx context.Context) {
	for _, c := range g.hub.drain() {
		if c.userID != "" && g.presence != nil {
			g.presence.Disconnect(ctx, c.userID)
		}
	}
}

func (g *Gateway) disconnect(c *Client) {
	removed := g.hub.unregister(c)
	_ = c.conn.Close()
	if !removed {
		// Hub 关闭时已经移除
		return
	}
	zap.L().Info("ws disconnected", zap.String("user_id", c.userID))

	if c.userID != "" && g.presence != nil {
		g.presence.Disconnect(context.Background(), c.userID)
	}
}
