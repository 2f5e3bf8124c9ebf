package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/pkg/logger"
	"debate_backend/pkg/monitoring"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	voteChannel    = "debate:votes"
	liveTypeVote   = "VOTE"
	clientSendSize = 64
)

// LiveMessage 推送给客户端的消息
type LiveMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type liveClient struct {
	hub  *VoteHub
	conn *websocket.Conn
	send chan []byte
}

// readPump 客户端只读，读循环仅用于处理 pong 和检测断开
func (c *liveClient) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("Live connection closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// VoteHub 向所有实时连接广播投票结果；配置了 Redis 时经 pub/sub 在多实例间转发
type VoteHub struct {
	Redis *redis.Client

	upgrader   websocket.Upgrader
	register   chan *liveClient
	unregister chan *liveClient
	broadcast  chan []byte
	done       chan struct{}
	stopOnce   sync.Once

	mu      sync.RWMutex
	clients map[*liveClient]struct{}
}

// NewVoteHub allowOrigin 为空 Origin 之外的浏览器连接做白名单校验
func NewVoteHub(rdb *redis.Client, allowOrigin func(origin string) bool) *VoteHub {
	h := &VoteHub{
		Redis:      rdb,
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		clients:    make(map[*liveClient]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowOrigin == nil || allowOrigin(origin)
		},
	}
	return h
}

// Run 阻塞直到 ctx 结束，结束时关闭全部连接
func (h *VoteHub) Run(ctx context.Context) {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(ctx, voteChannel)
		defer pubsub.Close()
		go func() {
			for msg := range pubsub.Channel() {
				h.enqueue([]byte(msg.Payload))
			}
		}()
	}

	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			monitoring.LiveConnections.Inc()
		case c := <-h.unregister:
			h.remove(c)
		case payload := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// 慢客户端丢弃本条
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *VoteHub) remove(c *liveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		monitoring.LiveConnections.Dec()
	}
}

func (h *VoteHub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		n := len(h.clients)
		for c := range h.clients {
			close(c.send)
			delete(h.clients, c)
		}
		h.mu.Unlock()
		monitoring.LiveConnections.Sub(float64(n))
		logger.Log.Info("Vote hub stopped", zap.Int("closedConnections", n))
	})
}

func (h *VoteHub) leave(c *liveClient) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *VoteHub) enqueue(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		logger.Log.Warn("Live broadcast queue full, dropping message")
	}
}

// Clients 当前实例上的连接数
func (h *VoteHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishVote nil 安全；Redis 发布失败时退回本地广播
func (h *VoteHub) PublishVote(ctx context.Context, event model.VoteEvent) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(LiveMessage{Type: liveTypeVote, Data: event})
	if err != nil {
		return
	}
	if h.Redis != nil {
		err := h.Redis.Publish(ctx, voteChannel, payload).Err()
		if err == nil {
			monitoring.LiveMessages.WithLabelValues(liveTypeVote, "redis").Inc()
			return
		}
		logger.Log.Warn("Vote publish failed, broadcasting locally", zap.Error(err))
	}
	monitoring.LiveMessages.WithLabelValues(liveTypeVote, "local").Inc()
	h.enqueue(payload)
}

// ServeWS 升级连接并注册到 hub
func (h *VoteHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	c := &liveClient{hub: h, conn: conn, send: make(chan []byte, clientSendSize)}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
