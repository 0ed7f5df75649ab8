// Package client is a WebSocket client for the Math Battle server. It keeps
// track of the room it drives and resumes it after a dropped connection.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBufferSize    = 256
	receiveBufferSize = 256

	// 重连参数
	defaultReconnectInterval    = 2 * time.Second
	defaultMaxReconnectAttempts = 5
	maxReconnectBackoff         = 30 * time.Second
)

var (
	ErrClosed      = errors.New("connection closed")
	ErrBufferFull  = errors.New("send buffer full")
	ErrTimeout     = errors.New("receive timeout")
	errNotAttached = errors.New("not connected")
)

// Option configures a Client.
type Option func(*Client)

// WithReconnect sets the first retry delay and the number of attempts made
// after the connection drops. Zero attempts disables reconnecting.
func WithReconnect(interval time.Duration, attempts int) Option {
	return func(c *Client) {
		c.reconnectInterval = interval
		c.maxReconnectAttempts = attempts
	}
}

// Client WebSocket 客户端
type Client struct {
	ServerURL string
	dialer    websocket.Dialer

	// 回调，在读协程中调用
	OnMessage       func(*protocol.Message)
	OnError         func(error)
	OnClose         func()
	OnReconnecting  func(attempt, maxAttempts int)
	OnReconnect     func()
	OnLatencyUpdate func(int64)

	send    chan []byte
	receive chan *protocol.Message
	done    chan struct{}

	reconnectInterval    time.Duration
	maxReconnectAttempts int
	reconnecting         atomic.Bool
	latency              atomic.Int64 // 毫秒

	mu       sync.RWMutex
	conn     *websocket.Conn
	clientID string
	roomCode string
	closed   bool
}

// NewClient 创建客户端
func NewClient(serverURL string, opts ...Option) *Client {
	c := &Client{
		ServerURL:            serverURL,
		dialer:               websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		send:                 make(chan []byte, sendBufferSize),
		receive:              make(chan *protocol.Message, receiveBufferSize),
		done:                 make(chan struct{}),
		reconnectInterval:    defaultReconnectInterval,
		maxReconnectAttempts: defaultMaxReconnectAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect 连接服务器
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.ServerURL, err)
	}
	return c.attach(conn)
}

// attach starts the pumps for conn.
func (c *Client) attach(conn *websocket.Conn) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.mu.Unlock()

	stop := make(chan struct{})
	go c.readPump(conn, stop)
	go c.writePump(conn, stop)
	return nil
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	data, err := codec.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	if c.conn == nil {
		return errNotAttached
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// Receive 接收消息，阻塞到有消息或 ctx 结束
func (c *Client) Receive(ctx context.Context) (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrClosed
	}
}

// ReceiveWithTimeout 带超时接收消息
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-time.After(timeout):
		return nil, ErrTimeout
	case <-c.done:
		return nil, ErrClosed
	}
}

// Close 关闭连接，不再重连
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()

	if c.OnClose != nil {
		c.OnClose()
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}

// IsReconnecting 是否正在重连
func (c *Client) IsReconnecting() bool {
	return c.reconnecting.Load()
}

// ClientID returns the id the server assigned to the current connection.
func (c *Client) ClientID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

// RoomCode returns the code of the room this client drives, if any.
func (c *Client) RoomCode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

// Latency 最近一次心跳的往返延迟（毫秒）
func (c *Client) Latency() int64 {
	return c.latency.Load()
}
