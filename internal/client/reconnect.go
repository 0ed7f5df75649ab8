package client

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/math-battle/internal/logger"
	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
)

// shouldReconnect claims the reconnect loop when the client drives a room
// and was not closed on purpose.
func (c *Client) shouldReconnect() bool {
	c.mu.RLock()
	ok := !c.closed && c.roomCode != "" && c.maxReconnectAttempts > 0
	c.mu.RUnlock()
	return ok && c.reconnecting.CompareAndSwap(false, true)
}

// tryReconnect 尝试重连，成功后立即发送恢复房间请求
func (c *Client) tryReconnect() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] tryReconnect panic recovered: %v", r)
			c.reconnecting.Store(false)
		}
	}()

	// 指数退避
	backoff := c.reconnectInterval

	for attempt := 1; attempt <= c.maxReconnectAttempts; attempt++ {
		if c.OnReconnecting != nil {
			c.OnReconnecting(attempt, c.maxReconnectAttempts)
		}

		select {
		case <-time.After(backoff):
		case <-c.done:
			c.reconnecting.Store(false)
			return
		}
		backoff = min(backoff*2, maxReconnectBackoff)

		conn, err := c.redial()
		if err != nil {
			logger.LogError("重连失败 (%d/%d): %v", attempt, c.maxReconnectAttempts, err)
			continue
		}

		c.reconnecting.Store(false)
		_ = c.attach(conn)
		return
	}

	log.Printf("❌ 重连失败，已达最大尝试次数")
	c.reconnecting.Store(false)
	c.Close()
}

// redial opens a new connection and writes the resume request before any
// queued message can go out.
func (c *Client) redial() (*websocket.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.dialer.HandshakeTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.ServerURL, nil)
	if err != nil {
		return nil, err
	}

	data, err := codec.Encode(codec.MustNewMessage(protocol.MsgResumeRoom, protocol.ResumeRoomPayload{
		RoomCode: c.RoomCode(),
	}))
	if err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
