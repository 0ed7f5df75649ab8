package client

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/math-battle/internal/logger"
	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
)

// readPump 从服务器读取消息，连接断开后尝试恢复房间
func (c *Client) readPump(conn *websocket.Conn, stop chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] readPump panic recovered: %v", r)
		}
		close(stop)
		_ = conn.Close()

		if c.shouldReconnect() {
			go c.tryReconnect()
		} else {
			c.Close()
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && c.OnError != nil {
				c.OnError(err)
			}
			return
		}

		msg, err := codec.Decode(data)
		if err != nil {
			log.Printf("消息解析错误: %v", err)
			continue
		}

		resumed := c.track(msg)

		if c.OnMessage != nil {
			c.OnMessage(msg)
		}
		select {
		case c.receive <- msg:
		default:
		}

		// 消息进入 channel 之后再通知重连成功
		if resumed && c.OnReconnect != nil {
			c.OnReconnect()
		}
	}
}

// track records connection and room state carried by msg. It reports
// whether msg completed a resume.
func (c *Client) track(msg *protocol.Message) bool {
	switch msg.Type {
	case protocol.MsgConnected:
		if p, err := codec.ParsePayload[protocol.ConnectedPayload](msg); err == nil {
			c.mu.Lock()
			c.clientID = p.ClientID
			c.mu.Unlock()
		}

	case protocol.MsgRoomCreated:
		if p, err := codec.ParsePayload[protocol.RoomCreatedPayload](msg); err == nil {
			c.setRoom(p.RoomCode)
		}

	case protocol.MsgRoomResumed:
		if p, err := codec.ParsePayload[protocol.RoomResumedPayload](msg); err == nil {
			c.setRoom(p.RoomCode)
			return true
		}

	case protocol.MsgPong:
		if p, err := codec.ParsePayload[protocol.PongPayload](msg); err == nil {
			latency := time.Now().UnixMilli() - p.ClientTimestamp
			c.latency.Store(latency)
			if c.OnLatencyUpdate != nil {
				c.OnLatencyUpdate(latency)
			}
		}

	case protocol.MsgError:
		// 房间已经不存在，不再尝试恢复
		if p, err := codec.ParsePayload[protocol.ErrorPayload](msg); err == nil && p.Code == protocol.ErrCodeRoomNotFound {
			c.setRoom("")
		}
	}
	return false
}

func (c *Client) setRoom(code string) {
	c.mu.Lock()
	c.roomCode = code
	c.mu.Unlock()
}

// writePump 向服务器写入消息
func (c *Client) writePump(conn *websocket.Conn, stop chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] writePump panic recovered: %v", r)
		}
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-stop:
			return
		case <-c.done:
			return
		}
	}
}
