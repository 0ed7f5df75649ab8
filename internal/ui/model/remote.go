package model

import (
	"context"
	"sync"
	"time"

	"github.com/palemoky/math-battle/internal/apperrors"
	"github.com/palemoky/math-battle/internal/client"
	"github.com/palemoky/math-battle/internal/game"
	"github.com/palemoky/math-battle/internal/logger"
	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
	"github.com/palemoky/math-battle/internal/protocol/convert"
)

const heartbeatInterval = 30 * time.Second

// remoteBackend 驱动服务器上的房间。服务器对每次状态变化先发若干 event，
// 再发一条 game_state，两者合并成一个 Batch
type remoteBackend struct {
	*client.Client
	queue *eventQueue

	mu      sync.Mutex
	pending []game.Event
}

func newRemoteBackend(c *client.Client, queue *eventQueue) *remoteBackend {
	r := &remoteBackend{Client: c, queue: queue}
	c.OnMessage = r.handle
	c.OnError = func(err error) {
		logger.LogError("连接错误: %v", err)
	}
	c.OnReconnecting = func(attempt, maxAttempts int) {
		logger.LogInfo("Reconnecting (%d/%d)", attempt, maxAttempts)
	}
	c.OnReconnect = func() {
		logger.LogInfo("Reconnected to %s", c.ServerURL)
	}
	c.OnClose = func() {
		queue.pushError(client.ErrClosed)
	}
	return r
}

func (r *remoteBackend) Start(names []string) error { return r.StartGame(names) }

func (r *remoteBackend) Flip(index int) error { return r.FlipCard(index) }

func (r *remoteBackend) Reset() error { return r.ResetGame() }

// handle runs on the client read goroutine.
func (r *remoteBackend) handle(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgEvent:
		p, err := codec.ParsePayload[protocol.EventPayload](msg)
		if err != nil {
			logger.LogError("事件解析错误: %v", err)
			return
		}
		r.mu.Lock()
		r.pending = append(r.pending, convert.PayloadToEvent(*p))
		r.mu.Unlock()

	case protocol.MsgGameState:
		p, err := codec.ParsePayload[protocol.GameStateDTO](msg)
		if err != nil {
			logger.LogError("状态解析错误: %v", err)
			return
		}
		r.flush(convert.DTOToState(*p))

	case protocol.MsgRoomResumed:
		p, err := codec.ParsePayload[protocol.RoomResumedPayload](msg)
		if err != nil {
			logger.LogError("状态解析错误: %v", err)
			return
		}
		logger.LogInfo("Room %s resumed", p.RoomCode)
		r.flush(convert.DTOToState(p.State))

	case protocol.MsgRoomCreated:
		if p, err := codec.ParsePayload[protocol.RoomCreatedPayload](msg); err == nil {
			logger.LogInfo("Room %s created", p.RoomCode)
		}

	case protocol.MsgError:
		p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			logger.LogError("错误消息解析失败: %v", err)
			return
		}
		r.queue.pushError(&apperrors.GameError{Code: p.Code, Message: p.Message})
		// 房间已过期，换一个新房间继续
		if p.Code == protocol.ErrCodeRoomNotFound {
			_ = r.CreateRoom()
		}
	}
}

// flush delivers the events collected since the last state.
func (r *remoteBackend) flush(st game.State) {
	r.mu.Lock()
	events := r.pending
	r.pending = nil
	r.mu.Unlock()

	r.queue.push(events, st)
}

// NewRemote creates an app that drives a room on the server at serverURL.
// An empty room creates a new one, otherwise the room is resumed.
func NewRemote(ctx context.Context, serverURL, room string, opts ...Option) (*App, error) {
	m := newApp(opts...)

	c := client.NewClient(serverURL)
	r := newRemoteBackend(c, m.queue)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	var err error
	if room != "" {
		err = c.ResumeRoom(room)
	} else {
		err = c.CreateRoom()
	}
	if err != nil {
		c.Close()
		return nil, err
	}

	c.StartHeartbeat(heartbeatInterval)
	m.backend = r
	return m, nil
}
