package room

import (
	"sync"
	"time"

	"github.com/palemoky/math-battle/internal/game/session"
	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/types"
)

const (
	roomCodeLength = 6            // 房间号长度
	roomCodeChars  = "0123456789" // 房间号字符集
)

// Room 游戏房间，一个房间对应一块共享屏幕上的一局游戏
type Room struct {
	Code      string           // 房间号
	Session   *session.Session // 游戏会话
	CreatedAt time.Time        // 创建时间

	client     types.ClientInterface // 驱动该房间的客户端，断线时为 nil
	lastActive time.Time

	mu sync.RWMutex
}

// Client 获取当前绑定的客户端
func (r *Room) Client() types.ClientInterface {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// Send 发送消息给绑定的客户端，没有客户端时丢弃
func (r *Room) Send(msg *protocol.Message) {
	if c := r.Client(); c != nil {
		c.SendMessage(msg)
	}
}

// Touch 刷新活跃时间
func (r *Room) Touch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = time.Now()
}

// LastActive 获取最后活跃时间
func (r *Room) LastActive() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastActive
}

// bind 绑定客户端，返回被替换的旧客户端
func (r *Room) bind(client types.ClientInterface) types.ClientInterface {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.client
	r.client = client
	r.lastActive = time.Now()
	return old
}

// unbind 在 client 仍是当前客户端时解除绑定
func (r *Room) unbind(client types.ClientInterface) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil || r.client.GetID() != client.GetID() {
		return false
	}
	r.client = nil
	return true
}
