package room

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
)

// generateRoomCode 生成房间号。Must hold mu.
func (rm *RoomManager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := rm.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// cleanupLoop 定期清理超时房间
func (rm *RoomManager) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rm.cleanup(time.Now())
		case <-rm.done:
			return
		}
	}
}

// cleanup 清理超时房间。快照保留在 Redis 中直到过期，期间仍可恢复
func (rm *RoomManager) cleanup(now time.Time) {
	rm.mu.Lock()
	var idle []*Room
	for code, room := range rm.rooms {
		if now.Sub(room.LastActive()) > rm.roomTimeout {
			idle = append(idle, room)
			delete(rm.rooms, code)
		}
	}
	rm.mu.Unlock()

	for _, room := range idle {
		room.Session.Close()
		if c := room.Client(); c != nil {
			// 通知客户端房间已关闭
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRoomNotFound, "Room closed after inactivity"))
			c.SetRoom("")
		}
		log.Printf("🧹 房间 %s 超时已清理", room.Code)
	}
}
