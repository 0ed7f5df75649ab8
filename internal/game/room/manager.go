package room

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/palemoky/math-battle/internal/apperrors"
	"github.com/palemoky/math-battle/internal/game"
	"github.com/palemoky/math-battle/internal/game/session"
	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
	"github.com/palemoky/math-battle/internal/protocol/convert"
	"github.com/palemoky/math-battle/internal/server/storage"
	"github.com/palemoky/math-battle/internal/types"
)

// 快照写入超时
const storeTimeout = 2 * time.Second

// RoomManager 房间管理器
type RoomManager struct {
	store       types.RoomStore
	roomTimeout time.Duration
	sessionOpts []session.Option
	rooms       map[string]*Room
	mu          sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
}

// NewRoomManager 创建房间管理器，store 为 nil 时不做持久化
func NewRoomManager(store types.RoomStore, roomTimeout time.Duration, opts ...session.Option) *RoomManager {
	if store == nil {
		store = storage.NewRedisStore(nil)
	}
	rm := &RoomManager{
		store:       store,
		roomTimeout: roomTimeout,
		sessionOpts: opts,
		rooms:       make(map[string]*Room),
		done:        make(chan struct{}),
	}

	// 启动房间清理协程
	go rm.cleanupLoop(time.Minute)

	return rm
}

// CreateRoom 创建房间
func (rm *RoomManager) CreateRoom(client types.ClientInterface) (*Room, error) {
	rm.DetachClient(client)

	rm.mu.Lock()
	code := rm.generateRoomCode()
	room := rm.newRoom(code)
	rm.rooms[code] = room
	rm.mu.Unlock()

	room.bind(client)
	client.SetRoom(code)

	// 保存到 Redis，开局前也能恢复
	rm.persist(code, nil, room.Session.Snapshot())

	log.Printf("🏠 房间 %s 已创建，客户端 %s", code, client.GetID())

	return room, nil
}

// ResumeRoom 将客户端重新绑定到房间，内存中没有时从 Redis 恢复
func (rm *RoomManager) ResumeRoom(ctx context.Context, code string, client types.ClientInterface) (*Room, error) {
	room := rm.GetRoom(code)
	if room == nil {
		snap, err := rm.store.LoadRoom(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("load room %s: %w", code, err)
		}
		if snap == nil {
			return nil, apperrors.ErrRoomNotFound
		}

		rm.mu.Lock()
		if room = rm.rooms[code]; room == nil {
			room = rm.newRoom(code)
			room.Session.Restore(snap.State)
			rm.rooms[code] = room
			log.Printf("♻️ 房间 %s 已从快照恢复 (保存于 %s)", code, snap.SavedAt.Format(time.RFC3339))
		}
		rm.mu.Unlock()
	}

	if client.GetRoom() != code {
		rm.DetachClient(client)
	}
	if old := room.bind(client); old != nil && old.GetID() != client.GetID() {
		old.SetRoom("")
		old.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeNotInRoom, "This room was opened on another screen"))
	}
	client.SetRoom(code)

	log.Printf("📶 客户端 %s 恢复房间 %s", client.GetID(), code)

	return room, nil
}

// RoomForClient 获取客户端所在的房间
func (rm *RoomManager) RoomForClient(client types.ClientInterface) (*Room, error) {
	code := client.GetRoom()
	if code == "" {
		return nil, apperrors.ErrNotInRoom
	}
	room := rm.GetRoom(code)
	if room == nil {
		return nil, apperrors.ErrRoomNotFound
	}
	return room, nil
}

// DetachClient 客户端断开或换房间时解除绑定，房间继续保留等待恢复
func (rm *RoomManager) DetachClient(client types.ClientInterface) {
	code := client.GetRoom()
	if code == "" {
		return
	}
	client.SetRoom("")

	if room := rm.GetRoom(code); room != nil && room.unbind(client) {
		log.Printf("📴 客户端 %s 离开房间 %s", client.GetID(), code)
	}
}

// CloseRoom 关闭房间并删除快照
func (rm *RoomManager) CloseRoom(code string) {
	rm.mu.Lock()
	room, exists := rm.rooms[code]
	delete(rm.rooms, code)
	rm.mu.Unlock()
	if !exists {
		return
	}

	room.Session.Close()
	if c := room.Client(); c != nil {
		c.SetRoom("")
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := rm.store.DeleteRoom(ctx, code); err != nil {
		log.Printf("⚠️ 删除房间 %s 快照失败: %v", code, err)
	}

	log.Printf("🏠 房间 %s 已关闭", code)
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// ActiveRoomCount 获取内存中的房间数量
func (rm *RoomManager) ActiveRoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// ActiveGamesCount 获取进行中的游戏数量
func (rm *RoomManager) ActiveGamesCount() int {
	rm.mu.RLock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	rm.mu.RUnlock()

	count := 0
	for _, room := range rooms {
		switch room.Session.Snapshot().Phase() {
		case game.PhaseSetup, game.PhaseGameOver:
		default:
			count++
		}
	}
	return count
}

// Close 停止清理协程并关闭所有会话
func (rm *RoomManager) Close() {
	rm.closeOnce.Do(func() {
		close(rm.done)

		rm.mu.Lock()
		defer rm.mu.Unlock()
		for _, room := range rm.rooms {
			room.Session.Close()
		}
	})
}

// newRoom 创建房间及其会话
func (rm *RoomManager) newRoom(code string) *Room {
	now := time.Now()
	room := &Room{
		Code:       code,
		CreatedAt:  now,
		lastActive: now,
	}
	opts := append(slices.Clone(rm.sessionOpts), session.WithListener(rm.listener(room)))
	room.Session = session.New(opts...)
	return room
}

// listener 将会话事件转发给客户端，并保存快照
func (rm *RoomManager) listener(room *Room) session.Listener {
	return func(events []game.Event, st game.State) {
		for _, e := range events {
			room.Send(codec.MustNewMessage(protocol.MsgEvent, convert.EventToPayload(e, st.Players)))
		}
		room.Send(codec.MustNewMessage(protocol.MsgGameState, convert.StateToDTO(st)))

		if !onlyTicks(events) {
			room.Touch()
		}
		rm.persist(room.Code, events, st)
	}
}

// persist 保存或删除房间快照。重置后删除，房间回到开局设置
func (rm *RoomManager) persist(code string, events []game.Event, st game.State) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if slices.ContainsFunc(events, func(e game.Event) bool { return e.Kind == game.EventReset }) {
		if err := rm.store.DeleteRoom(ctx, code); err != nil {
			log.Printf("⚠️ 删除房间 %s 快照失败: %v", code, err)
		}
		return
	}

	snap := codec.Snapshot{RoomCode: code, SavedAt: time.Now(), State: st}
	if err := rm.store.SaveRoom(ctx, snap); err != nil {
		log.Printf("⚠️ 保存房间 %s 快照失败: %v", code, err)
	}
}

func onlyTicks(events []game.Event) bool {
	for _, e := range events {
		if e.Kind != game.EventTimerTick {
			return false
		}
	}
	return true
}
