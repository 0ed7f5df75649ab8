package handler

import (
	"context"
	"time"

	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
	"github.com/palemoky/math-battle/internal/protocol/convert"
	"github.com/palemoky/math-battle/internal/types"
)

// 从 Redis 恢复房间的超时
const resumeTimeout = 3 * time.Second

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface) {
	room, err := h.roomManager.CreateRoom(client)
	if err != nil {
		sendError(client, err)
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: room.Code,
	}))
	client.SendMessage(codec.MustNewMessage(protocol.MsgGameState, convert.StateToDTO(room.Session.Snapshot())))
}

// handleResumeRoom 处理恢复房间，刷新页面后用房间号重新接管
func (h *Handler) handleResumeRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ResumeRoomPayload](msg)
	if err != nil || payload.RoomCode == "" {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), resumeTimeout)
	defer cancel()

	room, err := h.roomManager.ResumeRoom(ctx, payload.RoomCode, client)
	if err != nil {
		sendError(client, err)
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomResumed, protocol.RoomResumedPayload{
		RoomCode: room.Code,
		State:    convert.StateToDTO(room.Session.Snapshot()),
	}))
}
