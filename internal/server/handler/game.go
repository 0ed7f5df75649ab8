package handler

import (
	"strings"
	"unicode/utf8"

	"github.com/palemoky/math-battle/internal/game/room"
	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
	"github.com/palemoky/math-battle/internal/types"
)

const (
	maxNameLength  = 16 // 名字最多字符数
	maxScoreChange = 10 // 单次手动加减分上限
)

// handleStartGame 处理开始游戏
func (h *Handler) handleStartGame(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.StartGamePayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	names := make([]string, len(payload.Names))
	for i, name := range payload.Names {
		names[i] = normalizeName(name)
	}

	h.withRoom(client, func(r *room.Room) error {
		return r.Session.Start(names)
	})
}

// handleFlipCard 处理翻牌
func (h *Handler) handleFlipCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.FlipCardPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.withRoom(client, func(r *room.Room) error {
		return r.Session.Flip(payload.Index)
	})
}

// handleAdjustScore 处理手动加减分
func (h *Handler) handleAdjustScore(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.AdjustScorePayload](msg)
	if err != nil || payload.Delta == 0 || payload.Delta > maxScoreChange || payload.Delta < -maxScoreChange {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.withRoom(client, func(r *room.Room) error {
		return r.Session.AdjustScore(payload.Player, payload.Delta)
	})
}

// handleChooseTarget 处理选择偷分/换分目标
func (h *Handler) handleChooseTarget(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ChooseTargetPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.withRoom(client, func(r *room.Room) error {
		return r.Session.ChooseTarget(payload.Player)
	})
}

// handleSkipTimer 处理跳过倒计时
func (h *Handler) handleSkipTimer(client types.ClientInterface) {
	h.withRoom(client, func(r *room.Room) error {
		return r.Session.SkipTimer()
	})
}

// handleConfirmLastCard 处理确认最后一张牌
func (h *Handler) handleConfirmLastCard(client types.ClientInterface) {
	h.withRoom(client, func(r *room.Room) error {
		return r.Session.ConfirmLastCard()
	})
}

// handleResetGame 处理重置游戏
func (h *Handler) handleResetGame(client types.ClientInterface) {
	h.withRoom(client, func(r *room.Room) error {
		r.Session.Reset()
		return nil
	})
}

// withRoom 找到客户端所在房间并执行操作，错误统一回给客户端
func (h *Handler) withRoom(client types.ClientInterface, op func(r *room.Room) error) {
	r, err := h.roomManager.RoomForClient(client)
	if err != nil {
		sendError(client, err)
		return
	}
	if err := op(r); err != nil {
		sendError(client, err)
	}
}

// normalizeName 去掉首尾空白并截断过长的名字
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= maxNameLength {
		return name
	}
	return string([]rune(name)[:maxNameLength])
}
