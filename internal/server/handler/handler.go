package handler

import (
	"errors"
	"log"

	"github.com/palemoky/math-battle/internal/apperrors"
	"github.com/palemoky/math-battle/internal/game/room"
	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
	"github.com/palemoky/math-battle/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	RoomManager *room.RoomManager
}

// Handler 消息处理器
type Handler struct {
	roomManager *room.RoomManager
	handlers    map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		roomManager: deps.RoomManager,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing: h.handlePing,

		// 房间操作
		protocol.MsgCreateRoom: func(c types.ClientInterface, _ *protocol.Message) { h.handleCreateRoom(c) },
		protocol.MsgResumeRoom: h.handleResumeRoom,

		// 游戏操作
		protocol.MsgStartGame:       h.handleStartGame,
		protocol.MsgFlipCard:        h.handleFlipCard,
		protocol.MsgAdjustScore:     h.handleAdjustScore,
		protocol.MsgChooseTarget:    h.handleChooseTarget,
		protocol.MsgSkipTimer:       func(c types.ClientInterface, _ *protocol.Message) { h.handleSkipTimer(c) },
		protocol.MsgConfirmLastCard: func(c types.ClientInterface, _ *protocol.Message) { h.handleConfirmLastCard(c) },
		protocol.MsgResetGame:       func(c types.ClientInterface, _ *protocol.Message) { h.handleResetGame(c) },
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	log.Printf("⚠️  未知消息类型: '%s' (客户端: %s)", msg.Type, client.GetID())
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// sendError 把错误映射为协议错误码发回客户端
func sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewErrorMessage(gameErr.Code))
		return
	}
	client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}
