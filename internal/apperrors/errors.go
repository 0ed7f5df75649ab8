package apperrors

import (
	"github.com/palemoky/math-battle/internal/protocol"
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// New builds a GameError carrying the default text for code.
func New(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrRoomNotFound   = New(protocol.ErrCodeRoomNotFound)
	ErrNotInRoom      = New(protocol.ErrCodeNotInRoom)
	ErrInvalidPlayers = New(protocol.ErrCodeInvalidPlayers)
	ErrGameNotStarted = New(protocol.ErrCodeGameNotStarted)
	ErrInvalidCard    = New(protocol.ErrCodeInvalidCard)
	ErrInvalidTarget  = New(protocol.ErrCodeInvalidTarget)
)
