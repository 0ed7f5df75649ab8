package protocol

// 错误码
const (
	ErrCodeUnknown        = 1000
	ErrCodeInvalidMsg     = 1001
	ErrCodeRateLimit      = 1002 // 速率限制
	ErrCodeRoomNotFound   = 2001
	ErrCodeNotInRoom      = 2002
	ErrCodeInvalidPlayers = 3001 // 玩家人数不合法
	ErrCodeGameNotStarted = 3002
	ErrCodeInvalidCard    = 3003
	ErrCodeInvalidTarget  = 3004
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:        "Unknown error",
	ErrCodeInvalidMsg:     "Invalid message format",
	ErrCodeRateLimit:      "Too many requests",
	ErrCodeRoomNotFound:   "Room not found",
	ErrCodeNotInRoom:      "You are not in a room",
	ErrCodeInvalidPlayers: "A game needs 2 or 3 players",
	ErrCodeGameNotStarted: "The game has not started",
	ErrCodeInvalidCard:    "No such card",
	ErrCodeInvalidTarget:  "Pick another player",
}
