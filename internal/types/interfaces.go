package types

import (
	"context"

	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
)

// ClientInterface 定义客户端接口（用于打破循环依赖）
type ClientInterface interface {
	GetID() string
	GetRoom() string
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}

// RoomStore 房间快照存储接口
type RoomStore interface {
	SaveRoom(ctx context.Context, snap codec.Snapshot) error
	LoadRoom(ctx context.Context, code string) (*codec.Snapshot, error)
	DeleteRoom(ctx context.Context, code string) error
}
