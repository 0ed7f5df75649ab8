package model

import (
	"github.com/palemoky/math-battle/internal/game/session"
)

// Backend 执行玩家操作。本地模式直接调用 session，远程模式把操作发给服务器，
// 两者都通过 eventQueue 把事件和状态送回界面
type Backend interface {
	Start(names []string) error
	Flip(index int) error
	AdjustScore(seat, delta int) error
	ChooseTarget(seat int) error
	SkipTimer() error
	ConfirmLastCard() error
	Reset() error
	Close()
}

// localBackend 同一台终端上的热座游戏
type localBackend struct {
	*session.Session
}

func (b localBackend) Reset() error {
	b.Session.Reset()
	return nil
}
