package client

import (
	"time"

	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
)

// --- 便捷方法 ---

// CreateRoom 创建房间
func (c *Client) CreateRoom() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgCreateRoom, nil))
}

// ResumeRoom 恢复房间
func (c *Client) ResumeRoom(code string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgResumeRoom, protocol.ResumeRoomPayload{
		RoomCode: code,
	}))
}

// StartGame 开始游戏
func (c *Client) StartGame(names []string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{
		Names: names,
	}))
}

// FlipCard 翻牌
func (c *Client) FlipCard(index int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgFlipCard, protocol.FlipCardPayload{
		Index: index,
	}))
}

// AdjustScore 手动加减分
func (c *Client) AdjustScore(seat, delta int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgAdjustScore, protocol.AdjustScorePayload{
		Player: seat,
		Delta:  delta,
	}))
}

// ChooseTarget 选择偷分或换分目标
func (c *Client) ChooseTarget(seat int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgChooseTarget, protocol.ChooseTargetPayload{
		Player: seat,
	}))
}

// SkipTimer 跳过倒计时
func (c *Client) SkipTimer() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgSkipTimer, nil))
}

// ConfirmLastCard 确认最后一张牌
func (c *Client) ConfirmLastCard() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgConfirmLastCard, nil))
}

// ResetGame 重置游戏
func (c *Client) ResetGame() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgResetGame, nil))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}

// StartHeartbeat 定时发送心跳，直到客户端关闭
func (c *Client) StartHeartbeat(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if c.IsConnected() && !c.IsReconnecting() {
					_ = c.Ping()
				}
			case <-c.done:
				return
			}
		}
	}()
}
