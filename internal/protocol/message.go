package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 房间操作
	MsgCreateRoom MessageType = "create_room" // 创建房间
	MsgResumeRoom MessageType = "resume_room" // 恢复房间（刷新页面后）

	// 游戏操作
	MsgStartGame       MessageType = "start_game"        // 开始游戏
	MsgFlipCard        MessageType = "flip_card"         // 翻牌
	MsgAdjustScore     MessageType = "adjust_score"      // 手动加减分
	MsgChooseTarget    MessageType = "choose_target"     // 选择偷分/换分目标
	MsgSkipTimer       MessageType = "skip_timer"        // 跳过倒计时
	MsgConfirmLastCard MessageType = "confirm_last_card" // 确认最后一张牌
	MsgResetGame       MessageType = "reset_game"        // 重置游戏
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 房间相关
	MsgRoomCreated MessageType = "room_created" // 房间创建成功
	MsgRoomResumed MessageType = "room_resumed" // 房间恢复成功

	// 游戏流程
	MsgGameState MessageType = "game_state" // 完整游戏状态
	MsgEvent     MessageType = "event"      // 游戏事件（音效、提示）

	// 错误
	MsgError MessageType = "error" // 错误消息
)
