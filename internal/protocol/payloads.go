package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// ResumeRoomPayload 恢复房间请求
type ResumeRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// StartGamePayload 开始游戏请求，按座位顺序给出名字
type StartGamePayload struct {
	Names []string `json:"names"`
}

// FlipCardPayload 翻牌请求
type FlipCardPayload struct {
	Index int `json:"index"`
}

// AdjustScorePayload 手动加减分请求
type AdjustScorePayload struct {
	Player int `json:"player"` // 座位号
	Delta  int `json:"delta"`
}

// ChooseTargetPayload 选择目标请求
type ChooseTargetPayload struct {
	Player int `json:"player"` // 座位号
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ClientID string `json:"client_id"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
}

// RoomResumedPayload 房间恢复成功响应
type RoomResumedPayload struct {
	RoomCode string       `json:"room_code"`
	State    GameStateDTO `json:"state"`
}

// EventPayload 游戏事件通知
type EventPayload struct {
	Kind      string    `json:"kind"`
	Player    int       `json:"player"`          // 座位号，-1 表示无
	Target    int       `json:"target"`          // 座位号，-1 表示无
	Delta     int       `json:"delta,omitempty"` // 分数变化
	Score     int       `json:"score"`           // 变化后的分数
	Remaining int       `json:"remaining"`       // 倒计时剩余秒数
	Index     int       `json:"index"`           // 牌下标，-1 表示无
	Card      *CardInfo `json:"card,omitempty"`  // 翻开的牌
	Mode      string    `json:"mode,omitempty"`  // 等待目标时为 steal/swap
	Sound     string    `json:"sound,omitempty"` // flip/score/timeup
	Message   string    `json:"message"`         // 提示文本
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- 通用数据结构 ---

// GameStateDTO 游戏状态数据传输对象
type GameStateDTO struct {
	Phase           string       `json:"phase"`
	Players         []PlayerInfo `json:"players"`
	Cards           []CardInfo   `json:"cards"`    // 按牌桌位置，未翻开的只有 index
	Current         int          `json:"current"`  // 当前玩家座位号
	Revealed        []int        `json:"revealed"` // 按翻开顺序
	Mode            string       `json:"mode"`     // normal/steal/swap
	Timer           TimerInfo    `json:"timer"`
	GameOver        bool         `json:"game_over"`
	LastCardPending bool         `json:"last_card_pending"`
	Winners         []int        `json:"winners,omitempty"` // 游戏结束后的获胜座位
}

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Seat  int    `json:"seat"` // 座位号 0-2
	Score int    `json:"score"`
	Color string `json:"color"`
}

// CardInfo 牌信息
type CardInfo struct {
	Index       int    `json:"index"`
	Revealed    bool   `json:"revealed"`
	Type        string `json:"type,omitempty"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	TimeLimit   int    `json:"time_limit,omitempty"` // 秒
}

// TimerInfo 倒计时信息
type TimerInfo struct {
	Active    bool `json:"active"`
	Remaining int  `json:"remaining"`
}
