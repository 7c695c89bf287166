package entities

type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting" // 等待玩家加入房间
	RoomStatusPlaying RoomStatus = "playing"
	RoomStatusEnd     RoomStatus = "end"
	RoomStatusHalted  RoomStatus = "halted" // 引擎检测到状态异常，房间冻结
)

type RoomInfo struct {
	RoomID     string     `json:"roomID"`
	GameStatus RoomStatus `json:"gameStatus"`
	MaxPlayers int        `json:"maxPlayers"`
	UserID     string     `json:"userID"` // 房主
	AIPlayers  int        `json:"aiPlayers"`
	CreatedAt  int64      `json:"createdAt"`
}
