package dto

import (
	"go-splendor/engine"
	"go-splendor/entities"
	"go-splendor/utils"

	"github.com/gorilla/websocket"
)

type ConnInterface interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}
type RealConn struct {
	*websocket.Conn
}

func (r *RealConn) WriteMessage(messageType int, data []byte) error {
	return r.Conn.WriteMessage(messageType, data)
}

func (r *RealConn) Close() error {
	return r.Conn.Close()
}

// 玩家连接对象结构体
type PlayerConn struct {
	PlayerID string
	Conn     ConnInterface
	Online   bool
}

const (
	MsgTypeSync   = "sync"
	MsgTypeError  = "error"
	MsgTypeHalted = "halted"
)

// 同步消息中最多带最近多少条动作记录
const RecentLogSize = 10

// PublicGame 对客户端公开的局面。牌堆只给数量，别人盲压的预定卡只给等级
type PublicGame struct {
	Players        []engine.Player                `json:"players"`
	CurrentPlayer  string                         `json:"currentPlayer"`
	Actor          string                         `json:"actor"`
	Bank           entities.Tokens                `json:"bank"`
	Cards          [engine.Levels][]entities.Card `json:"cards"`
	DeckSizes      [engine.Levels]int             `json:"deckSizes"`
	Nobles         []entities.Noble               `json:"nobles"`
	Status         engine.Status                  `json:"status"`
	LastRound      bool                           `json:"lastRound"`
	Winner         string                         `json:"winner,omitempty"`
	Standings      []engine.Standing              `json:"standings,omitempty"`
	PendingDiscard *engine.PendingDiscard         `json:"pendingDiscard,omitempty"`
	Turn           int                            `json:"turn"`
	Seed           uint64                         `json:"seed"`
	RecentLog      []engine.LogEntry              `json:"recentLog"`
}

// NewPublicGame 按 viewer 的视角生成局面，viewer 为空表示旁观者
func NewPublicGame(s *engine.GameState, viewer string) *PublicGame {
	if s == nil {
		return nil
	}
	g := &PublicGame{
		Players:        maskPlayers(s.Players, viewer),
		CurrentPlayer:  s.CurrentPlayerID(),
		Actor:          s.ActorID(),
		Bank:           s.Bank,
		Cards:          s.Visible,
		Nobles:         s.Nobles,
		Status:         s.Status,
		LastRound:      s.LastRound,
		Winner:         s.Winner,
		Standings:      s.Standings,
		PendingDiscard: s.PendingDiscard,
		Turn:           s.Turn,
		Seed:           s.Seed,
		RecentLog:      maskLog(s, utils.Tail(s.Log, RecentLogSize), viewer),
	}
	for l := 0; l < engine.Levels; l++ {
		g.DeckSizes[l] = len(s.Decks[l])
	}
	return g
}

func maskPlayers(players []engine.Player, viewer string) []engine.Player {
	out := make([]engine.Player, len(players))
	for i, p := range players {
		out[i] = p
		if p.ID == viewer || len(p.Blind) == 0 {
			continue
		}
		out[i].Reserved = make([]entities.Card, len(p.Reserved))
		for j, c := range p.Reserved {
			if p.IsBlind(c.ID) {
				c = entities.Card{Level: c.Level}
			}
			out[i].Reserved[j] = c
		}
		out[i].Blind = nil
	}
	return out
}

// maskLog 盲压记录里的卡 id 只有本人能看到，卡被买下后公开
func maskLog(s *engine.GameState, log []engine.LogEntry, viewer string) []engine.LogEntry {
	out, copied := log, false
	for i, e := range log {
		if e.Type != engine.ActionReserve || e.PlayerID == viewer {
			continue
		}
		p, ok := s.Player(e.PlayerID)
		if !ok || !p.IsBlind(e.CardID) {
			continue
		}
		if !copied {
			out, copied = append([]engine.LogEntry(nil), log...), true
		}
		out[i].CardID = ""
	}
	return out
}

type RoomPlayer struct {
	PlayerID string `json:"playerID"`
	Online   bool   `json:"online"`
	AI       bool   `json:"ai"`
}

// SyncMessage 每次局面变化后发给每个玩家，LegalActions 只包含该玩家自己的动作
type SyncMessage struct {
	Type         string            `json:"type"`
	PlayerID     string            `json:"playerId"`
	Version      int               `json:"version"`
	RoomInfo     entities.RoomInfo `json:"roomInfo"`
	Players      []RoomPlayer      `json:"roomPlayers"`
	Game         *PublicGame       `json:"game"`
	LegalActions []engine.Action   `json:"legalActions"`
}

type ErrorMessage struct {
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message"`
}

// NewErrorMessage 引擎拒绝时带上分类和错误码
func NewErrorMessage(err error) ErrorMessage {
	msg := ErrorMessage{Type: MsgTypeError, Message: err.Error()}
	if r := engine.AsRejection(err); r != nil {
		msg.Category = string(r.Category)
		msg.Code = string(r.Code)
		msg.Message = r.Detail
	}
	return msg
}

type HaltedMessage struct {
	Type       string   `json:"type"`
	RoomID     string   `json:"roomID"`
	Violations []string `json:"violations"`
}
