package engine

import (
	"go-splendor/catalog"
	"go-splendor/entities"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

const (
	TargetScore    = 15
	MaxTokens      = 10
	MaxReserved    = 3
	VisiblePerTier = 4
	Levels         = catalog.Levels
)

// Seat 开局时的座位，顺序即行动顺序
type Seat struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Player struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Tokens   entities.Tokens  `json:"tokens"`
	Cards    []entities.Card  `json:"cards"`
	Reserved []entities.Card  `json:"reserved"`
	Nobles   []entities.Noble `json:"nobles"`
	Score    int              `json:"score"`
	// Blind 从牌堆顶盲压的预定卡 id，其他玩家看不到牌面
	Blind []string `json:"blind,omitempty"`
}

func (p *Player) IsBlind(cardID string) bool {
	for _, id := range p.Blind {
		if id == cardID {
			return true
		}
	}
	return false
}

// Bonuses 已购卡牌提供的永久折扣
func (p *Player) Bonuses() entities.Tokens {
	b := entities.Tokens{}
	for _, c := range p.Cards {
		b[c.Bonus]++
	}
	return b
}

func (p *Player) TokenCount() int {
	return p.Tokens.Total()
}

func (p *Player) computeScore() int {
	score := 0
	for _, c := range p.Cards {
		score += c.Points
	}
	for _, n := range p.Nobles {
		score += n.Points
	}
	return score
}

func (p Player) clone() Player {
	p.Tokens = p.Tokens.Clone()
	p.Cards = cloneSlice(p.Cards)
	p.Reserved = cloneSlice(p.Reserved)
	p.Nobles = cloneSlice(p.Nobles)
	p.Blind = cloneSlice(p.Blind)
	return p
}

// PendingDiscard 回合结束时宝石超过上限，等待该玩家弃掉 Excess 枚
type PendingDiscard struct {
	PlayerID string `json:"playerId"`
	Excess   int    `json:"excessCount"`
}

type LogEntry struct {
	Seq      int             `json:"seq"`
	Turn     int             `json:"turn"`
	PlayerID string          `json:"playerId"`
	Type     ActionType      `json:"type"`
	CardID   string          `json:"cardId,omitempty"`
	Tokens   entities.Tokens `json:"tokens,omitempty"`
	Nobles   []string        `json:"nobles,omitempty"`
}

type Standing struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Cards    int    `json:"cards"`
}

// GameState 一局游戏的全部状态，只能通过 ApplyAction 产生新值
type GameState struct {
	Players       []Player                `json:"players"`
	CurrentPlayer int                     `json:"currentPlayer"`
	Bank          entities.Tokens         `json:"bank"`
	Visible       [Levels][]entities.Card `json:"visible"`
	Decks         [Levels][]entities.Card `json:"decks"`
	Nobles        []entities.Noble        `json:"nobles"`
	Status        Status                  `json:"status"`

	LastRound        bool `json:"lastRound"`
	LastRoundTrigger int  `json:"lastRoundTrigger"`
	FinalLapStart    int  `json:"finalLapStart"`

	Winner         string          `json:"winner,omitempty"`
	Standings      []Standing      `json:"standings,omitempty"`
	PendingDiscard *PendingDiscard `json:"pendingDiscard,omitempty"`

	Turn          int             `json:"turn"`
	Seed          uint64          `json:"seed"`
	InitialTokens entities.Tokens `json:"initialTokens"`
	Log           []LogEntry      `json:"log"`
}

func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.clone()
	}
	out.Bank = s.Bank.Clone()
	for i := 0; i < Levels; i++ {
		out.Visible[i] = cloneSlice(s.Visible[i])
		out.Decks[i] = cloneSlice(s.Decks[i])
	}
	out.Nobles = cloneSlice(s.Nobles)
	out.Standings = cloneSlice(s.Standings)
	if s.PendingDiscard != nil {
		pd := *s.PendingDiscard
		out.PendingDiscard = &pd
	}
	out.InitialTokens = s.InitialTokens.Clone()
	out.Log = cloneSlice(s.Log)
	return &out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func (s *GameState) PlayerIndex(playerID string) int {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (s *GameState) Player(playerID string) (*Player, bool) {
	i := s.PlayerIndex(playerID)
	if i < 0 {
		return nil, false
	}
	return &s.Players[i], true
}

func (s *GameState) CurrentPlayerID() string {
	if s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players) {
		return ""
	}
	return s.Players[s.CurrentPlayer].ID
}

// ActorID 下一个可以行动的玩家：有待弃宝石时为弃宝石的玩家
func (s *GameState) ActorID() string {
	if s.PendingDiscard != nil {
		return s.PendingDiscard.PlayerID
	}
	return s.CurrentPlayerID()
}

func (s *GameState) Seats() []Seat {
	seats := make([]Seat, len(s.Players))
	for i, p := range s.Players {
		seats[i] = Seat{ID: p.ID, Name: p.Name}
	}
	return seats
}

// findVisible 返回桌面卡牌位置，找不到时 level 为 -1
func (s *GameState) findVisible(cardID string) (level, slot int) {
	for l := 0; l < Levels; l++ {
		for i, c := range s.Visible[l] {
			if c.ID == cardID {
				return l, i
			}
		}
	}
	return -1, -1
}

func findReserved(p *Player, cardID string) int {
	for i, c := range p.Reserved {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}
