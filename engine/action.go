package engine

import "go-splendor/entities"

type ActionType string

const (
	ActionTakeResources ActionType = "take_resources"
	ActionPurchase      ActionType = "purchase"
	ActionReserve       ActionType = "reserve"
	ActionDiscardExcess ActionType = "discard_excess"
	ActionRestartGame   ActionType = "restart_game"
	ActionPass          ActionType = "pass"
)

type CardSource string

const (
	SourceVisible  CardSource = "visible"
	SourceReserved CardSource = "reserved"
)

// Action 玩家动作，Type 决定其余字段的含义：
//
//	take_resources / discard_excess: Tokens
//	purchase: CardID + Source
//	reserve: CardID（桌面卡）或 Tier（牌堆顶）
//	restart_game: Seed（0 表示沿用上一局种子 +1）
type Action struct {
	Type     ActionType      `json:"type" mapstructure:"type"`
	PlayerID string          `json:"playerId" mapstructure:"playerId"`
	Tokens   entities.Tokens `json:"tokens,omitempty" mapstructure:"tokens"`
	CardID   string          `json:"cardId,omitempty" mapstructure:"cardId"`
	Source   CardSource      `json:"source,omitempty" mapstructure:"source"`
	Tier     int             `json:"tier,omitempty" mapstructure:"tier"`
	Seed     uint64          `json:"seed,omitempty" mapstructure:"seed"`
}

func TakeResources(playerID string, selection entities.Tokens) Action {
	return Action{Type: ActionTakeResources, PlayerID: playerID, Tokens: selection}
}

func Purchase(playerID, cardID string, source CardSource) Action {
	return Action{Type: ActionPurchase, PlayerID: playerID, CardID: cardID, Source: source}
}

func Reserve(playerID, cardID string) Action {
	return Action{Type: ActionReserve, PlayerID: playerID, CardID: cardID}
}

func ReserveTop(playerID string, tier int) Action {
	return Action{Type: ActionReserve, PlayerID: playerID, Tier: tier}
}

func DiscardExcess(playerID string, selection entities.Tokens) Action {
	return Action{Type: ActionDiscardExcess, PlayerID: playerID, Tokens: selection}
}

func RestartGame(playerID string, seed uint64) Action {
	return Action{Type: ActionRestartGame, PlayerID: playerID, Seed: seed}
}

func Pass(playerID string) Action {
	return Action{Type: ActionPass, PlayerID: playerID}
}
