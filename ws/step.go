package ws

import (
	"go-splendor/engine"
	"go-splendor/entities"
)

// 消息处理函数类型：把客户端消息转成引擎动作，playerID 以连接身份为准
type messageHandler func(playerID string, msgMap map[string]interface{}) (engine.Action, error)

// 消息处理函数映射
var messageHandlers = map[string]messageHandler{
	"get_gem":       handleGetGemMessage,
	"buy_card":      handleBuyCardMessage,
	"preserve_card": handleReserveCardMessage,
	"discard_gem":   handleDiscardGemMessage,
	"pass":          handlePassMessage,
	"restart_game":  handleRestartGameMessage,
}

type cardPayload struct {
	CardID string `mapstructure:"cardID"`
	Source string `mapstructure:"source"`
	Tier   int    `mapstructure:"tier"`
}

type restartPayload struct {
	Seed uint64 `mapstructure:"seed"`
}

// payload: {"White": 1, "Blue": 1, "Red": 1}
func handleGetGemMessage(playerID string, msgMap map[string]interface{}) (engine.Action, error) {
	var gems entities.Tokens
	if err := decodePayload(msgMap, &gems); err != nil {
		return engine.Action{}, err
	}
	return engine.TakeResources(playerID, gems), nil
}

// payload: {"cardID": "2-07", "source": "reserved"}，source 缺省为桌面
func handleBuyCardMessage(playerID string, msgMap map[string]interface{}) (engine.Action, error) {
	var p cardPayload
	if err := decodePayload(msgMap, &p); err != nil {
		return engine.Action{}, err
	}
	if p.CardID == "" {
		return engine.Action{}, malformed("缺少 cardID")
	}
	return engine.Purchase(playerID, p.CardID, engine.CardSource(p.Source)), nil
}

// payload: {"cardID": "1-03"} 保留桌面卡，{"tier": 2} 保留牌堆顶
func handleReserveCardMessage(playerID string, msgMap map[string]interface{}) (engine.Action, error) {
	var p cardPayload
	if err := decodePayload(msgMap, &p); err != nil {
		return engine.Action{}, err
	}
	if p.CardID != "" {
		return engine.Reserve(playerID, p.CardID), nil
	}
	return engine.ReserveTop(playerID, p.Tier), nil
}

func handleDiscardGemMessage(playerID string, msgMap map[string]interface{}) (engine.Action, error) {
	var gems entities.Tokens
	if err := decodePayload(msgMap, &gems); err != nil {
		return engine.Action{}, err
	}
	return engine.DiscardExcess(playerID, gems), nil
}

func handlePassMessage(playerID string, _ map[string]interface{}) (engine.Action, error) {
	return engine.Pass(playerID), nil
}

// payload 可选：{"seed": 42}，不传则沿用上一局种子 +1
func handleRestartGameMessage(playerID string, msgMap map[string]interface{}) (engine.Action, error) {
	var p restartPayload
	if err := decodePayload(msgMap, &p); err != nil {
		return engine.Action{}, err
	}
	return engine.RestartGame(playerID, p.Seed), nil
}
