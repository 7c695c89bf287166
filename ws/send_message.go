package ws

import (
	"encoding/json"

	"go-splendor/dto"
	"go-splendor/engine"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// syncMessage 组装发给 playerID 的同步消息
func (r *room) syncMessage(playerID string) dto.SyncMessage {
	legal := []engine.Action{}
	if r.state != nil && r.state.ActorID() == playerID {
		legal = append(legal, engine.LegalActions(r.state)...)
	}
	return dto.SyncMessage{
		Type:         dto.MsgTypeSync,
		PlayerID:     playerID,
		Version:      r.version,
		RoomInfo:     r.info,
		Players:      r.roomPlayers(),
		Game:         dto.NewPublicGame(r.state, playerID),
		LegalActions: legal,
	}
}

// 广播同步消息给房间内所有在线玩家，发送失败的连接被关闭并标记离线
func (h *Hub) broadcastLocked(r *room) {
	for i, pc := range r.players {
		if !pc.Online || pc.Conn == nil {
			continue
		}
		data, err := json.Marshal(r.syncMessage(pc.PlayerID))
		if err != nil {
			h.log.Error("编码 JSON 失败", zap.String("roomID", r.info.RoomID), zap.Error(err))
			return
		}
		if err := pc.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn("广播失败，移除连接",
				zap.String("roomID", r.info.RoomID),
				zap.String("playerID", pc.PlayerID),
				zap.Error(err))
			pc.Conn.Close()
			r.players[i].Online = false
			r.players[i].Conn = nil
		}
	}
}

func (h *Hub) sendErrorLocked(r *room, playerID string, err error) {
	for _, pc := range r.players {
		if pc.PlayerID == playerID && pc.Online && pc.Conn != nil {
			h.writeJSON(pc.Conn, playerID, dto.NewErrorMessage(err))
			return
		}
	}
}

func (h *Hub) sendAllLocked(r *room, msg interface{}) {
	for _, pc := range r.players {
		if pc.Online && pc.Conn != nil {
			h.writeJSON(pc.Conn, pc.PlayerID, msg)
		}
	}
}

func (h *Hub) writeJSON(conn WriteOnlyConn, playerID string, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("编码 JSON 失败", zap.Error(err))
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.log.Warn("发送消息失败", zap.String("playerID", playerID), zap.Error(err))
	}
}
