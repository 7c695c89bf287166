package ws

import (
	"encoding/json"
	"time"

	"go-splendor/ai"
	"go-splendor/dto"
	"go-splendor/engine"

	"go.uber.org/zap"
)

// aiView AI 只关心同步消息中的这几个字段
type aiView struct {
	Version int              `json:"version"`
	Players []dto.RoomPlayer `json:"roomPlayers"`
	Game    *struct {
		Status engine.Status `json:"status"`
		Actor  string        `json:"actor"`
	} `json:"game"`
}

// MaybeRunAIIfNeeded AI 座位收到同步消息后，轮到自己时延迟执行动作
func (h *Hub) MaybeRunAIIfNeeded(roomID, playerID string, data []byte) bool {
	var msg aiView
	if err := json.Unmarshal(data, &msg); err != nil {
		h.log.Warn("AI 消息格式错误", zap.String("roomID", roomID), zap.Error(err))
		return false
	}
	if msg.Game == nil {
		return false
	}

	switch msg.Game.Status {
	case engine.StatusPlaying:
		if msg.Game.Actor != playerID {
			return false
		}
	case engine.StatusFinished:
		// 由第一个 AI 座位负责重开
		if !h.opts.AIAutoRestart || firstAISeat(msg.Players) != playerID {
			return false
		}
	default:
		return false
	}

	h.log.Debug("轮到 AI 行动",
		zap.String("roomID", roomID),
		zap.String("playerID", playerID),
		zap.Int("version", msg.Version))
	time.AfterFunc(h.opts.AIDelay, func() {
		h.runAI(roomID, playerID, msg.Version)
	})
	return true
}

func firstAISeat(players []dto.RoomPlayer) string {
	for _, p := range players {
		if p.AI {
			return p.PlayerID
		}
	}
	return ""
}

// runAI 局面在等待或决策期间变化过则放弃。
// 决策时不持有房间锁，远程 AI 较慢也不会阻塞房间内其他操作
func (h *Hub) runAI(roomID, playerID string, version int) {
	r := h.getRoom(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.closed || r.state == nil || r.version != version {
		r.mu.Unlock()
		return
	}
	snapshot := r.state.Clone()
	r.mu.Unlock()

	var action engine.Action
	switch snapshot.Status {
	case engine.StatusFinished:
		action = engine.RestartGame(playerID, 0)
	case engine.StatusPlaying:
		a, err := h.opts.Brain.Decide(snapshot, playerID)
		if err != nil {
			h.log.Warn("AI 决策失败", zap.String("roomID", roomID), zap.String("playerID", playerID), zap.Error(err))
			return
		}
		action = a
	default:
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.version != version {
		h.log.Debug("AI 决策期间局面已变化", zap.String("roomID", roomID), zap.String("playerID", playerID))
		return
	}
	h.log.Info("AI 执行操作",
		zap.String("roomID", roomID),
		zap.String("playerID", playerID),
		zap.String("brain", h.opts.Brain.Name()),
		zap.String("type", string(action.Type)))
	if err := h.applyLocked(r, action); err != nil {
		h.log.Error("AI 动作执行失败", zap.String("roomID", roomID), zap.String("playerID", playerID), zap.Error(err))
	}
}

// scheduleTurnTimerLocked 真人玩家超时未行动时替他 pass 或弃宝石
func (h *Hub) scheduleTurnTimerLocked(r *room) {
	r.stopTurnTimer()
	if h.opts.TurnTimeout <= 0 || r.state == nil || r.state.Status != engine.StatusPlaying {
		return
	}
	actor := r.state.ActorID()
	if actor == "" || IsAIPlayer(actor) {
		return
	}
	roomID, version := r.info.RoomID, r.version
	r.turnTimer = time.AfterFunc(h.opts.TurnTimeout, func() {
		h.onTurnTimeout(roomID, actor, version)
	})
}

func (h *Hub) onTurnTimeout(roomID, playerID string, version int) {
	r := h.getRoom(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.state == nil || r.version != version {
		return
	}

	action := engine.Pass(playerID)
	if pd := r.state.PendingDiscard; pd != nil && pd.PlayerID == playerID {
		a, err := ai.ChooseDiscard(r.state, playerID)
		if err != nil {
			h.log.Error("超时弃宝石失败", zap.String("roomID", roomID), zap.String("playerID", playerID), zap.Error(err))
			return
		}
		action = a
	}
	h.log.Info("玩家超时", zap.String("roomID", roomID), zap.String("playerID", playerID), zap.String("type", string(action.Type)))
	if err := h.applyLocked(r, action); err != nil {
		h.log.Error("超时动作执行失败", zap.String("roomID", roomID), zap.String("playerID", playerID), zap.Error(err))
	}
}
