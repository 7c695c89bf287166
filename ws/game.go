package ws

import (
	"encoding/json"

	"go-splendor/dto"
	"go-splendor/engine"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleMessage 解析一条客户端消息并提交给房间
func (h *Hub) HandleMessage(roomID, playerID string, raw []byte) error {
	msgMap := make(map[string]interface{})
	if err := json.Unmarshal(raw, &msgMap); err != nil {
		return h.reply(roomID, playerID, malformed("消息解析失败: %v", err))
	}
	msgType, _ := msgMap["type"].(string)
	handler, found := messageHandlers[msgType]
	if !found {
		h.log.Warn("未知的消息类型", zap.String("roomID", roomID), zap.String("type", msgType))
		return h.reply(roomID, playerID, &engine.Rejection{
			Category: engine.InvalidActionShape,
			Code:     engine.CodeUnknownAction,
			Detail:   "未知的消息类型: " + msgType,
		})
	}
	action, err := handler(playerID, msgMap)
	if err != nil {
		return h.reply(roomID, playerID, err)
	}
	return h.Submit(roomID, playerID, action)
}

// reply 发送错误给单个玩家并原样返回
func (h *Hub) reply(roomID, playerID string, err error) error {
	r := h.getRoom(roomID)
	if r == nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	h.sendErrorLocked(r, playerID, err)
	return err
}

// 持续监听客户端消息，连接断开时返回
func (h *Hub) listenAndBroadcastMessages(conn ReadWriteConn, roomID, playerID string) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			h.log.Debug("读取消息失败", zap.String("roomID", roomID), zap.String("playerID", playerID), zap.Error(err))
			return
		}
		h.HandleMessage(roomID, playerID, msg)
	}
}

// HandleWebSocket 主入口（处理每个连接）
func (h *Hub) HandleWebSocket(c *gin.Context) {
	wsConn, err := upgradeConnection(c)
	if err != nil {
		h.log.Warn("WebSocket 升级失败", zap.Error(err))
		return
	}
	conn := &dto.RealConn{Conn: wsConn}
	defer conn.Close()

	roomID := c.Query("roomID")
	playerID := c.Query("userID")
	if roomID == "" || playerID == "" {
		h.writeJSON(conn, playerID, dto.ErrorMessage{Type: dto.MsgTypeError, Message: "缺少 roomID 或 userID"})
		return
	}

	if err := h.Join(roomID, playerID, conn); err != nil {
		h.writeJSON(conn, playerID, dto.ErrorMessage{Type: dto.MsgTypeError, Message: err.Error()})
		return
	}
	// 离开时清理资源
	defer h.Leave(roomID, playerID, conn)
	h.listenAndBroadcastMessages(conn, roomID, playerID)
}
