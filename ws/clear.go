package ws

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunRoomJanitor 定期关闭长时间无人在线的房间，与缓存的过期时间保持一致
func (h *Hub) RunRoomJanitor(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := h.clearIdleRooms(now, idle); n > 0 {
				h.log.Info("⏰ 清理空闲房间", zap.Int("rooms", n))
			}
		}
	}
}

// clearIdleRooms 没有真人在线且超过 idle 未活动的房间被关闭
func (h *Hub) clearIdleRooms(now time.Time, idle time.Duration) int {
	h.mu.Lock()
	ids := make([]string, 0, len(h.rooms))
	for id := range h.rooms {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	cleared := 0
	for _, id := range ids {
		r := h.getRoom(id)
		if r == nil {
			continue
		}
		r.mu.Lock()
		expired := !r.hasHumanOnline() && now.Sub(r.lastActive) >= idle
		r.mu.Unlock()
		if expired && h.CloseRoom(id) {
			cleared++
		}
	}
	return cleared
}

func (r *room) hasHumanOnline() bool {
	for _, pc := range r.players {
		if pc.Online && !IsAIPlayer(pc.PlayerID) {
			return true
		}
	}
	return false
}
