package ws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-splendor/ai"
	"go-splendor/config"
	"go-splendor/dto"
	"go-splendor/engine"
	"go-splendor/entities"
	"go-splendor/repository"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	ErrRoomExists = errors.New("房间已存在")
	ErrRoomFull   = errors.New("房间已满")
	ErrReservedID = errors.New("玩家 ID 不能以 ai_ 开头")
)

const storeTimeout = 3 * time.Second

type Options struct {
	AIDelay       time.Duration
	AIAutoRestart bool
	TurnTimeout   time.Duration
	Brain         ai.Brain
}

func OptionsFromConfig(cfg config.Config) Options {
	opts := Options{
		AIDelay:       cfg.AIDelay,
		AIAutoRestart: cfg.AIAutoRestart,
		TurnTimeout:   cfg.TurnTimeout,
	}
	if cfg.AIRemoteURL != "" {
		opts.Brain = ai.NewRemoteBrain(cfg.AIRemoteURL, cfg.AIRemoteTimeout, ai.NewRuleBrain())
	}
	return opts
}

// ResultSaver 对局结束后归档
type ResultSaver interface {
	Save(ctx context.Context, res repository.MatchResult) error
}

// room 一个房间的连接和局面，所有动作在 mu 下串行执行
type room struct {
	mu        sync.Mutex
	info      entities.RoomInfo
	players   []dto.PlayerConn
	state     *engine.GameState
	version   int
	turnTimer *time.Timer
	closed    bool

	// 最近一次入座或动作的时间
	lastActive time.Time
}

type Hub struct {
	log     *zap.Logger
	store   repository.RoomStore
	results ResultSaver
	opts    Options

	mu    sync.Mutex
	rooms map[string]*room
	rng   *rand.Rand

	// 进行中的对局归档
	archiving sync.WaitGroup
}

// NewHub results 为 nil 时不归档
func NewHub(log *zap.Logger, store repository.RoomStore, results ResultSaver, opts Options) *Hub {
	if opts.Brain == nil {
		opts.Brain = ai.NewRuleBrain()
	}
	return &Hub{
		log:     log.Named("hub"),
		store:   store,
		results: results,
		opts:    opts,
		rooms:   make(map[string]*room),
		rng:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func IsAIPlayer(playerID string) bool {
	return strings.HasPrefix(playerID, "ai_")
}

func (h *Hub) getRoom(roomID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[roomID]
}

func (h *Hub) newSeed() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng.Uint64()
}

// OpenRoom 注册房间，AI 座位立即入座
func (h *Hub) OpenRoom(ctx context.Context, info entities.RoomInfo, aiSeats []string) error {
	r := &room{info: info, lastActive: time.Now()}
	r.info.GameStatus = entities.RoomStatusWaiting
	for _, id := range aiSeats {
		r.players = append(r.players, dto.PlayerConn{
			PlayerID: id,
			Conn:     &VirtualConn{PlayerID: id, RoomID: info.RoomID, hub: h},
			Online:   true,
		})
	}

	h.mu.Lock()
	if _, ok := h.rooms[info.RoomID]; ok {
		h.mu.Unlock()
		return ErrRoomExists
	}
	h.rooms[info.RoomID] = r
	h.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := h.store.SaveRoom(ctx, r.info); err != nil {
		return fmt.Errorf("初始化房间信息失败: %w", err)
	}
	h.log.Info("房间已创建",
		zap.String("roomID", info.RoomID),
		zap.Int("maxPlayers", info.MaxPlayers),
		zap.Strings("aiSeats", aiSeats))
	h.startIfFullLocked(r)
	return nil
}

// CloseRoom 关闭房间内所有连接，返回房间是否存在
func (h *Hub) CloseRoom(roomID string) bool {
	h.mu.Lock()
	r, ok := h.rooms[roomID]
	delete(h.rooms, roomID)
	h.mu.Unlock()
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.stopTurnTimer()
	for i, pc := range r.players {
		if pc.Conn != nil {
			pc.Conn.Close()
		}
		r.players[i].Online = false
	}
	h.log.Info("房间已关闭", zap.String("roomID", roomID))
	return true
}

// RoomPlayers 房间内玩家及在线状态
func (h *Hub) RoomPlayers(roomID string) ([]dto.RoomPlayer, bool) {
	r := h.getRoom(roomID)
	if r == nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roomPlayers(), true
}

// State 当前局面的副本，未开局时为 nil
func (h *Hub) State(roomID string) (*engine.GameState, bool) {
	r := h.getRoom(roomID)
	if r == nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone(), true
}

func (r *room) roomPlayers() []dto.RoomPlayer {
	out := make([]dto.RoomPlayer, 0, len(r.players))
	for _, pc := range r.players {
		out = append(out, dto.RoomPlayer{
			PlayerID: pc.PlayerID,
			Online:   pc.Online,
			AI:       IsAIPlayer(pc.PlayerID),
		})
	}
	return out
}

func (r *room) stopTurnTimer() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
}

// Join 入座或重连，人满时开局
func (h *Hub) Join(roomID, playerID string, conn WriteOnlyConn) error {
	if IsAIPlayer(playerID) {
		return ErrReservedID
	}
	r := h.getRoom(roomID)
	if r == nil {
		return repository.ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return repository.ErrRoomNotFound
	}

	r.lastActive = time.Now()
	seated := false
	for i, pc := range r.players {
		if pc.PlayerID == playerID {
			// 旧连接的读循环随之退出，不能再以该玩家身份提交动作
			if pc.Conn != nil && pc.Conn != conn {
				pc.Conn.Close()
			}
			r.players[i].Conn = conn
			r.players[i].Online = true
			seated = true
			h.log.Info("玩家重连", zap.String("roomID", roomID), zap.String("playerID", playerID))
			break
		}
	}
	if !seated {
		if len(r.players) >= r.info.MaxPlayers {
			return ErrRoomFull
		}
		r.players = append(r.players, dto.PlayerConn{PlayerID: playerID, Conn: conn, Online: true})
		h.log.Info("玩家加入房间",
			zap.String("roomID", roomID),
			zap.String("playerID", playerID),
			zap.Int("players", len(r.players)),
			zap.Int("maxPlayers", r.info.MaxPlayers))
	}

	if h.startIfFullLocked(r) {
		return nil
	}
	h.broadcastLocked(r)
	return nil
}

// Leave 玩家断开连接后标记为离线
func (h *Hub) Leave(roomID, playerID string, conn WriteOnlyConn) {
	r := h.getRoom(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, pc := range r.players {
		if pc.PlayerID == playerID {
			if pc.Conn == conn {
				r.players[i].Online = false
				r.players[i].Conn = nil
				h.log.Info("玩家标记为离线", zap.String("roomID", roomID), zap.String("playerID", playerID))
			}
			break
		}
	}
	h.broadcastLocked(r)
}

// startIfFullLocked 人满且尚未开局时创建新局并广播
func (h *Hub) startIfFullLocked(r *room) bool {
	if r.state != nil || len(r.players) < r.info.MaxPlayers {
		return false
	}
	seats := make([]engine.Seat, len(r.players))
	for i, pc := range r.players {
		seats[i] = engine.Seat{ID: pc.PlayerID, Name: pc.PlayerID}
	}
	seed := h.newSeed()
	state, err := engine.NewGame(seats, seed)
	if err != nil {
		h.log.Error("开局失败", zap.String("roomID", r.info.RoomID), zap.Error(err))
		return false
	}
	r.state = state
	r.version++
	r.info.GameStatus = entities.RoomStatusPlaying
	h.log.Info("游戏开始", zap.String("roomID", r.info.RoomID), zap.Uint64("seed", seed))

	h.persistLocked(r, true)
	h.broadcastLocked(r)
	h.scheduleTurnTimerLocked(r)
	return true
}

// Submit 在房间锁内执行动作，拒绝原因发回给该玩家
func (h *Hub) Submit(roomID, playerID string, a engine.Action) error {
	r := h.getRoom(roomID)
	if r == nil {
		return repository.ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return repository.ErrRoomNotFound
	}
	a.PlayerID = playerID
	if err := h.applyLocked(r, a); err != nil {
		h.sendErrorLocked(r, playerID, err)
		return err
	}
	return nil
}

func (h *Hub) applyLocked(r *room, a engine.Action) error {
	if r.info.GameStatus == entities.RoomStatusHalted {
		return &engine.Rejection{Category: engine.IllegalStateTransition, Code: engine.CodeGameNotPlaying, Detail: "房间已冻结"}
	}
	if r.state == nil {
		return &engine.Rejection{Category: engine.IllegalStateTransition, Code: engine.CodeGameNotPlaying, Detail: "游戏尚未开始"}
	}

	prev := r.state
	next, err := engine.ApplyAction(prev, a)
	var inv *engine.InvariantError
	if errors.As(err, &inv) {
		h.haltLocked(r, a, inv)
		return err
	}
	if err != nil {
		h.log.Debug("动作被拒绝",
			zap.String("roomID", r.info.RoomID),
			zap.String("playerID", a.PlayerID),
			zap.String("type", string(a.Type)),
			zap.Error(err))
		return err
	}

	r.state = next
	r.version++
	r.lastActive = time.Now()
	statusChanged := false
	if st := roomStatusFor(next.Status); st != r.info.GameStatus {
		r.info.GameStatus = st
		statusChanged = true
	}
	h.log.Info("动作已执行",
		zap.String("roomID", r.info.RoomID),
		zap.String("playerID", a.PlayerID),
		zap.String("type", string(a.Type)),
		zap.Int("turn", next.Turn))

	if prev.Status != engine.StatusFinished && next.Status == engine.StatusFinished {
		h.log.Info("游戏结束", zap.String("roomID", r.info.RoomID), zap.String("winner", next.Winner))
		h.archiveLocked(r)
	}
	h.persistLocked(r, statusChanged)
	h.broadcastLocked(r)
	h.scheduleTurnTimerLocked(r)
	return nil
}

func roomStatusFor(s engine.Status) entities.RoomStatus {
	switch s {
	case engine.StatusPlaying:
		return entities.RoomStatusPlaying
	case engine.StatusFinished:
		return entities.RoomStatusEnd
	}
	return entities.RoomStatusWaiting
}

// haltLocked 执行器产生了非法状态，只冻结这一个房间
func (h *Hub) haltLocked(r *room, a engine.Action, inv *engine.InvariantError) {
	r.info.GameStatus = entities.RoomStatusHalted
	r.stopTurnTimer()
	h.log.Error("状态校验失败，房间已冻结",
		zap.String("roomID", r.info.RoomID),
		zap.String("playerID", a.PlayerID),
		zap.String("type", string(a.Type)),
		zap.Strings("violations", inv.Violations))
	h.persistLocked(r, true)
	h.sendAllLocked(r, dto.HaltedMessage{
		Type:       dto.MsgTypeHalted,
		RoomID:     r.info.RoomID,
		Violations: inv.Violations,
	})
}

// archiveLocked 在锁内生成记录，写库放到锁外
func (h *Hub) archiveLocked(r *room) {
	if h.results == nil {
		return
	}
	res, err := repository.NewMatchResult(r.info.RoomID, r.state, time.Now())
	if err != nil {
		h.log.Warn("生成对局记录失败", zap.String("roomID", r.info.RoomID), zap.Error(err))
		return
	}
	h.archiving.Add(1)
	go func() {
		defer h.archiving.Done()
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := h.results.Save(ctx, res); err != nil {
			h.log.Error("保存对局记录失败", zap.String("roomID", res.RoomID), zap.Error(err))
			return
		}
		h.log.Info("对局记录已保存", zap.String("roomID", res.RoomID), zap.String("matchID", res.MatchID))
	}()
}

// WaitArchived 等待已提交的对局归档写完，退出前调用
func (h *Hub) WaitArchived() {
	h.archiving.Wait()
}

// persistLocked 缓存最新快照，缓存失败不影响对局
func (h *Hub) persistLocked(r *room, withInfo bool) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if withInfo {
		if err := h.store.SaveRoom(ctx, r.info); err != nil {
			h.log.Warn("保存房间信息失败", zap.String("roomID", r.info.RoomID), zap.Error(err))
		}
	}
	if r.state != nil {
		if err := h.store.SaveSnapshot(ctx, r.info.RoomID, r.state); err != nil {
			h.log.Warn("保存快照失败", zap.String("roomID", r.info.RoomID), zap.Error(err))
		}
	}
}
