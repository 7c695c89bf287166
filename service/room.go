package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-splendor/dto"
	"go-splendor/engine"
	"go-splendor/entities"
	"go-splendor/repository"
	"go-splendor/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidRoom     = errors.New("房间参数不合法")
	ErrResultsDisabled = errors.New("未开启对局归档")
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

// ResultReader 对局归档的查询接口
type ResultReader interface {
	Recent(ctx context.Context, limit int) ([]repository.MatchResult, error)
}

type RoomService struct {
	log     *zap.Logger
	store   repository.RoomStore
	hub     *ws.Hub
	results ResultReader
}

// NewRoomService results 为 nil 时结果查询返回 ErrResultsDisabled
func NewRoomService(log *zap.Logger, store repository.RoomStore, hub *ws.Hub, results ResultReader) *RoomService {
	return &RoomService{log: log.Named("room"), store: store, hub: hub, results: results}
}

// 生成唯一 ID（例如 8位）
func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

func (s *RoomService) CreateRoom(ctx context.Context, params dto.CreateRoomRequest) (string, error) {
	if params.MaxPlayers < engine.MinPlayers || params.MaxPlayers > engine.MaxPlayers {
		return "", fmt.Errorf("%w: 人数需要在 %d~%d 之间", ErrInvalidRoom, engine.MinPlayers, engine.MaxPlayers)
	}
	if params.AIPlayers < 0 || params.AIPlayers >= params.MaxPlayers {
		return "", fmt.Errorf("%w: AI 数量需要在 0~%d 之间", ErrInvalidRoom, params.MaxPlayers-1)
	}
	if ws.IsAIPlayer(params.UserID) {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoom, ws.ErrReservedID)
	}

	roomID := shortID()
	aiSeats := make([]string, params.AIPlayers)
	for i := range aiSeats {
		aiSeats[i] = "ai_" + shortID()
	}
	info := entities.RoomInfo{
		RoomID:     roomID,
		GameStatus: entities.RoomStatusWaiting,
		MaxPlayers: params.MaxPlayers,
		UserID:     params.UserID,
		AIPlayers:  params.AIPlayers,
		CreatedAt:  time.Now().Unix(),
	}
	if err := s.hub.OpenRoom(ctx, info, aiSeats); err != nil {
		return "", err
	}
	return roomID, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, params dto.DeleteRoomRequest) error {
	closed := s.hub.CloseRoom(params.RoomID)
	err := s.store.DeleteRoom(ctx, params.RoomID)
	if errors.Is(err, repository.ErrRoomNotFound) && closed {
		// 缓存已过期，但房间还在内存中
		err = nil
	}
	if err != nil {
		return err
	}
	s.log.Info("房间已删除", zap.String("roomID", params.RoomID))
	return nil
}

func (s *RoomService) withPlayers(info entities.RoomInfo) dto.RoomInfo {
	players, ok := s.hub.RoomPlayers(info.RoomID)
	if !ok {
		players = []dto.RoomPlayer{}
	}
	return dto.RoomInfo{RoomInfo: info, RoomPlayer: players}
}

func (s *RoomService) GetRoomList(ctx context.Context) ([]dto.RoomInfo, error) {
	infos, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]dto.RoomInfo, 0, len(infos))
	for _, info := range infos {
		rooms = append(rooms, s.withPlayers(info))
	}
	return rooms, nil
}

// GetRoomInfo 房间详情，已开局时附带缓存中的最新局面
func (s *RoomService) GetRoomInfo(ctx context.Context, roomID string) (dto.RoomInfo, error) {
	info, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return dto.RoomInfo{}, err
	}
	room := s.withPlayers(info)
	state, err := s.store.LoadSnapshot(ctx, roomID)
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
	case err != nil:
		s.log.Warn("读取快照失败", zap.String("roomID", roomID), zap.Error(err))
	default:
		room.Game = dto.NewPublicGame(state, "")
	}
	return room, nil
}

func (s *RoomService) GetResults(ctx context.Context, limit int) ([]repository.MatchResult, error) {
	if s.results == nil {
		return nil, ErrResultsDisabled
	}
	if limit <= 0 {
		limit = defaultResultsLimit
	}
	if limit > maxResultsLimit {
		limit = maxResultsLimit
	}
	return s.results.Recent(ctx, limit)
}
