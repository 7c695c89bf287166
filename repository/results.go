package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-splendor/config"
	"go-splendor/engine"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MatchResult 一局结束后的归档记录
type MatchResult struct {
	MatchID    string         `json:"matchId"`
	RoomID     string         `json:"roomId"`
	Seed       uint64         `json:"seed"`
	Turns      int            `json:"turns"`
	Winner     string         `json:"winner"`
	FinishedAt int64          `json:"finishedAt"`
	Players    []ResultPlayer `json:"players"`
}

type ResultPlayer struct {
	PlayerID string `json:"playerId"`
	Seat     int    `json:"seat"`
	Rank     int    `json:"rank"`
	Score    int    `json:"score"`
	Cards    int    `json:"cards"`
}

// NewMatchResult 从已结束的对局生成记录
func NewMatchResult(roomID string, s *engine.GameState, finishedAt time.Time) (MatchResult, error) {
	if s == nil || s.Status != engine.StatusFinished {
		return MatchResult{}, errors.New("对局尚未结束")
	}
	res := MatchResult{
		MatchID:    uuid.New().String(),
		RoomID:     roomID,
		Seed:       s.Seed,
		Turns:      s.Turn,
		Winner:     s.Winner,
		FinishedAt: finishedAt.Unix(),
		Players:    make([]ResultPlayer, 0, len(s.Standings)),
	}
	for _, st := range s.Standings {
		res.Players = append(res.Players, ResultPlayer{
			PlayerID: st.PlayerID,
			Seat:     s.PlayerIndex(st.PlayerID),
			Rank:     st.Rank,
			Score:    st.Score,
			Cards:    st.Cards,
		})
	}
	return res, nil
}

type ResultStore struct {
	db *sql.DB
}

var resultSchema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		match_id VARCHAR(64) NOT NULL PRIMARY KEY,
		room_id VARCHAR(64) NOT NULL,
		seed VARCHAR(32) NOT NULL,
		turns INTEGER NOT NULL,
		winner VARCHAR(64) NOT NULL,
		finished_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS match_players (
		match_id VARCHAR(64) NOT NULL,
		player_id VARCHAR(64) NOT NULL,
		seat INTEGER NOT NULL,
		player_rank INTEGER NOT NULL,
		score INTEGER NOT NULL,
		cards INTEGER NOT NULL,
		PRIMARY KEY (match_id, player_id)
	)`,
}

// OpenResultStore driver 为 mysql 或 sqlite，sqlite 只允许单连接
func OpenResultStore(ctx context.Context, driver, dsn string) (*ResultStore, error) {
	if driver != config.ResultsMySQL && driver != config.ResultsSQLite {
		return nil, fmt.Errorf("不支持的结果存储: %s", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == config.ResultsSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if driver == config.ResultsSQLite {
		for _, pragma := range []string{
			`PRAGMA busy_timeout = 5000`,
			`PRAGMA journal_mode = WAL`,
		} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("sqlite pragma: %w", err)
			}
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	for _, stmt := range resultSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("建表失败: %w", err)
		}
	}
	return &ResultStore{db: db}, nil
}

func (r *ResultStore) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *ResultStore) Save(ctx context.Context, res MatchResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO matches (match_id, room_id, seed, turns, winner, finished_at) VALUES (?, ?, ?, ?, ?, ?)`,
		res.MatchID, res.RoomID, strconv.FormatUint(res.Seed, 10), res.Turns, res.Winner, res.FinishedAt,
	); err != nil {
		return fmt.Errorf("写入对局失败: %w", err)
	}
	for _, p := range res.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_players (match_id, player_id, seat, player_rank, score, cards) VALUES (?, ?, ?, ?, ?, ?)`,
			res.MatchID, p.PlayerID, p.Seat, p.Rank, p.Score, p.Cards,
		); err != nil {
			return fmt.Errorf("写入玩家成绩失败: %w", err)
		}
	}
	return tx.Commit()
}

// Recent 最近结束的对局，按结束时间倒序
func (r *ResultStore) Recent(ctx context.Context, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, room_id, seed, turns, winner, finished_at FROM matches ORDER BY finished_at DESC, match_id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("查询对局失败: %w", err)
	}
	out := []MatchResult{}
	for rows.Next() {
		var (
			m    MatchResult
			seed string
		)
		if err := rows.Scan(&m.MatchID, &m.RoomID, &seed, &m.Turns, &m.Winner, &m.FinishedAt); err != nil {
			rows.Close()
			return nil, err
		}
		if m.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			rows.Close()
			return nil, fmt.Errorf("seed 解析失败: %w", err)
		}
		out = append(out, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		players, err := r.players(ctx, out[i].MatchID)
		if err != nil {
			return nil, err
		}
		out[i].Players = players
	}
	return out, nil
}

func (r *ResultStore) players(ctx context.Context, matchID string) ([]ResultPlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id, seat, player_rank, score, cards FROM match_players WHERE match_id = ? ORDER BY player_rank, seat`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("查询玩家成绩失败: %w", err)
	}
	defer rows.Close()
	players := []ResultPlayer{}
	for rows.Next() {
		var p ResultPlayer
		if err := rows.Scan(&p.PlayerID, &p.Seat, &p.Rank, &p.Score, &p.Cards); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
