// Package ai 为 AI 座位挑选动作。所有动作在返回前都经过 engine.Validate。
package ai

import (
	"errors"

	"go-splendor/engine"
)

var ErrNotActor = errors.New("ai: not this player's move")

// Brain AI 决策接口
type Brain interface {
	// Decide 在轮到 playerID 行动时调用
	Decide(s *engine.GameState, playerID string) (engine.Action, error)
	Name() string
}
