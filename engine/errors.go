package engine

import (
	"errors"
	"fmt"
)

// Category 拒绝原因的大类
type Category string

const (
	InvalidActionShape     Category = "invalid_action_shape"
	RuleViolation          Category = "rule_violation"
	IllegalStateTransition Category = "illegal_state_transition"
	NotFound               Category = "not_found"
)

// Code 稳定的机器可读拒绝码，客户端据此展示提示
type Code string

const (
	CodeMalformedAction Code = "malformed_action"
	CodeUnknownAction   Code = "unknown_action"
	CodeUnknownColor    Code = "unknown_color"
	CodeNegativeCount   Code = "negative_count"
	CodeEmptySelection  Code = "empty_selection"
	CodeInvalidTier     Code = "invalid_tier"
	CodeInvalidSource   Code = "invalid_source"

	CodeNotYourTurn            Code = "not_your_turn"
	CodeWildcardNotTakeable    Code = "wildcard_not_takeable"
	CodeIllegalSelectionShape  Code = "illegal_selection_shape"
	CodeInsufficientBank       Code = "insufficient_bank"
	CodeTokenLimitExceeded     Code = "token_limit_exceeded"
	CodeInsufficientResources  Code = "insufficient_resources"
	CodeReservationLimit       Code = "reservation_limit"
	CodeDiscardCountMismatch   Code = "discard_count_mismatch"
	CodeDiscardExceedsHoldings Code = "discard_exceeds_holdings"

	CodePendingDiscard   Code = "pending_discard"
	CodeNoPendingDiscard Code = "no_pending_discard"
	CodeGameFinished     Code = "game_finished"
	CodeGameNotPlaying   Code = "game_not_playing"

	CodePlayerNotFound Code = "player_not_found"
	CodeCardNotFound   Code = "card_not_found"
	CodeDeckEmpty      Code = "deck_empty"
)

var codeCategory = map[Code]Category{
	CodeMalformedAction: InvalidActionShape,
	CodeUnknownAction:   InvalidActionShape,
	CodeUnknownColor:    InvalidActionShape,
	CodeNegativeCount:   InvalidActionShape,
	CodeEmptySelection:  InvalidActionShape,
	CodeInvalidTier:     InvalidActionShape,
	CodeInvalidSource:   InvalidActionShape,

	CodeNotYourTurn:            RuleViolation,
	CodeWildcardNotTakeable:    RuleViolation,
	CodeIllegalSelectionShape:  RuleViolation,
	CodeInsufficientBank:       RuleViolation,
	CodeTokenLimitExceeded:     RuleViolation,
	CodeInsufficientResources:  RuleViolation,
	CodeReservationLimit:       RuleViolation,
	CodeDiscardCountMismatch:   RuleViolation,
	CodeDiscardExceedsHoldings: RuleViolation,

	CodePendingDiscard:   IllegalStateTransition,
	CodeNoPendingDiscard: IllegalStateTransition,
	CodeGameFinished:     IllegalStateTransition,
	CodeGameNotPlaying:   IllegalStateTransition,

	CodePlayerNotFound: NotFound,
	CodeCardNotFound:   NotFound,
	CodeDeckEmpty:      NotFound,
}

// Rejection 动作被拒绝的结构化原因，拒绝时输入状态保持不变
type Rejection struct {
	Category Category `json:"category"`
	Code     Code     `json:"code"`
	Detail   string   `json:"detail,omitempty"`
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return fmt.Sprintf("%s: %s", r.Category, r.Code)
	}
	return fmt.Sprintf("%s: %s: %s", r.Category, r.Code, r.Detail)
}

// Is 按 Code 比较，便于 errors.Is(err, engine.ErrNotYourTurn)
func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	if !ok {
		return false
	}
	return t.Code == r.Code
}

func reject(code Code, format string, args ...any) *Rejection {
	return &Rejection{
		Category: codeCategory[code],
		Code:     code,
		Detail:   fmt.Sprintf(format, args...),
	}
}

func sentinel(code Code) *Rejection {
	return &Rejection{Category: codeCategory[code], Code: code}
}

var (
	ErrNotYourTurn           = sentinel(CodeNotYourTurn)
	ErrInsufficientBank      = sentinel(CodeInsufficientBank)
	ErrInsufficientResources = sentinel(CodeInsufficientResources)
	ErrReservationLimit      = sentinel(CodeReservationLimit)
	ErrPendingDiscard        = sentinel(CodePendingDiscard)
	ErrGameFinished          = sentinel(CodeGameFinished)
	ErrCardNotFound          = sentinel(CodeCardNotFound)
)

// AsRejection 取出拒绝原因，非拒绝错误返回 nil
func AsRejection(err error) *Rejection {
	var r *Rejection
	if errors.As(err, &r) {
		return r
	}
	return nil
}

// InvariantError 执行后状态不满足不变量，说明执行器本身有缺陷。
// 调用方应当只冻结该局游戏。
type InvariantError struct {
	Violations []string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated: %v", e.Violations)
}
