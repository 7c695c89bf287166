package engine

import (
	"fmt"
	"testing"

	"go-splendor/catalog"
	"go-splendor/entities"

	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, players int) *GameState {
	t.Helper()
	roster := make([]Seat, players)
	for i := range roster {
		roster[i] = Seat{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Player %d", i)}
	}
	s, err := NewGame(roster, 42)
	require.NoError(t, err)
	return s
}

// give 从银行转给玩家，保持守恒
func give(t *testing.T, s *GameState, idx int, tokens entities.Tokens) {
	t.Helper()
	for c, n := range tokens {
		require.GreaterOrEqual(t, s.Bank[c], n, "bank %s", c)
		s.Bank[c] -= n
		s.Players[idx].Tokens[c] += n
	}
}

// takeCard 把卡牌从桌面、牌堆中取出，桌面位置从牌堆补上
func takeCard(t *testing.T, s *GameState, cardID string) entities.Card {
	t.Helper()
	for l := 0; l < Levels; l++ {
		for i, c := range s.Visible[l] {
			if c.ID == cardID {
				replenish(s, l, i)
				return c
			}
		}
		for i, c := range s.Decks[l] {
			if c.ID == cardID {
				s.Decks[l] = append(s.Decks[l][:i], s.Decks[l][i+1:]...)
				return c
			}
		}
	}
	t.Fatalf("card %s not on board", cardID)
	return entities.Card{}
}

func own(t *testing.T, s *GameState, idx int, cardIDs ...string) {
	t.Helper()
	p := &s.Players[idx]
	for _, id := range cardIDs {
		p.Cards = append(p.Cards, takeCard(t, s, id))
	}
	p.Score = p.computeScore()
}

// showCard 保证卡牌出现在对应等级的第一个桌面位置
func showCard(t *testing.T, s *GameState, cardID string) {
	t.Helper()
	card, ok := catalog.CardByID(cardID)
	require.True(t, ok)
	l := card.Level - 1
	for _, c := range s.Visible[l] {
		if c.ID == cardID {
			return
		}
	}
	for i, c := range s.Decks[l] {
		if c.ID == cardID {
			s.Decks[l][i] = s.Visible[l][0]
			s.Visible[l][0] = c
			return
		}
	}
	t.Fatalf("card %s not available", cardID)
}

// cardsWithBonus 从某等级中找出 n 张指定折扣色的卡牌 id
func cardsWithBonus(t *testing.T, level int, color entities.Color, n int) []string {
	t.Helper()
	var ids []string
	for _, c := range catalog.Tier(level) {
		if c.Bonus == color && len(ids) < n {
			ids = append(ids, c.ID)
		}
	}
	require.Len(t, ids, n)
	return ids
}

func mustApply(t *testing.T, s *GameState, a Action) *GameState {
	t.Helper()
	next, err := ApplyAction(s, a)
	require.NoError(t, err, "%+v", a)
	return next
}

func requireRejected(t *testing.T, s *GameState, a Action, code Code) {
	t.Helper()
	before := s.Clone()
	next, err := ApplyAction(s, a)
	require.Nil(t, next)
	rej := AsRejection(err)
	require.NotNil(t, rej, "expected rejection, got %v", err)
	require.Equal(t, code, rej.Code, rej.Error())
	require.Equal(t, codeCategory[code], rej.Category)
	require.Equal(t, before, s, "rejected action mutated the state")
}
