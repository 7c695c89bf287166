package ai

import (
	"fmt"
	"testing"

	"go-splendor/catalog"
	"go-splendor/engine"
	"go-splendor/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, players int, seed uint64) *engine.GameState {
	t.Helper()
	roster := make([]engine.Seat, players)
	for i := range roster {
		roster[i] = engine.Seat{ID: fmt.Sprintf("ai_%d", i)}
	}
	s, err := engine.NewGame(roster, seed)
	require.NoError(t, err)
	return s
}

func give(t *testing.T, s *engine.GameState, idx int, tokens entities.Tokens) {
	t.Helper()
	for c, n := range tokens {
		require.GreaterOrEqual(t, s.Bank[c], n)
		s.Bank[c] -= n
		s.Players[idx].Tokens[c] += n
	}
}

func TestOpeningMoveTakesTwoOfOneColor(t *testing.T) {
	s := newGame(t, 4, 1)
	a, err := NewRuleBrain().Decide(s, "ai_0")
	require.NoError(t, err)
	assert.Equal(t, engine.ActionTakeResources, a.Type)
	assert.Equal(t, 2, a.Tokens.Total())
	assert.Len(t, a.Tokens, 1)
}

func TestFallsBackToThreeDistinctWhenBankIsLow(t *testing.T) {
	s := newGame(t, 2, 1)
	for _, c := range entities.GemColors {
		give(t, s, 1, entities.Tokens{c: 1})
	}
	a, err := NewRuleBrain().Decide(s, "ai_0")
	require.NoError(t, err)
	assert.Equal(t, engine.ActionTakeResources, a.Type)
	assert.Len(t, a.Tokens, 3)
	for _, n := range a.Tokens {
		assert.Equal(t, 1, n)
	}
}

func TestPrefersAffordablePurchase(t *testing.T) {
	s := newGame(t, 2, 3)
	give(t, s, 0, entities.Tokens{entities.Gold: 5})
	// 黄金可以买下任何花费不超过 5 的卡，评分最高的应当被选中
	a, err := NewRuleBrain().Decide(s, "ai_0")
	require.NoError(t, err)
	require.Equal(t, engine.ActionPurchase, a.Type)

	brain := NewRuleBrain()
	p, _ := s.Player("ai_0")
	chosen, ok := catalog.CardByID(a.CardID)
	require.True(t, ok)
	for level := 0; level < engine.Levels; level++ {
		for _, c := range s.Visible[level] {
			if engine.CanPurchase(c, p) == nil {
				assert.LessOrEqual(t, brain.PurchaseScore(c, p), brain.PurchaseScore(chosen, p))
			}
		}
	}
}

func TestPurchaseScoreFormula(t *testing.T) {
	brain := NewRuleBrain()
	p := &engine.Player{Tokens: entities.Tokens{}}
	card := entities.Card{ID: "c", Bonus: entities.Red, Points: 2, Cost: entities.Tokens{entities.Blue: 4}}
	// 2*3 + 2/(1+0) - 4*0.5
	assert.InDelta(t, 6.0, brain.PurchaseScore(card, p), 1e-9)

	p.Cards = []entities.Card{{ID: "r", Bonus: entities.Red}, {ID: "b", Bonus: entities.Blue}}
	// 2*3 + 2/(1+1) - 3*0.5
	assert.InDelta(t, 5.5, brain.PurchaseScore(card, p), 1e-9)

	p.Tokens = entities.Tokens{entities.White: 8}
	assert.InDelta(t, 10.5, brain.PurchaseScore(card, p), 1e-9)
}

// setBoard 用指定卡牌替换桌面
func setBoard(t *testing.T, s *engine.GameState, rows ...[]string) {
	t.Helper()
	for level, ids := range rows {
		s.Visible[level] = nil
		for _, id := range ids {
			c, ok := catalog.CardByID(id)
			require.True(t, ok, id)
			s.Visible[level] = append(s.Visible[level], c)
		}
	}
}

func TestReservesHighestTierWhenCrowded(t *testing.T) {
	s := newGame(t, 4, 5)
	give(t, s, 0, entities.Tokens{entities.White: 4, entities.Blue: 4})
	setBoard(t, s,
		[]string{"1-01", "1-02", "1-07", "1-08"},
		[]string{"2-02", "2-03", "2-05", "2-07"},
		[]string{"3-06", "3-03", "3-05"},
	)
	a, err := NewRuleBrain().Decide(s, "ai_0")
	require.NoError(t, err)
	assert.Equal(t, engine.Reserve("ai_0", "3-03"), a)
}

func TestPassesWhenNothingIsPossible(t *testing.T) {
	s := newGame(t, 2, 1)
	give(t, s, 0, entities.Tokens{
		entities.White: 2, entities.Blue: 2, entities.Green: 2, entities.Red: 2, entities.Black: 2,
	})
	setBoard(t, s,
		[]string{"1-01", "1-02", "1-03", "1-04"},
		[]string{"2-01", "2-02", "2-03", "2-04"},
		[]string{"3-01", "3-02", "3-03", "3-04"},
	)
	for _, id := range []string{"3-05", "3-06", "3-07"} {
		c, _ := catalog.CardByID(id)
		s.Players[0].Reserved = append(s.Players[0].Reserved, c)
	}
	a, err := NewRuleBrain().Decide(s, "ai_0")
	require.NoError(t, err)
	assert.Equal(t, engine.Pass("ai_0"), a)
}

func TestChooseDiscardDropsMostPlentifulFirst(t *testing.T) {
	s := newGame(t, 2, 1)
	give(t, s, 0, entities.Tokens{entities.White: 4, entities.Blue: 2, entities.Red: 4, entities.Gold: 1})
	s.PendingDiscard = &engine.PendingDiscard{PlayerID: "ai_0", Excess: 2}

	a, err := ChooseDiscard(s, "ai_0")
	require.NoError(t, err)
	assert.Equal(t, engine.DiscardExcess("ai_0", entities.Tokens{entities.White: 1, entities.Red: 1}), a)

	_, err = ChooseDiscard(s, "ai_1")
	assert.ErrorIs(t, err, ErrNotActor)

	// 轮到弃宝石时 Decide 也走同样的选择
	b, err := NewRuleBrain().Decide(s, "ai_0")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecideRejectsWrongActor(t *testing.T) {
	s := newGame(t, 2, 1)
	_, err := NewRuleBrain().Decide(s, "ai_1")
	assert.ErrorIs(t, err, ErrNotActor)
}

// AI 对战：每一步都必须合法，并且会买牌
func TestSelfPlayStaysLegal(t *testing.T) {
	finished := 0
	for seed := uint64(1); seed <= 10; seed++ {
		players := 2 + int(seed%3)
		s := newGame(t, players, seed)
		for steps := 0; s.Status == engine.StatusPlaying && steps < 1500; steps++ {
			a, err := NewRuleBrain().Decide(s, s.ActorID())
			require.NoError(t, err)
			next, err := engine.ApplyAction(s, a)
			require.NoError(t, err, "seed %d step %d %+v", seed, steps, a)
			s = next
		}
		bought := 0
		for _, p := range s.Players {
			bought += len(p.Cards)
		}
		assert.Positive(t, bought, "seed %d", seed)
		if s.Status == engine.StatusFinished {
			finished++
			assert.NotEmpty(t, s.Winner)
		}
	}
	t.Logf("%d/10 games finished", finished)
}
