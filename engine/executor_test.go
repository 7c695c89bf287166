package engine

import (
	"errors"
	"testing"

	"go-splendor/catalog"
	"go-splendor/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeTwoOfOneColorNeedsFourInBank(t *testing.T) {
	s := newTestGame(t, 2)
	require.Equal(t, 4, s.Bank[entities.Blue])

	next := mustApply(t, s, TakeResources("p0", entities.Tokens{entities.Blue: 2}))
	assert.Equal(t, 2, next.Players[0].Tokens[entities.Blue])
	assert.Equal(t, 2, next.Bank[entities.Blue])
	assert.Equal(t, 1, next.CurrentPlayer)

	// 银行只剩 3 枚时同样的动作被拒绝
	give(t, s, 1, entities.Tokens{entities.Blue: 1})
	requireRejected(t, s, TakeResources("p0", entities.Tokens{entities.Blue: 2}), CodeInsufficientBank)
	assert.ErrorIs(t, Validate(s, TakeResources("p0", entities.Tokens{entities.Blue: 2})), ErrInsufficientBank)
}

func TestPurchaseCoversShortfallWithGold(t *testing.T) {
	s := newTestGame(t, 2)
	own(t, s, 0, cardsWithBonus(t, 1, entities.Red, 1)...)
	give(t, s, 0, entities.Tokens{entities.Red: 2, entities.Gold: 2})
	showCard(t, s, "1-04")

	card, _ := catalog.CardByID("1-04")
	require.Equal(t, entities.Tokens{entities.Red: 4}, card.Cost)
	require.NoError(t, CanPurchase(card, &s.Players[0]))

	next := mustApply(t, s, Purchase("p0", "1-04", SourceVisible))
	p := next.Players[0]
	assert.Equal(t, 1, p.Tokens[entities.Gold])
	assert.Equal(t, 0, p.Tokens[entities.Red])
	assert.Len(t, p.Cards, 2)
	assert.Equal(t, 2, p.Score)
	assert.Equal(t, 4, next.Bank[entities.Gold])
	assert.Equal(t, 4, next.Bank[entities.Red])
	assert.Len(t, next.Visible[0], VisiblePerTier)

	last := next.Log[len(next.Log)-1]
	assert.Equal(t, entities.Tokens{entities.Red: 2, entities.Gold: 1}, last.Tokens)
}

func TestPurchaseRejectedWhenGoldCannotCover(t *testing.T) {
	s := newTestGame(t, 2)
	give(t, s, 0, entities.Tokens{entities.Red: 2, entities.Gold: 1})
	showCard(t, s, "1-04")
	requireRejected(t, s, Purchase("p0", "1-04", SourceVisible), CodeInsufficientResources)
	requireRejected(t, s, Purchase("p0", "1-04", SourceReserved), CodeCardNotFound)
	requireRejected(t, s, Purchase("p0", "9-99", SourceVisible), CodeCardNotFound)
	assert.ErrorIs(t, Validate(s, Purchase("p0", "9-99", SourceVisible)), ErrCardNotFound)
}

func TestPurchaseFromReservedAndFreeCard(t *testing.T) {
	s := newTestGame(t, 2)
	// 拥有 4 张红色折扣后 1-04 不需要任何宝石
	own(t, s, 0, cardsWithBonus(t, 1, entities.Red, 4)...)
	card := takeCard(t, s, "1-04")
	s.Players[0].Reserved = append(s.Players[0].Reserved, card)

	next := mustApply(t, s, Purchase("p0", "1-04", SourceReserved))
	assert.Empty(t, next.Players[0].Reserved)
	assert.Len(t, next.Players[0].Cards, 5)
	assert.Equal(t, s.Bank, next.Bank)
}

func TestLastRoundGivesEveryOtherPlayerOneMoreTurn(t *testing.T) {
	s := newTestGame(t, 3)
	own(t, s, 0, "3-07", "3-09", "3-16") // 4 + 4 + 3
	own(t, s, 1, "3-01", "3-02", "3-03") // 5 + 5 + 5
	require.Equal(t, 11, s.Players[0].Score)
	require.Equal(t, 15, s.Players[1].Score)

	s = mustApply(t, s, Pass("p0"))
	assert.False(t, s.LastRound)

	s = mustApply(t, s, Pass("p1"))
	require.True(t, s.LastRound)
	assert.Equal(t, 1, s.LastRoundTrigger)
	assert.Equal(t, 2, s.FinalLapStart)
	assert.Equal(t, StatusPlaying, s.Status)

	s = mustApply(t, s, Pass("p2"))
	assert.Equal(t, StatusPlaying, s.Status)

	// p0 最后一回合也到 15 分，但卡牌比 p1 多
	showCard(t, s, "3-06")
	give(t, s, 0, entities.Tokens{entities.Black: 5, entities.Gold: 2})
	s = mustApply(t, s, Purchase("p0", "3-06", SourceVisible))

	require.Equal(t, StatusFinished, s.Status)
	assert.Equal(t, 15, s.Players[0].Score)
	assert.Equal(t, "p1", s.Winner)
	require.Len(t, s.Standings, 3)
	assert.Equal(t, Standing{Rank: 1, PlayerID: "p1", Score: 15, Cards: 3}, s.Standings[0])
	assert.Equal(t, Standing{Rank: 2, PlayerID: "p0", Score: 15, Cards: 4}, s.Standings[1])
	assert.Equal(t, "p2", s.Standings[2].PlayerID)

	requireRejected(t, s, Pass("p1"), CodeGameFinished)
	assert.ErrorIs(t, Validate(s, Pass("p1")), ErrGameFinished)
}

func TestTwoPlayerFinalLap(t *testing.T) {
	s := newTestGame(t, 2)
	own(t, s, 0, "3-01", "3-02", "3-03")
	s = mustApply(t, s, Pass("p0"))
	require.True(t, s.LastRound)
	s = mustApply(t, s, Pass("p1"))
	assert.Equal(t, StatusFinished, s.Status)
	assert.Equal(t, "p0", s.Winner)
}

func TestFullTieKeepsSeatOrderAndSharesRank(t *testing.T) {
	players := []Player{
		{ID: "a", Cards: []entities.Card{{ID: "x", Points: 3}}},
		{ID: "b", Cards: []entities.Card{{ID: "y", Points: 3}}},
	}
	st := Standings(players)
	assert.Equal(t, "a", st[0].PlayerID)
	assert.Equal(t, 1, st[0].Rank)
	assert.Equal(t, 1, st[1].Rank)
}

func TestReserveOverflowRequiresDiscard(t *testing.T) {
	s := newTestGame(t, 2)
	give(t, s, 0, entities.Tokens{
		entities.White: 2, entities.Blue: 2, entities.Green: 2, entities.Red: 2, entities.Black: 2,
	})
	target := s.Visible[1][0].ID

	s = mustApply(t, s, Reserve("p0", target))
	require.NotNil(t, s.PendingDiscard)
	assert.Equal(t, PendingDiscard{PlayerID: "p0", Excess: 1}, *s.PendingDiscard)
	assert.Equal(t, 11, s.Players[0].TokenCount())
	assert.Equal(t, 0, s.CurrentPlayer, "turn does not advance until the discard")
	assert.Len(t, s.Visible[1], VisiblePerTier)

	requireRejected(t, s, TakeResources("p1", entities.Tokens{entities.White: 1, entities.Blue: 1, entities.Green: 1}), CodePendingDiscard)
	requireRejected(t, s, Pass("p1"), CodePendingDiscard)
	requireRejected(t, s, Pass("p0"), CodePendingDiscard)
	assert.ErrorIs(t, Validate(s, Pass("p0")), ErrPendingDiscard)
	requireRejected(t, s, RestartGame("p1", 0), CodePendingDiscard)
	requireRejected(t, s, DiscardExcess("p1", entities.Tokens{entities.White: 1}), CodePendingDiscard)
	requireRejected(t, s, DiscardExcess("p0", entities.Tokens{entities.White: 2}), CodeDiscardCountMismatch)
	requireRejected(t, s, DiscardExcess("p0", entities.Tokens{entities.White: 3}), CodeDiscardExceedsHoldings)

	s = mustApply(t, s, DiscardExcess("p0", entities.Tokens{entities.White: 1}))
	assert.Nil(t, s.PendingDiscard)
	assert.Equal(t, MaxTokens, s.Players[0].TokenCount())
	assert.Equal(t, 1, s.CurrentPlayer)

	requireRejected(t, s, DiscardExcess("p1", entities.Tokens{entities.White: 1}), CodeNoPendingDiscard)
}

func TestReserveWithoutGoldInBank(t *testing.T) {
	s := newTestGame(t, 2)
	give(t, s, 1, entities.Tokens{entities.Gold: GoldTokens})

	s = mustApply(t, s, ReserveTop("p0", 3))
	assert.Len(t, s.Players[0].Reserved, 1)
	assert.Equal(t, 0, s.Players[0].Tokens[entities.Gold])
	assert.Len(t, s.Decks[2], 20-VisiblePerTier-1)
}

func TestReservationLimit(t *testing.T) {
	s := newTestGame(t, 2)
	for i := 0; i < MaxReserved; i++ {
		s = mustApply(t, s, ReserveTop("p0", 1))
		s = mustApply(t, s, Pass("p1"))
	}
	assert.Len(t, s.Players[0].Reserved, MaxReserved)
	requireRejected(t, s, ReserveTop("p0", 1), CodeReservationLimit)
	assert.True(t, errors.Is(Validate(s, ReserveTop("p0", 1)), ErrReservationLimit))
}

func TestEmptyDeckLeavesSlotEmpty(t *testing.T) {
	s := newTestGame(t, 2)
	s.Decks[2] = nil
	target := s.Visible[2][1].ID
	requireRejected(t, s, ReserveTop("p0", 3), CodeDeckEmpty)

	s = mustApply(t, s, Reserve("p0", target))
	assert.Len(t, s.Visible[2], VisiblePerTier-1)
	for _, c := range s.Visible[2] {
		assert.NotEqual(t, target, c.ID)
	}
}

func TestClaimsAllEligibleNoblesInCatalogOrder(t *testing.T) {
	s := newTestGame(t, 2)
	n08, _ := catalog.NobleByID("N08") // black 4 red 4
	n01, _ := catalog.NobleByID("N01") // red 4 green 4
	n03, _ := catalog.NobleByID("N03") // blue 4 white 4
	s.Nobles = []entities.Noble{n01, n03, n08}

	own(t, s, 0, cardsWithBonus(t, 1, entities.Red, 4)...)
	own(t, s, 0, cardsWithBonus(t, 1, entities.Green, 4)...)
	own(t, s, 0, cardsWithBonus(t, 1, entities.Black, 4)...)
	give(t, s, 0, entities.Tokens{entities.Blue: 4, entities.White: 4})

	s = mustApply(t, s, Pass("p0"))
	p := s.Players[0]
	require.Len(t, p.Nobles, 2)
	assert.Equal(t, "N01", p.Nobles[0].ID)
	assert.Equal(t, "N08", p.Nobles[1].ID)
	assert.Equal(t, []entities.Noble{n03}, s.Nobles, "tokens never satisfy a noble")
	assert.Equal(t, []string{"N01", "N08"}, s.Log[len(s.Log)-1].Nobles)
	assert.Equal(t, 3+2*catalog.NoblePoints, p.Score)
}

func TestWrongTurnAndUnknownPlayer(t *testing.T) {
	s := newTestGame(t, 3)
	requireRejected(t, s, Pass("p1"), CodeNotYourTurn)
	requireRejected(t, s, Pass("ghost"), CodePlayerNotFound)
	requireRejected(t, s, Action{Type: "fly", PlayerID: "p0"}, CodeUnknownAction)
	requireRejected(t, s, Action{PlayerID: "p0"}, CodeMalformedAction)
	requireRejected(t, s, Reserve("p0", ""), CodeMalformedAction)
	requireRejected(t, s, ReserveTop("p0", 4), CodeInvalidTier)
	requireRejected(t, s, Purchase("p0", "1-01", "hand"), CodeInvalidSource)
}

func TestRestartRebuildsGameForSameRoster(t *testing.T) {
	s := newTestGame(t, 3)
	s = mustApply(t, s, TakeResources("p0", entities.Tokens{entities.Red: 1, entities.Blue: 1, entities.Green: 1}))

	next := mustApply(t, s, RestartGame("p2", 7))
	assert.Equal(t, StatusPlaying, next.Status)
	assert.Equal(t, uint64(7), next.Seed)
	assert.Equal(t, s.Seats(), next.Seats())
	assert.Equal(t, 0, next.CurrentPlayer)
	assert.Equal(t, 0, next.Players[0].TokenCount())
	require.Len(t, next.Log, 1)
	assert.Equal(t, ActionRestartGame, next.Log[0].Type)

	again := mustApply(t, s, RestartGame("p2", 0))
	assert.Equal(t, s.Seed+1, again.Seed)
}

func TestRestartAllowedAfterFinish(t *testing.T) {
	s := newTestGame(t, 2)
	own(t, s, 1, "3-01", "3-02", "3-03")
	s = mustApply(t, s, Pass("p0"))
	s = mustApply(t, s, Pass("p1"))
	s = mustApply(t, s, Pass("p0"))
	require.Equal(t, StatusFinished, s.Status)

	next := mustApply(t, s, RestartGame("p0", 0))
	assert.Equal(t, StatusPlaying, next.Status)
	assert.Empty(t, next.Winner)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := newTestGame(t, 2)
	before := s.Clone()
	next := mustApply(t, s, ReserveTop("p0", 2))
	assert.Equal(t, before, s)
	assert.NotEqual(t, before, next)
}

func TestBlindReservationTrackedUntilPurchased(t *testing.T) {
	s := newTestGame(t, 2)
	s = mustApply(t, s, Reserve("p0", s.Visible[0][0].ID))
	assert.Empty(t, s.Players[0].Blind)
	s = mustApply(t, s, Pass("p1"))

	top := s.Decks[0][0].ID
	s = mustApply(t, s, ReserveTop("p0", 1))
	assert.Equal(t, []string{top}, s.Players[0].Blind)
	assert.True(t, s.Players[0].IsBlind(top))
	s = mustApply(t, s, Pass("p1"))

	// 费用清零只为让购买合法
	i := findReserved(&s.Players[0], top)
	require.GreaterOrEqual(t, i, 0)
	s.Players[0].Reserved[i].Cost = entities.Tokens{}
	next := mustApply(t, s, Purchase("p0", top, SourceReserved))
	assert.Empty(t, next.Players[0].Blind)
	assert.Len(t, next.Players[0].Reserved, 1)
	assert.Equal(t, []string{top}, s.Players[0].Blind)
}

func TestBlindCardMustStayReserved(t *testing.T) {
	s := newTestGame(t, 2)
	s.Players[0].Blind = []string{"1-01"}
	var inv *InvariantError
	require.ErrorAs(t, CheckInvariants(s), &inv)
	assert.Contains(t, inv.Violations[0], "blind card 1-01")
}
