package engine

import (
	"fmt"

	"go-splendor/entities"
)

// CheckInvariants 检查宝石守恒、上限、预定数量、桌面数量以及卡牌唯一性
func CheckInvariants(s *GameState) error {
	var v []string
	add := func(format string, args ...any) {
		v = append(v, fmt.Sprintf(format, args...))
	}

	for _, c := range entities.AllColors {
		total := s.Bank[c]
		if s.Bank[c] < 0 {
			add("bank %s = %d", c, s.Bank[c])
		}
		for _, p := range s.Players {
			total += p.Tokens[c]
			if p.Tokens[c] < 0 {
				add("player %s %s = %d", p.ID, c, p.Tokens[c])
			}
		}
		if total != s.InitialTokens[c] {
			add("%s tokens %d, expected %d", c, total, s.InitialTokens[c])
		}
	}

	for _, p := range s.Players {
		limit := MaxTokens
		if s.PendingDiscard != nil && s.PendingDiscard.PlayerID == p.ID {
			limit += s.PendingDiscard.Excess
			if p.TokenCount() != limit {
				add("player %s holds %d tokens, pending excess %d", p.ID, p.TokenCount(), s.PendingDiscard.Excess)
			}
		}
		if p.TokenCount() > limit {
			add("player %s holds %d tokens", p.ID, p.TokenCount())
		}
		if len(p.Reserved) > MaxReserved {
			add("player %s reserved %d cards", p.ID, len(p.Reserved))
		}
		for _, id := range p.Blind {
			if findReserved(&p, id) < 0 {
				add("player %s blind card %s not reserved", p.ID, id)
			}
		}
	}

	seen := map[string]bool{}
	mark := func(where, id string) {
		if seen[id] {
			add("card %s duplicated (%s)", id, where)
		}
		seen[id] = true
	}
	for l := 0; l < Levels; l++ {
		if len(s.Visible[l]) > VisiblePerTier {
			add("tier %d shows %d cards", l+1, len(s.Visible[l]))
		}
		for _, c := range s.Visible[l] {
			mark("visible", c.ID)
		}
		for _, c := range s.Decks[l] {
			mark("deck", c.ID)
		}
	}
	for _, p := range s.Players {
		for _, c := range p.Cards {
			mark("owned", c.ID)
		}
		for _, c := range p.Reserved {
			mark("reserved", c.ID)
		}
	}

	if len(s.Players) > 0 && (s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players)) {
		add("current player index %d", s.CurrentPlayer)
	}

	if len(v) > 0 {
		return &InvariantError{Violations: v}
	}
	return nil
}
