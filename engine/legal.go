package engine

import (
	"go-splendor/entities"
)

// LegalActions 列出当前可以行动的玩家的全部合法动作（不含重开）。
// 每个候选都经过 Validate。
func LegalActions(s *GameState) []Action {
	if s == nil || s.Status != StatusPlaying {
		return nil
	}
	var candidates []Action
	actor := s.ActorID()

	if pd := s.PendingDiscard; pd != nil {
		p, ok := s.Player(pd.PlayerID)
		if !ok {
			return nil
		}
		for _, sel := range discardSelections(p.Tokens, pd.Excess) {
			candidates = append(candidates, DiscardExcess(actor, sel))
		}
		return filterLegal(s, candidates)
	}

	for _, sel := range TakeSelections() {
		candidates = append(candidates, TakeResources(actor, sel))
	}
	for l := 0; l < Levels; l++ {
		for _, c := range s.Visible[l] {
			candidates = append(candidates, Purchase(actor, c.ID, SourceVisible))
			candidates = append(candidates, Reserve(actor, c.ID))
		}
		candidates = append(candidates, ReserveTop(actor, l+1))
	}
	if p, ok := s.Player(actor); ok {
		for _, c := range p.Reserved {
			candidates = append(candidates, Purchase(actor, c.ID, SourceReserved))
		}
	}
	candidates = append(candidates, Pass(actor))
	return filterLegal(s, candidates)
}

func filterLegal(s *GameState, candidates []Action) []Action {
	legal := make([]Action, 0, len(candidates))
	for _, a := range candidates {
		if Validate(s, a) == nil {
			legal = append(legal, a)
		}
	}
	return legal
}

// TakeSelections 所有可能的拿宝石形状：同色 2 枚、1~3 种不同颜色各 1 枚
func TakeSelections() []entities.Tokens {
	colors := entities.GemColors
	var out []entities.Tokens
	for _, c := range colors {
		out = append(out, entities.Tokens{c: 2})
	}
	for i := range colors {
		for j := i + 1; j < len(colors); j++ {
			for k := j + 1; k < len(colors); k++ {
				out = append(out, entities.Tokens{colors[i]: 1, colors[j]: 1, colors[k]: 1})
			}
		}
	}
	for i := range colors {
		for j := i + 1; j < len(colors); j++ {
			out = append(out, entities.Tokens{colors[i]: 1, colors[j]: 1})
		}
	}
	for _, c := range colors {
		out = append(out, entities.Tokens{c: 1})
	}
	return out
}

// discardSelections 从持有的宝石中选出总数为 n 的所有组合
func discardSelections(held entities.Tokens, n int) []entities.Tokens {
	var out []entities.Tokens
	cur := entities.Tokens{}
	var walk func(i, left int)
	walk = func(i, left int) {
		if left == 0 {
			out = append(out, cur.Normalize())
			return
		}
		if i == len(entities.AllColors) {
			return
		}
		c := entities.AllColors[i]
		for k := min(left, held[c]); k >= 0; k-- {
			cur[c] = k
			walk(i+1, left-k)
		}
		cur[c] = 0
	}
	walk(0, n)
	return out
}
