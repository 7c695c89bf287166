package engine

import (
	"sort"

	"go-splendor/catalog"
	"go-splendor/entities"
)

// ApplyAction 校验并执行一个动作，返回新的状态。
// 输入状态永远不会被修改；被拒绝时返回 *Rejection，
// 执行后不变量不成立时返回 *InvariantError。
func ApplyAction(s *GameState, a Action) (*GameState, error) {
	if err := Validate(s, a); err != nil {
		return nil, err
	}

	if a.Type == ActionRestartGame {
		return restart(s, a)
	}

	next := s.Clone()
	idx := next.PlayerIndex(a.PlayerID)
	player := &next.Players[idx]
	entry := LogEntry{Turn: next.Turn, PlayerID: a.PlayerID, Type: a.Type}

	switch a.Type {
	case ActionTakeResources:
		sel := a.Tokens.Normalize()
		moveTokens(next.Bank, player.Tokens, sel)
		entry.Tokens = sel
	case ActionPurchase:
		entry.CardID = a.CardID
		entry.Tokens = purchase(next, player, a)
	case ActionReserve:
		entry.CardID, entry.Tokens = reserve(next, player, a)
	case ActionDiscardExcess:
		sel := a.Tokens.Normalize()
		moveTokens(player.Tokens, next.Bank, sel)
		entry.Tokens = sel
		next.PendingDiscard = nil
	case ActionPass:
	}

	if a.Type == ActionDiscardExcess {
		appendLog(next, entry)
		advanceTurn(next)
	} else {
		entry.Nobles = claimNobles(next, player)
		player.Score = player.computeScore()
		appendLog(next, entry)
		endTurn(next, player)
	}

	if err := CheckInvariants(next); err != nil {
		return nil, err
	}
	return next, nil
}

func restart(s *GameState, a Action) (*GameState, error) {
	seed := a.Seed
	if seed == 0 {
		seed = s.Seed + 1
	}
	next, err := NewGame(s.Seats(), seed)
	if err != nil {
		return nil, reject(CodeMalformedAction, "%v", err)
	}
	appendLog(next, LogEntry{PlayerID: a.PlayerID, Type: ActionRestartGame})
	return next, nil
}

func appendLog(s *GameState, entry LogEntry) {
	entry.Seq = len(s.Log) + 1
	s.Log = append(s.Log, entry)
}

func moveTokens(from, to, sel entities.Tokens) {
	for c, n := range sel {
		from[c] -= n
		to[c] += n
	}
}

func purchase(s *GameState, p *Player, a Action) entities.Tokens {
	var card entities.Card
	if a.Source == SourceReserved {
		i := findReserved(p, a.CardID)
		card = p.Reserved[i]
		p.Reserved = append(p.Reserved[:i], p.Reserved[i+1:]...)
		p.Blind = removeID(p.Blind, card.ID)
	} else {
		level, slot := s.findVisible(a.CardID)
		card = s.Visible[level][slot]
		replenish(s, level, slot)
	}
	pay, _ := payment(card, p)
	moveTokens(p.Tokens, s.Bank, pay)
	p.Cards = append(p.Cards, card)
	return pay
}

func reserve(s *GameState, p *Player, a Action) (string, entities.Tokens) {
	var card entities.Card
	if a.CardID != "" {
		level, slot := s.findVisible(a.CardID)
		card = s.Visible[level][slot]
		replenish(s, level, slot)
	} else {
		deck := s.Decks[a.Tier-1]
		card = deck[0]
		s.Decks[a.Tier-1] = deck[1:]
		p.Blind = append(p.Blind, card.ID)
	}
	p.Reserved = append(p.Reserved, card)

	var granted entities.Tokens
	if s.Bank[entities.Gold] > 0 {
		granted = entities.Tokens{entities.Gold: 1}
		moveTokens(s.Bank, p.Tokens, granted)
	}
	return card.ID, granted
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// replenish 从牌堆补一张到空出的位置，牌堆空了就让该位置空着
func replenish(s *GameState, level, slot int) {
	row := s.Visible[level]
	deck := s.Decks[level]
	if len(deck) > 0 {
		row[slot] = deck[0]
		s.Decks[level] = deck[1:]
		return
	}
	s.Visible[level] = append(row[:slot], row[slot+1:]...)
}

// claimNobles 领取所有满足条件的贵族，按数据表顺序
func claimNobles(s *GameState, p *Player) []string {
	var claimed []string
	remaining := s.Nobles[:0:0]
	for _, n := range s.Nobles {
		if CanClaimNoble(n, p) {
			p.Nobles = append(p.Nobles, n)
			claimed = append(claimed, n.ID)
			continue
		}
		remaining = append(remaining, n)
	}
	s.Nobles = remaining
	return claimed
}

// endTurn 超出宝石上限时进入弃宝石子状态，否则轮到下一位
func endTurn(s *GameState, p *Player) {
	if over := p.TokenCount() - MaxTokens; over > 0 {
		s.PendingDiscard = &PendingDiscard{PlayerID: p.ID, Excess: over}
		return
	}
	advanceTurn(s)
}

// advanceTurn 检查终局条件并轮转。
// 有人达到目标分后，其余玩家各再行动一次，轮回到触发者时结束。
func advanceTurn(s *GameState) {
	n := len(s.Players)
	idx := s.CurrentPlayer
	if !s.LastRound && s.Players[idx].Score >= TargetScore {
		s.LastRound = true
		s.LastRoundTrigger = idx
		s.FinalLapStart = (idx + 1) % n
	}
	s.Turn++
	s.CurrentPlayer = (idx + 1) % n
	if s.LastRound && s.CurrentPlayer == s.LastRoundTrigger {
		finish(s)
	}
}

func finish(s *GameState) {
	s.Status = StatusFinished
	s.Standings = Standings(s.Players)
	if len(s.Standings) > 0 {
		s.Winner = s.Standings[0].PlayerID
	}
}

// Standings 按分数降序、卡牌数升序排名，完全相同时名次并列、座位靠前者在前
func Standings(players []Player) []Standing {
	out := make([]Standing, len(players))
	for i, p := range players {
		out[i] = Standing{PlayerID: p.ID, Score: p.computeScore(), Cards: len(p.Cards)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Cards < out[j].Cards
	})
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score && out[i].Cards == out[i-1].Cards {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}

// sortNobles 按数据表顺序排列
func sortNobles(nobles []entities.Noble) {
	sort.SliceStable(nobles, func(i, j int) bool {
		return catalog.NobleOrder(nobles[i].ID) < catalog.NobleOrder(nobles[j].ID)
	})
}
