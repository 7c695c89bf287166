package engine

import (
	"go-splendor/entities"
)

// Validate 判断动作在当前状态下是否合法，不修改状态。
// ApplyAction 每次执行前都会重新调用它。
func Validate(s *GameState, a Action) error {
	if s == nil {
		return reject(CodeMalformedAction, "状态为空")
	}
	if err := checkShape(a); err != nil {
		return err
	}
	idx := s.PlayerIndex(a.PlayerID)
	if idx < 0 {
		return reject(CodePlayerNotFound, "玩家 %s 不在本局", a.PlayerID)
	}

	if a.Type == ActionRestartGame {
		if s.PendingDiscard != nil {
			return reject(CodePendingDiscard, "等待玩家 %s 弃宝石", s.PendingDiscard.PlayerID)
		}
		if s.Status == StatusWaiting {
			return reject(CodeGameNotPlaying, "游戏尚未开始")
		}
		return nil
	}

	switch s.Status {
	case StatusFinished:
		return reject(CodeGameFinished, "游戏已结束")
	case StatusPlaying:
	default:
		return reject(CodeGameNotPlaying, "当前状态 %s", s.Status)
	}

	if pd := s.PendingDiscard; pd != nil {
		if a.Type != ActionDiscardExcess || a.PlayerID != pd.PlayerID {
			return reject(CodePendingDiscard, "等待玩家 %s 弃掉 %d 枚宝石", pd.PlayerID, pd.Excess)
		}
		return CanDiscard(s, a.PlayerID, a.Tokens)
	}
	if a.Type == ActionDiscardExcess {
		return reject(CodeNoPendingDiscard, "当前无需弃宝石")
	}
	if idx != s.CurrentPlayer {
		return reject(CodeNotYourTurn, "当前回合玩家为 %s", s.CurrentPlayerID())
	}

	player := &s.Players[idx]
	switch a.Type {
	case ActionTakeResources:
		return CanTakeResources(s, idx, a.Tokens)
	case ActionPurchase:
		card, err := locatePurchase(s, player, a)
		if err != nil {
			return err
		}
		return CanPurchase(card, player)
	case ActionReserve:
		if err := CanReserve(player); err != nil {
			return err
		}
		_, err := locateReserve(s, a)
		return err
	case ActionPass:
		return nil
	}
	return reject(CodeUnknownAction, "未知动作 %s", a.Type)
}

func checkShape(a Action) error {
	switch a.Type {
	case ActionTakeResources, ActionDiscardExcess:
		for c, n := range a.Tokens {
			if !entities.IsValidColor(c) {
				return reject(CodeUnknownColor, "未知颜色 %s", c)
			}
			if n < 0 {
				return reject(CodeNegativeCount, "%s 数量为 %d", c, n)
			}
		}
	case ActionPurchase:
		if a.CardID == "" {
			return reject(CodeMalformedAction, "缺少 cardId")
		}
		if a.Source != "" && a.Source != SourceVisible && a.Source != SourceReserved {
			return reject(CodeInvalidSource, "未知来源 %s", a.Source)
		}
	case ActionReserve:
		if (a.CardID == "") == (a.Tier == 0) {
			return reject(CodeMalformedAction, "预定需要 cardId 或 tier 其中之一")
		}
		if a.CardID == "" && (a.Tier < 1 || a.Tier > Levels) {
			return reject(CodeInvalidTier, "等级 %d 不存在", a.Tier)
		}
	case ActionRestartGame, ActionPass:
	case "":
		return reject(CodeMalformedAction, "缺少动作类型")
	default:
		return reject(CodeUnknownAction, "未知动作 %s", a.Type)
	}
	if a.PlayerID == "" {
		return reject(CodeMalformedAction, "缺少 playerId")
	}
	return nil
}

// CanTakeResources 拿宝石：同色两枚（该色银行 ≥4），或三种不同颜色各一枚。
// 剩余空间只有 1~2 枚时可以只拿 1~2 种颜色。
func CanTakeResources(s *GameState, playerIdx int, selection entities.Tokens) error {
	sel := selection.Normalize()
	for c, n := range sel {
		if !entities.IsValidColor(c) {
			return reject(CodeUnknownColor, "未知颜色 %s", c)
		}
		if n < 0 {
			return reject(CodeNegativeCount, "%s 数量为 %d", c, n)
		}
		if c == entities.Gold {
			return reject(CodeWildcardNotTakeable, "黄金只能通过预定获得")
		}
	}
	if len(sel) == 0 {
		return reject(CodeEmptySelection, "没有选择宝石")
	}

	room := MaxTokens - s.Players[playerIdx].TokenCount()

	if len(sel) == 1 {
		for c, n := range sel {
			if n > 2 {
				return reject(CodeIllegalSelectionShape, "同色最多拿 2 枚")
			}
			if n == 2 {
				if s.Bank[c] < 4 {
					return reject(CodeInsufficientBank, "%s 剩余 %d 枚，同色拿 2 枚需要至少 4 枚", c, s.Bank[c])
				}
				if room < 2 {
					return reject(CodeTokenLimitExceeded, "宝石上限 %d，剩余空间 %d", MaxTokens, room)
				}
				return nil
			}
		}
	}

	for c, n := range sel {
		if n != 1 {
			return reject(CodeIllegalSelectionShape, "多色选择每种只能 1 枚")
		}
		if s.Bank[c] < 1 {
			return reject(CodeInsufficientBank, "%s 已经没有了", c)
		}
	}

	total := len(sel)
	if total > room {
		return reject(CodeTokenLimitExceeded, "宝石上限 %d，剩余空间 %d", MaxTokens, room)
	}
	limit := min(3, room, availableGemColors(s.Bank))
	if total > limit {
		return reject(CodeIllegalSelectionShape, "最多选择 %d 种颜色", limit)
	}
	if limit == 3 && total != 3 {
		return reject(CodeIllegalSelectionShape, "需要选择 3 种不同颜色")
	}
	return nil
}

func availableGemColors(bank entities.Tokens) int {
	n := 0
	for _, c := range entities.GemColors {
		if bank[c] > 0 {
			n++
		}
	}
	return n
}

// payment 计算购买所需的支付：先用折扣，再用同色宝石，缺口用黄金
func payment(card entities.Card, p *Player) (pay entities.Tokens, shortfall int) {
	bonus := p.Bonuses()
	pay = entities.Tokens{}
	for _, c := range entities.GemColors {
		need := card.Cost[c] - bonus[c]
		if need <= 0 {
			continue
		}
		fromTokens := min(need, p.Tokens[c])
		if fromTokens > 0 {
			pay[c] = fromTokens
		}
		shortfall += need - fromTokens
	}
	if shortfall > 0 {
		pay[entities.Gold] = shortfall
	}
	return pay, shortfall
}

// CanPurchase 各色缺口之和不超过玩家的黄金数即可购买
func CanPurchase(card entities.Card, p *Player) error {
	_, shortfall := payment(card, p)
	if shortfall > p.Tokens[entities.Gold] {
		return reject(CodeInsufficientResources, "购买 %s 还差 %d 枚", card.ID, shortfall-p.Tokens[entities.Gold])
	}
	return nil
}

func CanReserve(p *Player) error {
	if len(p.Reserved) >= MaxReserved {
		return reject(CodeReservationLimit, "最多预定 %d 张", MaxReserved)
	}
	return nil
}

// CanClaimNoble 只看已购卡牌的折扣，黄金和宝石都不算
func CanClaimNoble(n entities.Noble, p *Player) bool {
	bonus := p.Bonuses()
	for c, need := range n.Cost {
		if bonus[c] < need {
			return false
		}
	}
	return true
}

// CanDiscard 弃宝石的总数必须正好等于超出的数量
func CanDiscard(s *GameState, playerID string, selection entities.Tokens) error {
	pd := s.PendingDiscard
	if pd == nil {
		return reject(CodeNoPendingDiscard, "当前无需弃宝石")
	}
	if pd.PlayerID != playerID {
		return reject(CodePendingDiscard, "等待玩家 %s 弃宝石", pd.PlayerID)
	}
	p, ok := s.Player(playerID)
	if !ok {
		return reject(CodePlayerNotFound, "玩家 %s 不在本局", playerID)
	}
	sel := selection.Normalize()
	for c, n := range sel {
		if !entities.IsValidColor(c) {
			return reject(CodeUnknownColor, "未知颜色 %s", c)
		}
		if n < 0 {
			return reject(CodeNegativeCount, "%s 数量为 %d", c, n)
		}
		if n > p.Tokens[c] {
			return reject(CodeDiscardExceedsHoldings, "%s 只有 %d 枚", c, p.Tokens[c])
		}
	}
	if sel.Total() != pd.Excess {
		return reject(CodeDiscardCountMismatch, "需要弃掉 %d 枚，实际 %d 枚", pd.Excess, sel.Total())
	}
	return nil
}

func locatePurchase(s *GameState, p *Player, a Action) (entities.Card, error) {
	if a.Source == SourceReserved {
		i := findReserved(p, a.CardID)
		if i < 0 {
			return entities.Card{}, reject(CodeCardNotFound, "预定区没有卡牌 %s", a.CardID)
		}
		return p.Reserved[i], nil
	}
	level, slot := s.findVisible(a.CardID)
	if level < 0 {
		return entities.Card{}, reject(CodeCardNotFound, "桌面没有卡牌 %s", a.CardID)
	}
	return s.Visible[level][slot], nil
}

func locateReserve(s *GameState, a Action) (entities.Card, error) {
	if a.CardID != "" {
		level, slot := s.findVisible(a.CardID)
		if level < 0 {
			return entities.Card{}, reject(CodeCardNotFound, "桌面没有卡牌 %s", a.CardID)
		}
		return s.Visible[level][slot], nil
	}
	deck := s.Decks[a.Tier-1]
	if len(deck) == 0 {
		return entities.Card{}, reject(CodeDeckEmpty, "等级 %d 牌堆已空", a.Tier)
	}
	return deck[0], nil
}
