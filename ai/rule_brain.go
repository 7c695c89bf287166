package ai

import (
	"sort"

	"go-splendor/engine"
	"go-splendor/entities"
)

// Weights 购买评分：points*Points + novelty - cost*CostPenalty (+Crowding)
type Weights struct {
	Points            float64
	Novelty           float64
	CostPenalty       float64
	Crowding          float64
	CrowdingThreshold int // 持有宝石达到该数量时优先花掉，也是预定的门槛
}

var DefaultWeights = Weights{
	Points:            3,
	Novelty:           2,
	CostPenalty:       0.5,
	Crowding:          5,
	CrowdingThreshold: 8,
}

// RuleBrain 固定优先级：买牌 > 预定 > 拿宝石 > 跳过
type RuleBrain struct {
	W Weights
}

func NewRuleBrain() *RuleBrain {
	return &RuleBrain{W: DefaultWeights}
}

func (b *RuleBrain) Name() string { return "rule" }

func (b *RuleBrain) Decide(s *engine.GameState, playerID string) (engine.Action, error) {
	if s == nil || s.Status != engine.StatusPlaying || s.ActorID() != playerID {
		return engine.Action{}, ErrNotActor
	}
	if s.PendingDiscard != nil {
		return ChooseDiscard(s, playerID)
	}
	p, _ := s.Player(playerID)

	for _, a := range b.candidates(s, p) {
		if engine.Validate(s, a) == nil {
			return a, nil
		}
	}
	return engine.Pass(playerID), nil
}

// candidates 按优先级排好的候选动作，调用方取第一个合法的
func (b *RuleBrain) candidates(s *engine.GameState, p *engine.Player) []engine.Action {
	var out []engine.Action
	out = append(out, b.purchases(s, p)...)
	if p.TokenCount() >= b.W.CrowdingThreshold && engine.CanReserve(p) == nil {
		out = append(out, reservations(s, p.ID)...)
	}
	out = append(out, takes(s, p)...)
	return out
}

type scored struct {
	action engine.Action
	score  float64
}

func (b *RuleBrain) purchases(s *engine.GameState, p *engine.Player) []engine.Action {
	var options []scored
	consider := func(c entities.Card, source engine.CardSource) {
		if engine.CanPurchase(c, p) != nil {
			return
		}
		options = append(options, scored{
			action: engine.Purchase(p.ID, c.ID, source),
			score:  b.PurchaseScore(c, p),
		})
	}
	for _, c := range p.Reserved {
		consider(c, engine.SourceReserved)
	}
	for level := 0; level < engine.Levels; level++ {
		for _, c := range s.Visible[level] {
			consider(c, engine.SourceVisible)
		}
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].score > options[j].score })

	out := make([]engine.Action, len(options))
	for i, o := range options {
		out[i] = o.action
	}
	return out
}

// PurchaseScore 分数高、新颜色、花费少的卡优先；宝石快满时额外加分
func (b *RuleBrain) PurchaseScore(c entities.Card, p *engine.Player) float64 {
	owned := p.Bonuses()[c.Bonus]
	score := float64(c.Points)*b.W.Points +
		b.W.Novelty/float64(1+owned) -
		float64(effectiveCost(c, p))*b.W.CostPenalty
	if p.TokenCount() >= b.W.CrowdingThreshold {
		score += b.W.Crowding
	}
	return score
}

// effectiveCost 扣除折扣后需要支付的宝石数（含黄金）
func effectiveCost(c entities.Card, p *engine.Player) int {
	bonus := p.Bonuses()
	total := 0
	for color, n := range c.Cost {
		if need := n - bonus[color]; need > 0 {
			total += need
		}
	}
	return total
}

// reservations 最高等级的桌面卡（同级取分数最高），桌面没牌时预定最高等级牌堆顶
func reservations(s *engine.GameState, playerID string) []engine.Action {
	var out []engine.Action
	for level := engine.Levels - 1; level >= 0; level-- {
		row := s.Visible[level]
		if len(row) == 0 {
			continue
		}
		best := row[0]
		for _, c := range row[1:] {
			if c.Points > best.Points {
				best = c
			}
		}
		out = append(out, engine.Reserve(playerID, best.ID))
		break
	}
	for level := engine.Levels; level >= 1; level-- {
		out = append(out, engine.ReserveTop(playerID, level))
	}
	return out
}

// colorNeed 桌面和预定区卡牌在各颜色上的缺口之和
func colorNeed(s *engine.GameState, p *engine.Player) entities.Tokens {
	bonus := p.Bonuses()
	need := entities.Tokens{}
	add := func(c entities.Card) {
		for color, n := range c.Cost {
			if short := n - bonus[color] - p.Tokens[color]; short > 0 {
				need[color] += short
			}
		}
	}
	for _, c := range p.Reserved {
		add(c)
	}
	for level := 0; level < engine.Levels; level++ {
		for _, c := range s.Visible[level] {
			add(c)
		}
	}
	return need
}

// rankColors 银行里还有的颜色，按缺口从大到小
func rankColors(s *engine.GameState, p *engine.Player) []entities.Color {
	need := colorNeed(s, p)
	var colors []entities.Color
	for _, c := range entities.GemColors {
		if s.Bank[c] > 0 {
			colors = append(colors, c)
		}
	}
	sort.SliceStable(colors, func(i, j int) bool { return need[colors[i]] > need[colors[j]] })
	return colors
}

func takes(s *engine.GameState, p *engine.Player) []engine.Action {
	ranked := rankColors(s, p)
	var out []engine.Action

	for _, c := range ranked {
		if s.Bank[c] >= 4 {
			out = append(out, engine.TakeResources(p.ID, entities.Tokens{c: 2}))
		}
	}
	for k := min(3, len(ranked)); k >= 1; k-- {
		sel := entities.Tokens{}
		for _, c := range ranked[:k] {
			sel[c] = 1
		}
		out = append(out, engine.TakeResources(p.ID, sel))
	}
	return out
}

// ChooseDiscard 弃掉最多的普通宝石，黄金最后弃
func ChooseDiscard(s *engine.GameState, playerID string) (engine.Action, error) {
	pd := s.PendingDiscard
	if pd == nil || pd.PlayerID != playerID {
		return engine.Action{}, ErrNotActor
	}
	p, ok := s.Player(playerID)
	if !ok {
		return engine.Action{}, ErrNotActor
	}
	left := p.Tokens.Clone()
	sel := entities.Tokens{}
	for i := 0; i < pd.Excess; i++ {
		pick := entities.Gold
		for _, c := range entities.GemColors {
			if left[c] > 0 && (pick == entities.Gold || left[c] > left[pick]) {
				pick = c
			}
		}
		left[pick]--
		sel[pick]++
	}
	a := engine.DiscardExcess(playerID, sel)
	if err := engine.Validate(s, a); err != nil {
		return engine.Action{}, err
	}
	return a, nil
}
