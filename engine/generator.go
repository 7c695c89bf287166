package engine

import (
	"errors"
	"fmt"

	"go-splendor/catalog"
	"go-splendor/entities"

	"golang.org/x/exp/rand"
)

const (
	MinPlayers = 2
	MaxPlayers = 4
	GoldTokens = 5
)

// 每种普通宝石的数量，按人数
var gemsByPlayerCount = map[int]int{2: 4, 3: 5, 4: 7}

var ErrInvalidRoster = errors.New("invalid roster")

// BankFor 开局银行宝石
func BankFor(players int) (entities.Tokens, error) {
	perColor, ok := gemsByPlayerCount[players]
	if !ok {
		return nil, fmt.Errorf("%w: 人数 %d 不在 %d~%d 之间", ErrInvalidRoster, players, MinPlayers, MaxPlayers)
	}
	bank := entities.Tokens{entities.Gold: GoldTokens}
	for _, c := range entities.GemColors {
		bank[c] = perColor
	}
	return bank, nil
}

// NewGame 按座位顺序开局：每个等级洗牌后翻开 4 张，其余为牌堆；
// 贵族洗牌后取 人数+1 张。相同 seed 得到相同的开局。
func NewGame(roster []Seat, seed uint64) (*GameState, error) {
	if err := validateRoster(roster); err != nil {
		return nil, err
	}
	bank, err := BankFor(len(roster))
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	s := &GameState{
		Bank:             bank,
		InitialTokens:    bank.Clone(),
		Status:           StatusPlaying,
		LastRoundTrigger: -1,
		FinalLapStart:    -1,
		Seed:             seed,
	}

	for level := 1; level <= Levels; level++ {
		cards := catalog.Tier(level)
		rng.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
		visible := min(VisiblePerTier, len(cards))
		s.Visible[level-1] = append([]entities.Card(nil), cards[:visible]...)
		s.Decks[level-1] = append([]entities.Card(nil), cards[visible:]...)
	}

	nobles := catalog.Nobles()
	rng.Shuffle(len(nobles), func(i, j int) {
		nobles[i], nobles[j] = nobles[j], nobles[i]
	})
	s.Nobles = append([]entities.Noble(nil), nobles[:min(len(roster)+1, len(nobles))]...)
	sortNobles(s.Nobles)

	s.Players = make([]Player, len(roster))
	for i, seat := range roster {
		name := seat.Name
		if name == "" {
			name = seat.ID
		}
		s.Players[i] = Player{
			ID:       seat.ID,
			Name:     name,
			Tokens:   entities.EmptyTokens(),
			Cards:    []entities.Card{},
			Reserved: []entities.Card{},
			Nobles:   []entities.Noble{},
		}
	}
	s.Log = []LogEntry{}
	return s, nil
}

func validateRoster(roster []Seat) error {
	if len(roster) < MinPlayers || len(roster) > MaxPlayers {
		return fmt.Errorf("%w: 人数 %d 不在 %d~%d 之间", ErrInvalidRoster, len(roster), MinPlayers, MaxPlayers)
	}
	seen := map[string]bool{}
	for _, seat := range roster {
		if seat.ID == "" {
			return fmt.Errorf("%w: 玩家 id 为空", ErrInvalidRoster)
		}
		if seen[seat.ID] {
			return fmt.Errorf("%w: 玩家 %s 重复", ErrInvalidRoster, seat.ID)
		}
		seen[seat.ID] = true
	}
	return nil
}
