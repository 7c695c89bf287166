// Package catalog 是只读的卡牌/贵族数据表，按 id 查询。
// 所有导出函数返回副本，调用方修改返回值不会影响数据表。
package catalog

import (
	"fmt"

	"go-splendor/entities"
)

const (
	Levels      = 3
	NoblePoints = 3
)

var (
	tiers     [Levels][]entities.Card
	cardIndex = map[string]entities.Card{}
	nobleIdx  = map[string]int{}
)

func init() {
	for level, rows := range [Levels][]row{tier1Rows, tier2Rows, tier3Rows} {
		for i, r := range rows {
			card := entities.Card{
				ID:     fmt.Sprintf("%d-%02d", level+1, i+1),
				Level:  level + 1,
				Bonus:  r.bonus,
				Points: r.points,
				Cost:   r.cost,
			}
			tiers[level] = append(tiers[level], card)
			cardIndex[card.ID] = card
		}
	}
	for i := range nobleRows {
		nobleRows[i].Points = NoblePoints
		nobleIdx[nobleRows[i].ID] = i
	}
}

func copyCard(c entities.Card) entities.Card {
	c.Cost = c.Cost.Clone()
	return c
}

func copyNoble(n entities.Noble) entities.Noble {
	n.Cost = n.Cost.Clone()
	return n
}

// Tier 返回某一等级的全部卡牌（catalog 顺序）
func Tier(level int) []entities.Card {
	if level < 1 || level > Levels {
		return nil
	}
	out := make([]entities.Card, len(tiers[level-1]))
	for i, c := range tiers[level-1] {
		out[i] = copyCard(c)
	}
	return out
}

func CardByID(id string) (entities.Card, bool) {
	c, ok := cardIndex[id]
	if !ok {
		return entities.Card{}, false
	}
	return copyCard(c), true
}

func Nobles() []entities.Noble {
	out := make([]entities.Noble, len(nobleRows))
	for i, n := range nobleRows {
		out[i] = copyNoble(n)
	}
	return out
}

func NobleByID(id string) (entities.Noble, bool) {
	i, ok := nobleIdx[id]
	if !ok {
		return entities.Noble{}, false
	}
	return copyNoble(nobleRows[i]), true
}

// NobleOrder 贵族在数据表中的位置，未知 id 返回 -1
func NobleOrder(id string) int {
	i, ok := nobleIdx[id]
	if !ok {
		return -1
	}
	return i
}

func CardCount() int {
	return len(cardIndex)
}
