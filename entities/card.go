package entities

// Color 宝石颜色，Gold 为万能（黄金）
type Color string

const (
	White Color = "White"
	Blue  Color = "Blue"
	Green Color = "Green"
	Red   Color = "Red"
	Black Color = "Black"
	Gold  Color = "Gold"
)

// GemColors 五种普通宝石，顺序即展示/遍历顺序
var GemColors = []Color{White, Blue, Green, Red, Black}

// AllColors 含黄金
var AllColors = []Color{White, Blue, Green, Red, Black, Gold}

func IsGemColor(c Color) bool {
	for _, g := range GemColors {
		if g == c {
			return true
		}
	}
	return false
}

func IsValidColor(c Color) bool {
	return c == Gold || IsGemColor(c)
}

// Tokens 颜色 -> 数量，缺省颜色视为 0
type Tokens map[Color]int

func (t Tokens) Total() int {
	sum := 0
	for _, n := range t {
		sum += n
	}
	return sum
}

func (t Tokens) Clone() Tokens {
	if t == nil {
		return nil
	}
	out := make(Tokens, len(t))
	for c, n := range t {
		out[c] = n
	}
	return out
}

// Normalize 去掉数量为 0 的颜色
func (t Tokens) Normalize() Tokens {
	out := Tokens{}
	for c, n := range t {
		if n != 0 {
			out[c] = n
		}
	}
	return out
}

func EmptyTokens() Tokens {
	t := Tokens{}
	for _, c := range AllColors {
		t[c] = 0
	}
	return t
}

type Card struct {
	ID     string `json:"id"`     // e.g. "2-07"
	Level  int    `json:"level"`  // 1/2/3
	Bonus  Color  `json:"bonus"`  // 折扣颜色
	Points int    `json:"points"` // 荣誉分
	Cost   Tokens `json:"cost"`   // 五色费用
}

type Noble struct {
	ID     string `json:"id"`     // e.g. "N03"
	Name   string `json:"name"`
	Cost   Tokens `json:"cost"`   // 需要的卡牌折扣，如 {Red:4, Green:4}
	Points int    `json:"points"` // 固定 3 分
}
