package catalog

import "go-splendor/entities"

const (
	white = entities.White
	blue  = entities.Blue
	green = entities.Green
	red   = entities.Red
	black = entities.Black
)

type cost = entities.Tokens

type row struct {
	bonus  entities.Color
	points int
	cost   cost
}

var tier1Rows = []row{
	{white, 1, cost{green: 4}},
	{green, 1, cost{black: 4}},
	{black, 1, cost{blue: 4}},
	{blue, 1, cost{red: 4}},
	{red, 1, cost{white: 4}},

	{white, 0, cost{blue: 3}},
	{green, 0, cost{red: 3}},
	{black, 0, cost{green: 3}},
	{blue, 0, cost{black: 3}},
	{red, 0, cost{white: 3}},

	{white, 0, cost{red: 2, black: 1}},
	{green, 0, cost{white: 2, blue: 1}},
	{black, 0, cost{green: 2, red: 1}},
	{blue, 0, cost{black: 2, white: 1}},
	{red, 0, cost{blue: 2, green: 1}},

	{white, 0, cost{blue: 2, black: 2}},
	{green, 0, cost{blue: 2, red: 2}},
	{black, 0, cost{white: 2, green: 2}},
	{blue, 0, cost{green: 2, black: 2}},
	{red, 0, cost{white: 2, red: 2}},

	{white, 0, cost{blue: 1, green: 1, red: 1, black: 1}},
	{green, 0, cost{blue: 1, white: 1, red: 1, black: 1}},
	{black, 0, cost{blue: 1, green: 1, red: 1, white: 1}},
	{blue, 0, cost{white: 1, green: 1, red: 1, black: 1}},
	{red, 0, cost{blue: 1, green: 1, white: 1, black: 1}},

	{white, 0, cost{white: 3, blue: 1, black: 1}},
	{green, 0, cost{blue: 3, white: 1, green: 1}},
	{black, 0, cost{red: 3, green: 1, black: 1}},
	{blue, 0, cost{green: 3, red: 1, blue: 1}},
	{red, 0, cost{black: 3, red: 1, white: 1}},

	{white, 0, cost{blue: 2, green: 2, black: 1}},
	{green, 0, cost{black: 2, red: 2, blue: 1}},
	{black, 0, cost{white: 2, blue: 2, red: 1}},
	{blue, 0, cost{red: 2, green: 2, white: 1}},
	{red, 0, cost{white: 2, black: 2, green: 1}},

	{white, 0, cost{green: 2, blue: 1, red: 1, black: 1}},
	{green, 0, cost{black: 2, blue: 1, red: 1, white: 1}},
	{black, 0, cost{blue: 2, white: 1, red: 1, green: 1}},
	{blue, 0, cost{red: 2, white: 1, green: 1, black: 1}},
	{red, 0, cost{white: 2, blue: 1, green: 1, black: 1}},
}

var tier2Rows = []row{
	{white, 3, cost{white: 6}},
	{green, 3, cost{green: 6}},
	{black, 3, cost{black: 6}},
	{blue, 3, cost{blue: 6}},
	{red, 3, cost{red: 6}},

	{white, 2, cost{red: 5}},
	{green, 2, cost{green: 5}},
	{black, 2, cost{white: 5}},
	{blue, 2, cost{blue: 5}},
	{red, 2, cost{black: 5}},

	{white, 2, cost{red: 5, black: 3}},
	{green, 2, cost{blue: 5, green: 3}},
	{black, 2, cost{green: 5, red: 3}},
	{blue, 2, cost{white: 5, blue: 3}},
	{red, 2, cost{black: 5, white: 3}},

	{white, 2, cost{red: 4, black: 2, green: 1}},
	{green, 2, cost{white: 4, blue: 2, black: 1}},
	{black, 2, cost{green: 4, red: 2, blue: 1}},
	{blue, 2, cost{black: 4, white: 2, red: 1}},
	{red, 2, cost{blue: 4, green: 2, white: 1}},

	{white, 1, cost{green: 3, red: 2, black: 2}},
	{green, 1, cost{blue: 3, white: 2, black: 2}},
	{black, 1, cost{white: 3, blue: 2, green: 2}},
	{blue, 1, cost{red: 3, blue: 2, green: 2}},
	{red, 1, cost{black: 3, red: 2, white: 2}},

	{white, 1, cost{blue: 3, red: 3, white: 2}},
	{green, 1, cost{red: 3, white: 3, green: 2}},
	{black, 1, cost{white: 3, green: 3, black: 2}},
	{blue, 1, cost{green: 3, black: 3, blue: 2}},
	{red, 1, cost{blue: 3, black: 3, red: 2}},
}

var tier3Rows = []row{
	{white, 5, cost{black: 7, white: 3}},
	{green, 5, cost{blue: 7, green: 3}},
	{black, 5, cost{red: 7, black: 3}},
	{blue, 5, cost{white: 7, blue: 3}},
	{red, 5, cost{green: 7, red: 3}},

	{white, 4, cost{black: 7}},
	{green, 4, cost{blue: 7}},
	{black, 4, cost{red: 7}},
	{blue, 4, cost{white: 7}},
	{red, 4, cost{green: 7}},

	{white, 4, cost{black: 6, white: 3, red: 3}},
	{green, 4, cost{blue: 6, green: 3, white: 3}},
	{black, 4, cost{red: 6, black: 3, green: 3}},
	{blue, 4, cost{white: 6, blue: 3, black: 3}},
	{red, 4, cost{green: 6, blue: 3, red: 3}},

	{white, 3, cost{red: 5, blue: 3, green: 3, black: 3}},
	{green, 3, cost{white: 5, blue: 3, red: 3, black: 3}},
	{black, 3, cost{green: 5, white: 3, blue: 3, red: 3}},
	{blue, 3, cost{black: 5, white: 3, green: 3, red: 3}},
	{red, 3, cost{blue: 5, white: 3, green: 3, black: 3}},
}

var nobleRows = []entities.Noble{
	{ID: "N01", Name: "Mary Stuart", Cost: cost{red: 4, green: 4}},
	{ID: "N02", Name: "Charles V", Cost: cost{black: 3, red: 3, white: 3}},
	{ID: "N03", Name: "Machiavelli", Cost: cost{blue: 4, white: 4}},
	{ID: "N04", Name: "Isabella of Castile", Cost: cost{black: 4, white: 4}},
	{ID: "N05", Name: "Suleiman the Magnificent", Cost: cost{blue: 4, green: 4}},
	{ID: "N06", Name: "Catherine de' Medici", Cost: cost{green: 3, blue: 3, red: 3}},
	{ID: "N07", Name: "Anne of Brittany", Cost: cost{green: 3, blue: 3, white: 3}},
	{ID: "N08", Name: "Henry VIII", Cost: cost{black: 4, red: 4}},
	{ID: "N09", Name: "Elisabeth of Austria", Cost: cost{black: 3, blue: 3, white: 3}},
	{ID: "N10", Name: "Francis I", Cost: cost{black: 3, red: 3, green: 3}},
}
