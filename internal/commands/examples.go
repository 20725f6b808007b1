package commands

// Example is a sample article offered when no source is given.
type Example struct {
	URL   string
	Title string
	Site  string
}

// Examples are shown in the source picker.
var Examples = []Example{
	{
		URL:   "http://paulgraham.com/ds.html",
		Title: "Do Things That Don't Scale",
		Site:  "Paul Graham",
	},
	{
		URL:   "https://en.wikipedia.org/wiki/Domino's",
		Title: "Domino's",
		Site:  "Wikipedia",
	},
	{
		URL:   "https://www.vox.com/future-perfect/2023/4/1/23664724/baseball-artificial-intelligence-kyle-schwarber-philadelphia-phillies-moneyball-strikeout-homerun",
		Title: "How baseball's analytics revolution is changing the game, and the players",
		Site:  "Vox",
	},
}
