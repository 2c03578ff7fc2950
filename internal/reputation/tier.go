// Package reputation maps reputation scores to display tiers.
package reputation

// Points awarded by the content service.
const (
	PostReward    = 5
	CommentReward = 2
)

type Tier struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

var tiers = []struct {
	min  int
	tier Tier
}{
	{100, Tier{Name: "Community Leader", Rank: 4}},
	{50, Tier{Name: "Rising Star", Rank: 3}},
	{25, Tier{Name: "Active Padi", Rank: 2}},
	{10, Tier{Name: "Contributor", Rank: 1}},
}

var newcomer = Tier{Name: "New Padi", Rank: 0}

// TierOf returns the highest tier whose threshold rep reaches.
func TierOf(rep int) Tier {
	for _, t := range tiers {
		if rep >= t.min {
			return t.tier
		}
	}
	return newcomer
}
