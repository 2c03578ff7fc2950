// Package feed shapes already-fetched posts into a user's home feed.
package feed

import (
	"slices"

	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/models"
)

type Algorithm string

const (
	Latest      Algorithm = models.FeedLatest
	Popular     Algorithm = models.FeedPopular
	Recommended Algorithm = models.FeedRecommended
)

// ParseAlgorithm maps a stored value to an Algorithm. Anything unknown,
// including the empty string, falls back to Latest.
func ParseAlgorithm(s string) Algorithm {
	switch Algorithm(s) {
	case Popular:
		return Popular
	case Recommended:
		return Recommended
	default:
		return Latest
	}
}

func (a Algorithm) Valid() bool {
	return a == Latest || a == Popular || a == Recommended
}

// Preferences is the subset of a user's settings that shapes the feed.
type Preferences struct {
	Algorithm        Algorithm   `json:"feed_algorithm"`
	HiddenCategories []uuid.UUID `json:"hidden_categories"`
}

func DefaultPreferences() Preferences {
	return Preferences{Algorithm: Latest, HiddenCategories: []uuid.UUID{}}
}

// Compose filters out hidden categories and orders the remaining posts.
// Inputs are left untouched. posts are expected newest first and categories
// by name, as the store returns them.
func Compose(posts []models.Post, categories []models.Category, prefs Preferences) ([]models.Category, []models.Post) {
	hidden := make(map[uuid.UUID]struct{}, len(prefs.HiddenCategories))
	for _, id := range prefs.HiddenCategories {
		hidden[id] = struct{}{}
	}

	visible := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if _, ok := hidden[c.ID]; !ok {
			visible = append(visible, c)
		}
	}

	ordered := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if _, ok := hidden[p.CategoryID]; !ok {
			ordered = append(ordered, p)
		}
	}

	switch prefs.Algorithm {
	case Popular:
		slices.SortStableFunc(ordered, func(a, b models.Post) int {
			return b.CommentCount - a.CommentCount
		})
	case Recommended:
		slices.SortStableFunc(ordered, func(a, b models.Post) int {
			return Score(b) - Score(a)
		})
	}

	return visible, ordered
}

// Score is the recommended ranking key. A post whose author was not loaded
// contributes zero reputation.
func Score(p models.Post) int {
	return p.CommentCount + p.Author.Reputation
}
