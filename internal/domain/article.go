package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is one of the fixed set of canonical news categories.
type Category string

const (
	CategoryTechnology    Category = "technology"
	CategorySports        Category = "sports"
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategoryPolitics      Category = "politics"
	CategoryWorld         Category = "world"
)

// DefaultCategory is the bucket unknown provider categories fall into.
const DefaultCategory = CategoryWorld

func Categories() []Category {
	return []Category{
		CategoryTechnology,
		CategorySports,
		CategoryBusiness,
		CategoryEntertainment,
		CategoryHealth,
		CategoryScience,
		CategoryPolitics,
		CategoryWorld,
	}
}

func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	Category    Category  `json:"category"`
	Source      string    `json:"source"`
	SourceURL   string    `json:"source_url"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	IngestedAt  time.Time `json:"ingested_at"`
	Credibility int       `json:"credibility_score"`
	Upvotes     int       `json:"upvotes"`
	Downvotes   int       `json:"downvotes"`
	Views       int       `json:"views"`
}

func (a *Article) VoteScore() int {
	return a.Upvotes - a.Downvotes
}

func (a *Article) EngagementScore() int {
	return a.Upvotes*2 + a.Views - a.Downvotes
}
