package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/newsify/newsify/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestScoreFreshNeutralArticle(t *testing.T) {
	now := time.Now()
	a := &domain.Article{
		Category:    domain.CategoryTechnology,
		PublishedAt: now,
		Credibility: 7,
	}

	// recency 10, engagement 0, credibility 7, affinity 5
	got := Score(a, domain.Preferences{}, now)

	assert.InDelta(t, 5.4, got, 0.001)
}

func TestScoreRewardsAffinity(t *testing.T) {
	now := time.Now()
	a := &domain.Article{
		Category:    domain.CategoryScience,
		PublishedAt: now.Add(-2 * time.Hour),
		Credibility: 7,
	}

	neutral := Score(a, domain.Preferences{}, now)
	engaged := Score(a, domain.Preferences{domain.CategoryScience: 9}, now)

	assert.Greater(t, engaged, neutral)
	assert.InDelta(t, 0.2*(9-5), engaged-neutral, 0.001)
}

func TestScoreRecencyFloorsAtZero(t *testing.T) {
	now := time.Now()
	old := &domain.Article{
		Category:    domain.CategoryWorld,
		PublishedAt: now.Add(-300 * 24 * time.Hour),
		Credibility: 7,
	}
	older := &domain.Article{
		Category:    domain.CategoryWorld,
		PublishedAt: now.Add(-400 * 24 * time.Hour),
		Credibility: 7,
	}

	// Past ten days recency contributes nothing, so age stops mattering.
	assert.InDelta(t, Score(old, nil, now), Score(older, nil, now), 0.001)
}

func TestScoreEngagementSaturates(t *testing.T) {
	now := time.Now()
	popular := &domain.Article{PublishedAt: now, Credibility: 7, Upvotes: 200, Views: 1000}
	viral := &domain.Article{PublishedAt: now, Credibility: 7, Upvotes: 100000, Views: 9999999}

	assert.InDelta(t, Score(popular, nil, now), Score(viral, nil, now), 0.001)
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "empty content reads as one minute", content: "", want: 1},
		{name: "short content reads as one minute", content: "a few words here", want: 1},
		{name: "four hundred words read as two minutes", content: strings.Repeat("word ", 400), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &domain.Article{Content: tt.content}
			assert.Equal(t, tt.want, ReadingTime(a))
		})
	}
}

func TestReadingTimeFallsBackToDescription(t *testing.T) {
	a := &domain.Article{Description: strings.Repeat("word ", 600)}

	assert.Equal(t, 3, ReadingTime(a))
}

func TestTrending(t *testing.T) {
	tests := []struct {
		name     string
		upvotes  int
		comments int
		want     bool
	}{
		{name: "high upvotes", upvotes: 11, comments: 0, want: true},
		{name: "solid upvotes with discussion", upvotes: 6, comments: 3, want: true},
		{name: "solid upvotes without discussion", upvotes: 6, comments: 2, want: false},
		{name: "quiet article", upvotes: 2, comments: 10, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &domain.Article{Upvotes: tt.upvotes}
			assert.Equal(t, tt.want, Trending(a, tt.comments))
		})
	}
}
