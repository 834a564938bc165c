package feed_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/feed"
	"github.com/newsify/newsify/internal/storage/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(store *inmem.Store, now time.Time) *feed.Builder {
	return feed.NewBuilder(store, store, store, feed.WithClock(func() time.Time { return now }))
}

func insert(t *testing.T, store *inmem.Store, a *domain.Article) *domain.Article {
	t.Helper()
	if a.SourceURL == "" {
		a.SourceURL = "https://example.com/" + a.Title
	}
	if a.Credibility == 0 {
		a.Credibility = 7
	}
	inserted, err := store.Insert(context.Background(), a)
	require.NoError(t, err)
	require.True(t, inserted)
	return a
}

func TestBuildRanksByAffinity(t *testing.T) {
	store := inmem.NewStore()
	now := time.Now()
	b := newBuilder(store, now)

	insert(t, store, &domain.Article{Title: "world news", Category: domain.CategoryWorld, PublishedAt: now})
	insert(t, store, &domain.Article{Title: "tech news", Category: domain.CategoryTechnology, PublishedAt: now})

	prefs := domain.Preferences{domain.CategoryTechnology: 10}
	result, err := b.Build(context.Background(), "s1", prefs, feed.Params{})
	require.NoError(t, err)

	require.Len(t, result.News, 2)
	assert.Equal(t, "tech news", result.News[0].Title)
	assert.True(t, result.News[0].Personalized)
	assert.False(t, result.News[1].Personalized)
	assert.Equal(t, []string{"technology"}, result.UserPreferences)
}

func TestBuildTruncatesToPageSize(t *testing.T) {
	store := inmem.NewStore()
	now := time.Now()
	b := newBuilder(store, now)

	for i := 0; i < 25; i++ {
		insert(t, store, &domain.Article{
			Title:       fmt.Sprintf("article %d", i),
			Category:    domain.CategoryWorld,
			PublishedAt: now,
		})
	}

	result, err := b.Build(context.Background(), "s1", domain.Preferences{}, feed.Params{})
	require.NoError(t, err)
	assert.Len(t, result.News, feed.DefaultPageSize)
	assert.Equal(t, feed.DefaultPageSize, result.TotalArticles)

	capped, err := b.Build(context.Background(), "s1", domain.Preferences{}, feed.Params{Size: 500})
	require.NoError(t, err)
	assert.Len(t, capped.News, 25, "oversized requests clamp to the max, not to zero")
}

func TestBuildBreaksScoreTiesByIngestionOrder(t *testing.T) {
	store := inmem.NewStore()
	now := time.Now()
	b := newBuilder(store, now)

	// Both articles sit past the recency floor, so their scores are
	// identical; the listing itself orders newest-published first.
	older := insert(t, store, &domain.Article{
		Title:       "stored first",
		Category:    domain.CategoryWorld,
		PublishedAt: now.Add(-400 * 24 * time.Hour),
		IngestedAt:  now.Add(-2 * time.Hour),
	})
	insert(t, store, &domain.Article{
		Title:       "stored second",
		Category:    domain.CategoryWorld,
		PublishedAt: now.Add(-300 * 24 * time.Hour),
		IngestedAt:  now.Add(-1 * time.Hour),
	})

	result, err := b.Build(context.Background(), "s1", domain.Preferences{}, feed.Params{})
	require.NoError(t, err)

	require.Len(t, result.News, 2)
	assert.Equal(t, result.News[0].Score, result.News[1].Score)
	assert.Equal(t, older.Title, result.News[0].Title)
}

func TestBuildCategoryAndSearchFilter(t *testing.T) {
	store := inmem.NewStore()
	now := time.Now()
	b := newBuilder(store, now)

	insert(t, store, &domain.Article{Title: "quantum computing leap", Category: domain.CategoryScience, PublishedAt: now})
	insert(t, store, &domain.Article{Title: "transfer window drama", Category: domain.CategorySports, PublishedAt: now})

	science := domain.CategoryScience
	result, err := b.Build(context.Background(), "s1", nil, feed.Params{Category: &science})
	require.NoError(t, err)
	require.Len(t, result.News, 1)
	assert.Equal(t, "quantum computing leap", result.News[0].Title)

	searched, err := b.Build(context.Background(), "s1", nil, feed.Params{Search: "transfer"})
	require.NoError(t, err)
	require.Len(t, searched.News, 1)
	assert.Equal(t, "sports", searched.News[0].Category)
}

func TestBuildDecoratesWithVotesAndComments(t *testing.T) {
	store := inmem.NewStore()
	now := time.Now()
	b := newBuilder(store, now)
	ctx := context.Background()

	a := insert(t, store, &domain.Article{Title: "hot story", Category: domain.CategoryWorld, PublishedAt: now})

	_, err := store.ApplyVote(ctx, a.ID, "me", domain.VoteUp)
	require.NoError(t, err)
	for i := 0; i < 7; i++ {
		require.NoError(t, store.Add(ctx, &domain.Comment{
			ArticleID: a.ID,
			SessionID: "someone",
			Text:      fmt.Sprintf("comment %d", i),
		}))
	}

	result, err := b.Build(ctx, "me", domain.Preferences{}, feed.Params{})
	require.NoError(t, err)
	require.Len(t, result.News, 1)

	item := result.News[0]
	require.NotNil(t, item.UserVote)
	assert.Equal(t, "up", *item.UserVote)
	assert.Len(t, item.Comments, 5)
	assert.Equal(t, 1, item.Upvotes)
	assert.False(t, item.Trending)
	assert.Equal(t, "Just now", item.Time)
	assert.GreaterOrEqual(t, item.ReadingTime, 1)
}

func TestBuildAnonymousCallerHasNoVotes(t *testing.T) {
	store := inmem.NewStore()
	now := time.Now()
	b := newBuilder(store, now)
	ctx := context.Background()

	a := insert(t, store, &domain.Article{Title: "story", Category: domain.CategoryWorld, PublishedAt: now})
	_, err := store.ApplyVote(ctx, a.ID, "someone-else", domain.VoteUp)
	require.NoError(t, err)

	result, err := b.Build(ctx, "me", domain.Preferences{}, feed.Params{})
	require.NoError(t, err)
	require.Len(t, result.News, 1)
	assert.Nil(t, result.News[0].UserVote)
}

func TestHeadlinesScoreIsEngagementSum(t *testing.T) {
	store := inmem.NewStore()
	now := time.Now()
	b := newBuilder(store, now)
	ctx := context.Background()

	a := insert(t, store, &domain.Article{Title: "leader", Category: domain.CategoryWorld, PublishedAt: now})
	insert(t, store, &domain.Article{Title: "runner up", Category: domain.CategoryWorld, PublishedAt: now})

	for i := 0; i < 3; i++ {
		_, err := store.ApplyVote(ctx, a.ID, fmt.Sprintf("s%d", i), domain.VoteUp)
		require.NoError(t, err)
	}
	require.NoError(t, store.Add(ctx, &domain.Comment{ArticleID: a.ID, Text: "first"}))

	items, err := b.Headlines(ctx, "me", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "leader", items[0].Title)
	assert.Equal(t, 4.0, items[0].Score)
}

func TestArchiveReturnsOnlyOldArticles(t *testing.T) {
	store := inmem.NewStore()
	now := time.Now()
	b := newBuilder(store, now)

	insert(t, store, &domain.Article{Title: "fresh", Category: domain.CategoryWorld, PublishedAt: now})
	insert(t, store, &domain.Article{Title: "stale", Category: domain.CategoryWorld, PublishedAt: now.Add(-20 * 24 * time.Hour)})

	cutoff := now.AddDate(0, 0, -14)
	items, err := b.Archive(context.Background(), "me", cutoff, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "stale", items[0].Title)
}
