package engage_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/engage"
	"github.com/newsify/newsify/internal/storage"
	"github.com/newsify/newsify/internal/storage/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*engage.Service, *inmem.Store, *domain.Article) {
	t.Helper()
	store := inmem.NewStore()
	svc := engage.NewService(store, store, store, store, store)

	a := &domain.Article{
		Title:       "Rate cut expected",
		Category:    domain.CategoryBusiness,
		SourceURL:   "https://example.com/rates",
		PublishedAt: time.Now(),
		Credibility: 9,
	}
	inserted, err := store.Insert(context.Background(), a)
	require.NoError(t, err)
	require.True(t, inserted)

	return svc, store, a
}

func sessionPrefs(t *testing.T, store *inmem.Store, sessionID string) domain.Preferences {
	t.Helper()
	prefs, err := store.GetSession(context.Background(), sessionID)
	require.NoError(t, err)
	return prefs
}

func TestVoteAdjustsPreferencesOnlyOnCreation(t *testing.T) {
	svc, store, a := setup(t)
	ctx := context.Background()

	// New vote nudges affinity up from neutral.
	result, err := svc.Vote(ctx, "s1", "", a.ID, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, storage.VoteCreated, result.Action)
	assert.Equal(t, 5.5, sessionPrefs(t, store, "s1").Affinity(domain.CategoryBusiness))

	// Switching is a correction, not new interest.
	result, err = svc.Vote(ctx, "s1", "", a.ID, domain.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, storage.VoteSwitched, result.Action)
	assert.Equal(t, 5.5, sessionPrefs(t, store, "s1").Affinity(domain.CategoryBusiness))

	// Removing leaves it untouched too.
	result, err = svc.Vote(ctx, "s1", "", a.ID, domain.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, storage.VoteRemoved, result.Action)
	assert.Equal(t, 5.5, sessionPrefs(t, store, "s1").Affinity(domain.CategoryBusiness))
}

func TestVoteUnknownArticle(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Vote(context.Background(), "s1", "", uuid.New(), domain.VoteUp)

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVoteUpdatesProfileStats(t *testing.T) {
	svc, store, a := setup(t)
	ctx := context.Background()

	_, err := svc.Vote(ctx, "s1", "user-1", a.ID, domain.VoteUp)
	require.NoError(t, err)

	profile, err := store.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.UpvotesGiven)
	assert.Equal(t, 0, profile.DownvotesGiven)

	// Switch moves the count from one column to the other.
	_, err = svc.Vote(ctx, "s1", "user-1", a.ID, domain.VoteDown)
	require.NoError(t, err)

	profile, err = store.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.UpvotesGiven)
	assert.Equal(t, 1, profile.DownvotesGiven)

	// Removal takes it back out.
	_, err = svc.Vote(ctx, "s1", "user-1", a.ID, domain.VoteDown)
	require.NoError(t, err)

	profile, err = store.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.DownvotesGiven)
}

func TestCommentAdjustsPreferencesAtHalfWeight(t *testing.T) {
	svc, store, a := setup(t)
	ctx := context.Background()

	comment, err := svc.Comment(ctx, "s1", "", a.ID, "", "insightful take")
	require.NoError(t, err)

	assert.Equal(t, domain.AnonymousAuthor, comment.Author)
	assert.False(t, comment.CreatedAt.IsZero())
	assert.Equal(t, 5.25, sessionPrefs(t, store, "s1").Affinity(domain.CategoryBusiness))

	recent, err := store.Recent(ctx, a.ID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "insightful take", recent[0].Text)
}

func TestCommentUpdatesProfileStats(t *testing.T) {
	svc, store, a := setup(t)
	ctx := context.Background()

	_, err := svc.Comment(ctx, "s1", "user-1", a.ID, "Jo", "first")
	require.NoError(t, err)

	profile, err := store.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.CommentsPosted)
}

func TestCommentUnknownArticle(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Comment(context.Background(), "s1", "", uuid.New(), "", "hello")

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRecordView(t *testing.T) {
	svc, store, a := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.RecordView(ctx, "user-1", a.ID))
	require.NoError(t, svc.RecordView(ctx, "", a.ID))

	got, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)

	profile, err := store.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.ArticlesRead)
}

func TestMergeSessionIntoProfile(t *testing.T) {
	svc, store, a := setup(t)
	ctx := context.Background()

	// One upvote takes the session's business affinity to 5.5.
	_, err := svc.Vote(ctx, "s1", "", a.ID, domain.VoteUp)
	require.NoError(t, err)

	merged, err := svc.MergeSessionIntoProfile(ctx, "s1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5.25, merged[domain.CategoryBusiness])

	profile, err := store.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5.25, profile.Preferences[domain.CategoryBusiness])
}
