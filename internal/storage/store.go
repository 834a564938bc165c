package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/newsify/newsify/internal/domain"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a uniqueness constraint rejects a write
	// that the caller did not expect to collide.
	ErrConflict = errors.New("record already exists")
)

// ArticleFilter narrows article listings. Nil/zero fields are ignored.
type ArticleFilter struct {
	Category        *domain.Category
	Search          string
	PublishedBefore *time.Time
	Limit           int
}

type ArticleStore interface {
	// Insert persists a new article and reports whether it was stored.
	// An existing row with the same source_url makes this a silent no-op
	// returning false - the dedup path, not an error.
	Insert(ctx context.Context, article *domain.Article) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
	// ListHeadlines orders by upvotes, then comment count, then recency.
	ListHeadlines(ctx context.Context, limit int) ([]domain.Article, error)
	// IncrementViews bumps the view counter atomically in storage.
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VoteAction describes what ApplyVote did to the (article, session) pair.
type VoteAction string

const (
	VoteCreated  VoteAction = "created"
	VoteRemoved  VoteAction = "removed"
	VoteSwitched VoteAction = "switched"
)

// VoteResult is the post-transition state of the vote state machine.
type VoteResult struct {
	Action    VoteAction
	Upvotes   int
	Downvotes int
	// UserVote is nil after a removal.
	UserVote *domain.VoteKind
}

type VoteStore interface {
	// ApplyVote runs one click of the vote state machine. The vote row
	// and the article counters commit as a single unit; counters are
	// adjusted with storage-level increments, never read-modify-write.
	ApplyVote(ctx context.Context, articleID uuid.UUID, sessionID string, kind domain.VoteKind) (*VoteResult, error)
	// Find returns ErrNotFound when the session has not voted.
	Find(ctx context.Context, articleID uuid.UUID, sessionID string) (*domain.Vote, error)
	// ForArticles returns the session's votes across the given articles.
	ForArticles(ctx context.Context, sessionID string, articleIDs []uuid.UUID) (map[uuid.UUID]domain.VoteKind, error)
	BySession(ctx context.Context, sessionID string, limit int) ([]domain.Vote, error)
}

type CommentStore interface {
	Add(ctx context.Context, comment *domain.Comment) error
	// Recent returns up to limit newest comments for an article.
	Recent(ctx context.Context, articleID uuid.UUID, limit int) ([]domain.Comment, error)
	Counts(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID]int, error)
	RecentBySession(ctx context.Context, sessionID string, limit int) ([]domain.Comment, error)
}

type PreferenceStore interface {
	// GetSession returns the session's vector, empty when never written.
	GetSession(ctx context.Context, sessionID string) (domain.Preferences, error)
	SaveSession(ctx context.Context, sessionID string, prefs domain.Preferences) error
}

// ProfileStatDelta adjusts a profile's engagement counters atomically.
type ProfileStatDelta struct {
	Upvotes   int
	Downvotes int
	Comments  int
	Reads     int
}

type ProfileStore interface {
	// GetOrCreate mirrors the auth layer's profile auto-creation: a
	// first read for a user id materializes an empty profile.
	GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error)
	SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error
	BumpStats(ctx context.Context, userID string, delta ProfileStatDelta) error
}

type PollStore interface {
	ListActive(ctx context.Context) ([]domain.Poll, error)
	// VoteOption increments the option counter atomically and returns
	// the updated option plus the poll's new vote total.
	VoteOption(ctx context.Context, optionID uuid.UUID) (*domain.PollOption, int, error)
}

// GlobalStats is the aggregate snapshot served by /api/stats.
type GlobalStats struct {
	TotalArticles  int            `json:"total_articles"`
	TotalVotes     int            `json:"total_votes"`
	TotalComments  int            `json:"total_comments"`
	ActiveSessions int            `json:"active_users"`
	TotalProfiles  int            `json:"total_profiles"`
	TotalPolls     int            `json:"total_polls"`
	TotalPollVotes int            `json:"total_poll_votes"`
	ByCategory     map[string]int `json:"by_category"`
}

// ActivityItem is one line of a session's recent engagement history.
type ActivityItem struct {
	Title string    `json:"title"`
	Kind  string    `json:"type"`
	At    time.Time `json:"-"`
}

// SessionStats aggregates one session's engagement counts.
type SessionStats struct {
	Votes    int
	Upvotes  int
	Comments int
}

type StatsStore interface {
	Global(ctx context.Context) (*GlobalStats, error)
	SessionSummary(ctx context.Context, sessionID string) (*SessionStats, error)
	// RecentActivity interleaves the session's latest votes and comments
	// with the titles of the articles they touched.
	RecentActivity(ctx context.Context, sessionID string, limit int) ([]ActivityItem, error)
}
