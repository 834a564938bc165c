package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/storage"
	"github.com/newsify/newsify/pkg/timeutil"
	"github.com/newsify/newsify/pkg/utils"
)

const (
	// DefaultPageSize is the feed length when the caller asks for nothing.
	DefaultPageSize = 20
	// MaxPageSize caps what a caller may request.
	MaxPageSize = 50

	commentsPerItem  = 5
	commentTimestamp = "2006-01-02 15:04"
)

// Item is one article as rendered in a feed response.
type Item struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	Source       string        `json:"source"`
	SourceURL    string        `json:"source_url"`
	Time         string        `json:"time"`
	Image        string        `json:"image"`
	Upvotes      int           `json:"upvotes"`
	Downvotes    int           `json:"downvotes"`
	Views        int           `json:"views"`
	UserVote     *string       `json:"user_vote"`
	Comments     []CommentItem `json:"comments"`
	Score        float64       `json:"score"`
	ReadingTime  int           `json:"reading_time"`
	Personalized bool          `json:"personalized"`
	Trending     bool          `json:"trending"`
}

type CommentItem struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// Feed is the personalized listing returned by GET /api/news.
type Feed struct {
	News            []Item   `json:"news"`
	UserPreferences []string `json:"user_preferences"`
	TotalArticles   int      `json:"total_articles"`
}

// Params narrows and sizes a feed request. A nil Category means every
// category competes on score.
type Params struct {
	Category *domain.Category
	Search   string
	Size     int
}

func (p Params) size() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	if p.Size > MaxPageSize {
		return MaxPageSize
	}
	return p.Size
}

// Builder assembles ranked feeds from stored articles and the caller's
// engagement state.
type Builder struct {
	articles storage.ArticleStore
	votes    storage.VoteStore
	comments storage.CommentStore
	now      func() time.Time
}

type BuilderOption func(*Builder)

// WithClock overrides the ranking clock.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

func NewBuilder(articles storage.ArticleStore, votes storage.VoteStore, comments storage.CommentStore, opts ...BuilderOption) *Builder {
	b := &Builder{
		articles: articles,
		votes:    votes,
		comments: comments,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build scores every candidate article against the session's preference
// vector, sorts descending and keeps the top of the list. The whole
// candidate set is scored before truncation so a high-affinity older
// article can still beat fresh filler.
func (b *Builder) Build(ctx context.Context, sessionID string, prefs domain.Preferences, params Params) (*Feed, error) {
	articles, err := b.articles.List(ctx, storage.ArticleFilter{
		Category: params.Category,
		Search:   params.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list feed candidates: %w", err)
	}

	now := b.now()
	scores := make(map[uuid.UUID]float64, len(articles))
	for i := range articles {
		scores[articles[i].ID] = Score(&articles[i], prefs, now)
	}
	// Candidates arrive ordered by publish time, so score ties break on
	// ingestion order explicitly: first stored wins.
	sort.SliceStable(articles, func(i, j int) bool {
		si, sj := scores[articles[i].ID], scores[articles[j].ID]
		if si != sj {
			return si > sj
		}
		return articles[i].IngestedAt.Before(articles[j].IngestedAt)
	})
	if size := params.size(); len(articles) > size {
		articles = articles[:size]
	}

	items, err := b.render(ctx, sessionID, articles, func(a *domain.Article, commentCount int) float64 {
		return utils.RoundDecimal(scores[a.ID], 2)
	}, prefs, now)
	if err != nil {
		return nil, err
	}

	return &Feed{
		News:            items,
		UserPreferences: prefs.Keys(),
		TotalArticles:   len(items),
	}, nil
}

// Headlines returns the most upvoted articles; here score is the plain
// engagement sum, not the personalized blend.
func (b *Builder) Headlines(ctx context.Context, sessionID string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	articles, err := b.articles.ListHeadlines(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list headlines: %w", err)
	}
	return b.render(ctx, sessionID, articles, func(a *domain.Article, commentCount int) float64 {
		return float64(a.Upvotes + commentCount)
	}, nil, b.now())
}

// Archive lists older articles, newest first, without personalization.
func (b *Builder) Archive(ctx context.Context, sessionID string, before time.Time, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	articles, err := b.articles.List(ctx, storage.ArticleFilter{
		PublishedBefore: &before,
		Limit:           limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	return b.render(ctx, sessionID, articles, func(a *domain.Article, commentCount int) float64 {
		return float64(a.Upvotes + commentCount)
	}, nil, b.now())
}

// render decorates articles with the caller's votes, recent comments and
// the presentation fields shared by every listing.
func (b *Builder) render(
	ctx context.Context,
	sessionID string,
	articles []domain.Article,
	score func(a *domain.Article, commentCount int) float64,
	prefs domain.Preferences,
	now time.Time,
) ([]Item, error) {
	ids := make([]uuid.UUID, 0, len(articles))
	for i := range articles {
		ids = append(ids, articles[i].ID)
	}

	userVotes := map[uuid.UUID]domain.VoteKind{}
	if sessionID != "" && len(ids) > 0 {
		var err error
		userVotes, err = b.votes.ForArticles(ctx, sessionID, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load caller votes: %w", err)
		}
	}

	counts, err := b.comments.Counts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	items := make([]Item, 0, len(articles))
	for i := range articles {
		a := &articles[i]

		recent, err := b.comments.Recent(ctx, a.ID, commentsPerItem)
		if err != nil {
			return nil, fmt.Errorf("failed to load comments: %w", err)
		}
		commentItems := make([]CommentItem, 0, len(recent))
		for _, c := range recent {
			commentItems = append(commentItems, CommentItem{
				Author:    c.Author,
				Text:      c.Text,
				CreatedAt: c.CreatedAt.Format(commentTimestamp),
			})
		}

		var userVote *string
		if kind, ok := userVotes[a.ID]; ok {
			s := string(kind)
			userVote = &s
		}

		commentCount := counts[a.ID]
		items = append(items, Item{
			ID:           a.ID,
			Title:        a.Title,
			Description:  a.Description,
			Category:     string(a.Category),
			Source:       a.Source,
			SourceURL:    a.SourceURL,
			Time:         timeutil.Relative(a.PublishedAt, now),
			Image:        a.ImageURL,
			Upvotes:      a.Upvotes,
			Downvotes:    a.Downvotes,
			Views:        a.Views,
			UserVote:     userVote,
			Comments:     commentItems,
			Score:        score(a, commentCount),
			ReadingTime:  ReadingTime(a),
			Personalized: prefs != nil && prefs.Has(a.Category),
			Trending:     Trending(a, commentCount),
		})
	}
	return items, nil
}
