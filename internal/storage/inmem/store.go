package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/storage"
	"github.com/newsify/newsify/pkg/utils"
)

// Store implements every storage interface behind one mutex. It backs
// unit tests and local development without a database; the mutex gives
// the same all-or-nothing vote semantics the pg transaction does.
type Store struct {
	mu sync.Mutex

	articles     map[uuid.UUID]*domain.Article
	articleOrder []uuid.UUID
	byURL        map[string]uuid.UUID

	votes    map[voteKey]*domain.Vote
	comments []domain.Comment

	sessionPrefs map[string]domain.Preferences
	profiles     map[string]*domain.UserProfile

	polls   []*domain.Poll
	options map[uuid.UUID]*domain.PollOption
}

type voteKey struct {
	articleID uuid.UUID
	sessionID string
}

func NewStore() *Store {
	return &Store{
		articles:     make(map[uuid.UUID]*domain.Article),
		byURL:        make(map[string]uuid.UUID),
		votes:        make(map[voteKey]*domain.Vote),
		sessionPrefs: make(map[string]domain.Preferences),
		profiles:     make(map[string]*domain.UserProfile),
		options:      make(map[uuid.UUID]*domain.PollOption),
	}
}

// --- articles ---

func (s *Store) Insert(ctx context.Context, article *domain.Article) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.byURL[article.SourceURL]; dup {
		return false, nil
	}
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if article.IngestedAt.IsZero() {
		article.IngestedAt = time.Now()
	}

	stored := *article
	s.articles[article.ID] = &stored
	s.articleOrder = append(s.articleOrder, article.ID)
	s.byURL[article.SourceURL] = article.ID
	return true, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *Store) List(ctx context.Context, filter storage.ArticleFilter) ([]domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Article
	for _, id := range s.articleOrder {
		a := s.articles[id]
		if filter.Category != nil && a.Category != *filter.Category {
			continue
		}
		if filter.Search != "" && !matchesSearch(a, filter.Search) {
			continue
		}
		if filter.PublishedBefore != nil && !a.PublishedAt.Before(*filter.PublishedBefore) {
			continue
		}
		out = append(out, *a)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesSearch(a *domain.Article, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Description), needle)
}

func (s *Store) ListHeadlines(ctx context.Context, limit int) ([]domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[uuid.UUID]int)
	for _, c := range s.comments {
		counts[c.ArticleID]++
	}

	out := make([]domain.Article, 0, len(s.articleOrder))
	for _, id := range s.articleOrder {
		out = append(out, *s.articles[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Upvotes != out[j].Upvotes {
			return out[i].Upvotes > out[j].Upvotes
		}
		if counts[out[i].ID] != counts[out[j].ID] {
			return counts[out[i].ID] > counts[out[j].ID]
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) IncrementViews(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return storage.ErrNotFound
	}
	a.Views++
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.byURL, a.SourceURL)
	delete(s.articles, id)
	for i, ordered := range s.articleOrder {
		if ordered == id {
			s.articleOrder = append(s.articleOrder[:i], s.articleOrder[i+1:]...)
			break
		}
	}
	return nil
}

// --- votes ---

func (s *Store) ApplyVote(ctx context.Context, articleID uuid.UUID, sessionID string, kind domain.VoteKind) (*storage.VoteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[articleID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	key := voteKey{articleID: articleID, sessionID: sessionID}
	existing, voted := s.votes[key]

	switch {
	case !voted:
		s.votes[key] = &domain.Vote{
			ID:        uuid.New(),
			ArticleID: articleID,
			SessionID: sessionID,
			Kind:      kind,
			CreatedAt: time.Now(),
		}
		bump(article, kind, +1)
		return s.voteResult(storage.VoteCreated, article, &kind), nil

	case existing.Kind == kind:
		delete(s.votes, key)
		bump(article, kind, -1)
		return s.voteResult(storage.VoteRemoved, article, nil), nil

	default:
		bump(article, existing.Kind, -1)
		bump(article, kind, +1)
		existing.Kind = kind
		existing.CreatedAt = time.Now()
		return s.voteResult(storage.VoteSwitched, article, &kind), nil
	}
}

func bump(article *domain.Article, kind domain.VoteKind, step int) {
	if kind == domain.VoteUp {
		article.Upvotes = maxInt(article.Upvotes+step, 0)
	} else {
		article.Downvotes = maxInt(article.Downvotes+step, 0)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (s *Store) voteResult(action storage.VoteAction, article *domain.Article, kind *domain.VoteKind) *storage.VoteResult {
	return &storage.VoteResult{
		Action:    action,
		Upvotes:   article.Upvotes,
		Downvotes: article.Downvotes,
		UserVote:  kind,
	}
}

func (s *Store) Find(ctx context.Context, articleID uuid.UUID, sessionID string) (*domain.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.votes[voteKey{articleID: articleID, sessionID: sessionID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (s *Store) ForArticles(ctx context.Context, sessionID string, articleIDs []uuid.UUID) (map[uuid.UUID]domain.VoteKind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	votes := make(map[uuid.UUID]domain.VoteKind)
	for _, id := range articleIDs {
		if v, ok := s.votes[voteKey{articleID: id, sessionID: sessionID}]; ok {
			votes[id] = v.Kind
		}
	}
	return votes, nil
}

func (s *Store) BySession(ctx context.Context, sessionID string, limit int) ([]domain.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var votes []domain.Vote
	for _, v := range s.votes {
		if v.SessionID == sessionID {
			votes = append(votes, *v)
		}
	}
	sort.SliceStable(votes, func(i, j int) bool { return votes[i].CreatedAt.After(votes[j].CreatedAt) })
	if limit > 0 && len(votes) > limit {
		votes = votes[:limit]
	}
	return votes, nil
}

// --- comments ---

func (s *Store) Add(ctx context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.Author == "" {
		comment.Author = domain.AnonymousAuthor
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *Store) Recent(ctx context.Context, articleID uuid.UUID, limit int) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Comment
	for _, c := range s.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Counts(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[uuid.UUID]bool, len(articleIDs))
	for _, id := range articleIDs {
		wanted[id] = true
	}
	counts := make(map[uuid.UUID]int)
	for _, c := range s.comments {
		if wanted[c.ArticleID] {
			counts[c.ArticleID]++
		}
	}
	return counts, nil
}

func (s *Store) RecentBySession(ctx context.Context, sessionID string, limit int) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Comment
	for _, c := range s.comments {
		if c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- preferences ---

func (s *Store) GetSession(ctx context.Context, sessionID string) (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := make(domain.Preferences)
	for cat, v := range s.sessionPrefs[sessionID] {
		prefs[cat] = v
	}
	return prefs, nil
}

func (s *Store) SaveSession(ctx context.Context, sessionID string, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(domain.Preferences, len(prefs))
	for cat, v := range prefs {
		copied[cat] = v
	}
	s.sessionPrefs[sessionID] = copied
	return nil
}

// --- profiles ---

func (s *Store) GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		p = &domain.UserProfile{
			UserID:             userID,
			Preferences:        domain.Preferences{},
			Language:           "en",
			EmailNotifications: true,
			ShowImages:         true,
			CreatedAt:          time.Now(),
			UpdatedAt:          time.Now(),
		}
		s.profiles[userID] = p
	}
	copied := *p
	copied.Preferences = make(domain.Preferences, len(p.Preferences))
	for cat, v := range p.Preferences {
		copied.Preferences[cat] = v
	}
	return &copied, nil
}

func (s *Store) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return storage.ErrNotFound
	}
	copied := make(domain.Preferences, len(prefs))
	for cat, v := range prefs {
		copied[cat] = v
	}
	p.Preferences = copied
	p.UpdatedAt = time.Now()
	return nil
}

func (s *Store) BumpStats(ctx context.Context, userID string, delta storage.ProfileStatDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return storage.ErrNotFound
	}
	p.UpvotesGiven = maxInt(p.UpvotesGiven+delta.Upvotes, 0)
	p.DownvotesGiven = maxInt(p.DownvotesGiven+delta.Downvotes, 0)
	p.CommentsPosted = maxInt(p.CommentsPosted+delta.Comments, 0)
	p.ArticlesRead = maxInt(p.ArticlesRead+delta.Reads, 0)
	p.UpdatedAt = time.Now()
	return nil
}

// --- polls ---

// AddPoll seeds a poll; only tests and sample-data loading use it.
func (s *Store) AddPoll(poll domain.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if poll.ID == uuid.Nil {
		poll.ID = uuid.New()
	}
	stored := &poll
	for i := range stored.Options {
		if stored.Options[i].ID == uuid.Nil {
			stored.Options[i].ID = uuid.New()
		}
		stored.Options[i].PollID = stored.ID
		s.options[stored.Options[i].ID] = &stored.Options[i]
	}
	s.polls = append(s.polls, stored)
}

func (s *Store) ListActive(ctx context.Context) ([]domain.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Poll
	for _, p := range s.polls {
		if !p.Active {
			continue
		}
		copied := *p
		copied.Options = append([]domain.PollOption(nil), p.Options...)
		out = append(out, copied)
	}
	return out, nil
}

func (s *Store) VoteOption(ctx context.Context, optionID uuid.UUID) (*domain.PollOption, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.options[optionID]
	if !ok {
		return nil, 0, storage.ErrNotFound
	}
	o.Votes++

	total := 0
	for _, other := range s.options {
		if other.PollID == o.PollID {
			total += other.Votes
		}
	}
	copied := *o
	return &copied, total, nil
}

// --- stats ---

func (s *Store) Global(ctx context.Context) (*storage.GlobalStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &storage.GlobalStats{
		TotalArticles:  len(s.articles),
		TotalVotes:     len(s.votes),
		TotalComments:  len(s.comments),
		ActiveSessions: len(s.sessionPrefs),
		TotalProfiles:  len(s.profiles),
		TotalPolls:     len(s.polls),
		ByCategory:     make(map[string]int),
	}
	for _, a := range s.articles {
		stats.ByCategory[string(a.Category)]++
	}
	for _, o := range s.options {
		stats.TotalPollVotes += o.Votes
	}
	return stats, nil
}

func (s *Store) SessionSummary(ctx context.Context, sessionID string) (*storage.SessionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &storage.SessionStats{}
	for _, v := range s.votes {
		if v.SessionID != sessionID {
			continue
		}
		stats.Votes++
		if v.Kind == domain.VoteUp {
			stats.Upvotes++
		}
	}
	for _, c := range s.comments {
		if c.SessionID == sessionID {
			stats.Comments++
		}
	}
	return stats, nil
}

func (s *Store) RecentActivity(ctx context.Context, sessionID string, limit int) ([]storage.ActivityItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []storage.ActivityItem
	for _, v := range s.votes {
		if v.SessionID != sessionID {
			continue
		}
		a, ok := s.articles[v.ArticleID]
		if !ok {
			continue
		}
		kind := "Upvoted"
		if v.Kind == domain.VoteDown {
			kind = "Downvoted"
		}
		items = append(items, storage.ActivityItem{Title: utils.Truncate(a.Title, 60), Kind: kind, At: v.CreatedAt})
	}
	for _, c := range s.comments {
		if c.SessionID != sessionID {
			continue
		}
		a, ok := s.articles[c.ArticleID]
		if !ok {
			continue
		}
		items = append(items, storage.ActivityItem{Title: utils.Truncate(a.Title, 60), Kind: "Commented", At: c.CreatedAt})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].At.After(items[j].At) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var (
	_ storage.ArticleStore    = (*Store)(nil)
	_ storage.VoteStore       = (*Store)(nil)
	_ storage.CommentStore    = (*Store)(nil)
	_ storage.PreferenceStore = (*Store)(nil)
	_ storage.ProfileStore    = (*Store)(nil)
	_ storage.PollStore       = (*Store)(nil)
	_ storage.StatsStore      = (*Store)(nil)
)
