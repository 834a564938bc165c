package engage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/metrics"
	"github.com/newsify/newsify/internal/storage"
)

// Service applies engagement actions and their side effects: vote and
// comment writes, the preference feedback loop, and profile counters for
// authenticated callers.
type Service struct {
	articles storage.ArticleStore
	votes    storage.VoteStore
	comments storage.CommentStore
	prefs    storage.PreferenceStore
	profiles storage.ProfileStore
}

func NewService(
	articles storage.ArticleStore,
	votes storage.VoteStore,
	comments storage.CommentStore,
	prefs storage.PreferenceStore,
	profiles storage.ProfileStore,
) *Service {
	return &Service{
		articles: articles,
		votes:    votes,
		comments: comments,
		prefs:    prefs,
		profiles: profiles,
	}
}

// Vote runs one click of the vote state machine. Preferences move only
// on a brand new vote: removing or switching a vote is a correction, not
// fresh interest in the category.
func (s *Service) Vote(ctx context.Context, sessionID, userID string, articleID uuid.UUID, kind domain.VoteKind) (*storage.VoteResult, error) {
	article, err := s.articles.Get(ctx, articleID)
	if err != nil {
		return nil, err
	}

	result, err := s.votes.ApplyVote(ctx, articleID, sessionID, kind)
	if err != nil {
		return nil, err
	}
	metrics.VotesCast.WithLabelValues(string(result.Action)).Inc()

	if result.Action == storage.VoteCreated {
		if err := s.adjustPreference(ctx, sessionID, article.Category, domain.VoteWeight); err != nil {
			return nil, err
		}
	}

	if userID != "" {
		if err := s.bumpVoteStats(ctx, userID, result.Action, kind); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Service) bumpVoteStats(ctx context.Context, userID string, action storage.VoteAction, kind domain.VoteKind) error {
	var delta storage.ProfileStatDelta
	switch action {
	case storage.VoteCreated:
		delta = voteStatDelta(kind, +1)
	case storage.VoteRemoved:
		delta = voteStatDelta(kind, -1)
	case storage.VoteSwitched:
		delta = voteStatDelta(kind, +1)
		opposite := voteStatDelta(otherKind(kind), -1)
		delta.Upvotes += opposite.Upvotes
		delta.Downvotes += opposite.Downvotes
	}

	if _, err := s.profiles.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	if err := s.profiles.BumpStats(ctx, userID, delta); err != nil {
		return fmt.Errorf("failed to update profile vote stats: %w", err)
	}
	return nil
}

func voteStatDelta(kind domain.VoteKind, step int) storage.ProfileStatDelta {
	if kind == domain.VoteUp {
		return storage.ProfileStatDelta{Upvotes: step}
	}
	return storage.ProfileStatDelta{Downvotes: step}
}

func otherKind(kind domain.VoteKind) domain.VoteKind {
	if kind == domain.VoteUp {
		return domain.VoteDown
	}
	return domain.VoteUp
}

// Comment appends a comment and nudges the session's affinity for the
// article's category at half the weight of a vote.
func (s *Service) Comment(ctx context.Context, sessionID, userID string, articleID uuid.UUID, author, text string) (*domain.Comment, error) {
	article, err := s.articles.Get(ctx, articleID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ArticleID: articleID,
		SessionID: sessionID,
		Author:    author,
		Text:      text,
	}
	if err := s.comments.Add(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	metrics.CommentsPosted.Inc()

	if err := s.adjustPreference(ctx, sessionID, article.Category, domain.CommentWeight); err != nil {
		return nil, err
	}

	if userID != "" {
		if _, err := s.profiles.GetOrCreate(ctx, userID); err != nil {
			return nil, err
		}
		if err := s.profiles.BumpStats(ctx, userID, storage.ProfileStatDelta{Comments: 1}); err != nil {
			return nil, fmt.Errorf("failed to update profile comment stats: %w", err)
		}
	}
	return comment, nil
}

// RecordView bumps the article's view counter and, for authenticated
// callers, their read counter.
func (s *Service) RecordView(ctx context.Context, userID string, articleID uuid.UUID) error {
	if err := s.articles.IncrementViews(ctx, articleID); err != nil {
		return err
	}
	if userID == "" {
		return nil
	}
	if _, err := s.profiles.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.profiles.BumpStats(ctx, userID, storage.ProfileStatDelta{Reads: 1})
}

// MergeSessionIntoProfile folds the anonymous session's preference
// vector into the user's profile at login. Each session category is
// averaged against the profile's value, or against the neutral score
// when the profile has never seen the category.
func (s *Service) MergeSessionIntoProfile(ctx context.Context, sessionID, userID string) (domain.Preferences, error) {
	sessionPrefs, err := s.prefs.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := domain.MergePreferences(sessionPrefs, profile.Preferences)
	if err := s.profiles.SavePreferences(ctx, userID, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *Service) adjustPreference(ctx context.Context, sessionID string, cat domain.Category, weight float64) error {
	prefs, err := s.prefs.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	prefs.Adjust(cat, weight)
	if err := s.prefs.SaveSession(ctx, sessionID, prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
