package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/storage"
)

type ProfileStore struct {
	db *pgxpool.Pool
}

func NewProfileStore(pool *ConnectionPool) *ProfileStore {
	return &ProfileStore{db: pool.conn}
}

func (s *ProfileStore) GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error) {
	// Upsert-then-read keeps profile creation race-free when the first
	// two requests for a fresh user land concurrently.
	if _, err := s.db.Exec(ctx,
		`INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID,
	); err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	var p domain.UserProfile
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT user_id, categories, language, country, email_notifications, show_images, dark_mode,
		       articles_read, upvotes_given, downvotes_given, comments_posted, bio, avatar,
		       onboarding_complete, created_at, updated_at
		FROM profiles WHERE user_id = $1
	`, userID).Scan(
		&p.UserID, &raw, &p.Language, &p.Country, &p.EmailNotifications, &p.ShowImages, &p.DarkMode,
		&p.ArticlesRead, &p.UpvotesGiven, &p.DownvotesGiven, &p.CommentsPosted, &p.Bio, &p.Avatar,
		&p.OnboardingComplete, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p.Preferences, err = domain.DecodePreferences(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt preference vector for profile: %w", err)
	}
	return &p, nil
}

func (s *ProfileStore) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	raw, err := domain.EncodePreferences(prefs)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE profiles SET categories = $2, updated_at = now() WHERE user_id = $1`,
		userID, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *ProfileStore) BumpStats(ctx context.Context, userID string, delta storage.ProfileStatDelta) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE profiles
		SET upvotes_given   = GREATEST(upvotes_given + $2, 0),
		    downvotes_given = GREATEST(downvotes_given + $3, 0),
		    comments_posted = GREATEST(comments_posted + $4, 0),
		    articles_read   = GREATEST(articles_read + $5, 0),
		    updated_at      = now()
		WHERE user_id = $1
	`, userID, delta.Upvotes, delta.Downvotes, delta.Comments, delta.Reads)
	if err != nil {
		return fmt.Errorf("failed to bump profile stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

var _ storage.ProfileStore = (*ProfileStore)(nil)
