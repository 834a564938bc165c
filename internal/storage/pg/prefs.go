package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/storage"
)

type PreferenceStore struct {
	db *pgxpool.Pool
}

func NewPreferenceStore(pool *ConnectionPool) *PreferenceStore {
	return &PreferenceStore{db: pool.conn}
}

func (s *PreferenceStore) GetSession(ctx context.Context, sessionID string) (domain.Preferences, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT categories FROM preferences WHERE session_id = $1`, sessionID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Preferences{}, nil
		}
		return nil, fmt.Errorf("failed to load session preferences: %w", err)
	}

	prefs, err := domain.DecodePreferences(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt preference vector for session: %w", err)
	}
	return prefs, nil
}

func (s *PreferenceStore) SaveSession(ctx context.Context, sessionID string, prefs domain.Preferences) error {
	raw, err := domain.EncodePreferences(prefs)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO preferences (session_id, categories)
		VALUES ($1, $2)
		ON CONFLICT (session_id) DO UPDATE SET categories = EXCLUDED.categories, updated_at = now()
	`, sessionID, raw)
	if err != nil {
		return fmt.Errorf("failed to save session preferences: %w", err)
	}
	return nil
}

var _ storage.PreferenceStore = (*PreferenceStore)(nil)
