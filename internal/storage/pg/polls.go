package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/storage"
)

type PollStore struct {
	db *pgxpool.Pool
}

func NewPollStore(pool *ConnectionPool) *PollStore {
	return &PollStore{db: pool.conn}
}

func (s *PollStore) ListActive(ctx context.Context) ([]domain.Poll, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, question, is_active, created_at FROM polls WHERE is_active ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []domain.Poll
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var p domain.Poll
		if err := rows.Scan(&p.ID, &p.Question, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		index[p.ID] = len(polls)
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	if len(polls) == 0 {
		return polls, nil
	}

	ids := make([]uuid.UUID, 0, len(polls))
	for _, p := range polls {
		ids = append(ids, p.ID)
	}

	optRows, err := s.db.Query(ctx,
		`SELECT id, poll_id, text, votes FROM poll_options WHERE poll_id = ANY($1) ORDER BY id`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list poll options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var o domain.PollOption
		if err := optRows.Scan(&o.ID, &o.PollID, &o.Text, &o.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan poll option: %w", err)
		}
		if i, ok := index[o.PollID]; ok {
			polls[i].Options = append(polls[i].Options, o)
		}
	}
	return polls, optRows.Err()
}

func (s *PollStore) VoteOption(ctx context.Context, optionID uuid.UUID) (*domain.PollOption, int, error) {
	var o domain.PollOption
	err := s.db.QueryRow(ctx,
		`UPDATE poll_options SET votes = votes + 1 WHERE id = $1 RETURNING id, poll_id, text, votes`,
		optionID,
	).Scan(&o.ID, &o.PollID, &o.Text, &o.Votes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, storage.ErrNotFound
		}
		return nil, 0, fmt.Errorf("failed to vote on poll option: %w", err)
	}

	var total int
	if err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(votes), 0) FROM poll_options WHERE poll_id = $1`, o.PollID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to total poll votes: %w", err)
	}
	return &o, total, nil
}

var _ storage.PollStore = (*PollStore)(nil)
