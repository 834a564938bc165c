package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/storage"
)

const uniqueViolation = "23505"

type VoteStore struct {
	db *pgxpool.Pool
}

func NewVoteStore(pool *ConnectionPool) *VoteStore {
	return &VoteStore{db: pool.conn}
}

// ApplyVote runs one click of the vote state machine inside a single
// transaction. The existing vote row is locked FOR UPDATE so two clicks
// from the same session serialize; counter updates are expressed as
// SET x = x +/- 1 so concurrent voters on the same article never lose
// updates. GREATEST keeps the counters from going below zero.
func (s *VoteStore) ApplyVote(ctx context.Context, articleID uuid.UUID, sessionID string, kind domain.VoteKind) (*storage.VoteResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin vote tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing domain.VoteKind
	err = tx.QueryRow(ctx,
		`SELECT kind FROM votes WHERE article_id = $1 AND session_id = $2 FOR UPDATE`,
		articleID, sessionID,
	).Scan(&existing)

	var result *storage.VoteResult
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		result, err = s.createVote(ctx, tx, articleID, sessionID, kind)
	case err != nil:
		return nil, fmt.Errorf("failed to load existing vote: %w", err)
	case existing == kind:
		result, err = s.removeVote(ctx, tx, articleID, sessionID, kind)
	default:
		result, err = s.switchVote(ctx, tx, articleID, sessionID, existing, kind)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit vote tx: %w", err)
	}
	return result, nil
}

func (s *VoteStore) createVote(ctx context.Context, tx pgx.Tx, articleID uuid.UUID, sessionID string, kind domain.VoteKind) (*storage.VoteResult, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO votes (id, article_id, session_id, kind) VALUES ($1, $2, $3, $4)`,
		uuid.New(), articleID, sessionID, kind,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, storage.ErrConflict
		}
		return nil, fmt.Errorf("failed to insert vote: %w", err)
	}

	up, down, err := bumpCounters(ctx, tx, articleID, counterDelta(kind, +1))
	if err != nil {
		return nil, err
	}
	return &storage.VoteResult{Action: storage.VoteCreated, Upvotes: up, Downvotes: down, UserVote: &kind}, nil
}

func (s *VoteStore) removeVote(ctx context.Context, tx pgx.Tx, articleID uuid.UUID, sessionID string, kind domain.VoteKind) (*storage.VoteResult, error) {
	if _, err := tx.Exec(ctx,
		`DELETE FROM votes WHERE article_id = $1 AND session_id = $2`,
		articleID, sessionID,
	); err != nil {
		return nil, fmt.Errorf("failed to delete vote: %w", err)
	}

	up, down, err := bumpCounters(ctx, tx, articleID, counterDelta(kind, -1))
	if err != nil {
		return nil, err
	}
	return &storage.VoteResult{Action: storage.VoteRemoved, Upvotes: up, Downvotes: down}, nil
}

func (s *VoteStore) switchVote(ctx context.Context, tx pgx.Tx, articleID uuid.UUID, sessionID string, from, to domain.VoteKind) (*storage.VoteResult, error) {
	if _, err := tx.Exec(ctx,
		`UPDATE votes SET kind = $3, created_at = now() WHERE article_id = $1 AND session_id = $2`,
		articleID, sessionID, to,
	); err != nil {
		return nil, fmt.Errorf("failed to switch vote: %w", err)
	}

	delta := counterDelta(from, -1)
	toDelta := counterDelta(to, +1)
	delta.up += toDelta.up
	delta.down += toDelta.down

	up, down, err := bumpCounters(ctx, tx, articleID, delta)
	if err != nil {
		return nil, err
	}
	return &storage.VoteResult{Action: storage.VoteSwitched, Upvotes: up, Downvotes: down, UserVote: &to}, nil
}

type voteCounterDelta struct {
	up   int
	down int
}

func counterDelta(kind domain.VoteKind, step int) voteCounterDelta {
	if kind == domain.VoteUp {
		return voteCounterDelta{up: step}
	}
	return voteCounterDelta{down: step}
}

func bumpCounters(ctx context.Context, tx pgx.Tx, articleID uuid.UUID, delta voteCounterDelta) (int, int, error) {
	var up, down int
	err := tx.QueryRow(ctx, `
		UPDATE articles
		SET upvotes   = GREATEST(upvotes + $2, 0),
		    downvotes = GREATEST(downvotes + $3, 0)
		WHERE id = $1
		RETURNING upvotes, downvotes
	`, articleID, delta.up, delta.down).Scan(&up, &down)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, storage.ErrNotFound
		}
		return 0, 0, fmt.Errorf("failed to update vote counters: %w", err)
	}
	return up, down, nil
}

func (s *VoteStore) Find(ctx context.Context, articleID uuid.UUID, sessionID string) (*domain.Vote, error) {
	var v domain.Vote
	err := s.db.QueryRow(ctx,
		`SELECT id, article_id, session_id, kind, created_at FROM votes WHERE article_id = $1 AND session_id = $2`,
		articleID, sessionID,
	).Scan(&v.ID, &v.ArticleID, &v.SessionID, &v.Kind, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}
	return &v, nil
}

func (s *VoteStore) ForArticles(ctx context.Context, sessionID string, articleIDs []uuid.UUID) (map[uuid.UUID]domain.VoteKind, error) {
	votes := make(map[uuid.UUID]domain.VoteKind)
	if len(articleIDs) == 0 {
		return votes, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT article_id, kind FROM votes WHERE session_id = $1 AND article_id = ANY($2)`,
		sessionID, articleIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list session votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var kind domain.VoteKind
		if err := rows.Scan(&id, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes[id] = kind
	}
	return votes, rows.Err()
}

func (s *VoteStore) BySession(ctx context.Context, sessionID string, limit int) ([]domain.Vote, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, article_id, session_id, kind, created_at FROM votes
		 WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes by session: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ID, &v.ArticleID, &v.SessionID, &v.Kind, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

var _ storage.VoteStore = (*VoteStore)(nil)
