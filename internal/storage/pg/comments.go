package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/storage"
)

type CommentStore struct {
	db *pgxpool.Pool
}

func NewCommentStore(pool *ConnectionPool) *CommentStore {
	return &CommentStore{db: pool.conn}
}

func (s *CommentStore) Add(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.Author == "" {
		comment.Author = domain.AnonymousAuthor
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO comments (id, article_id, session_id, author, body, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID, comment.ArticleID, comment.SessionID, comment.Author, comment.Text, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (s *CommentStore) Recent(ctx context.Context, articleID uuid.UUID, limit int) ([]domain.Comment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, article_id, session_id, author, body, created_at FROM comments
		 WHERE article_id = $1 ORDER BY created_at DESC LIMIT $2`,
		articleID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.SessionID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *CommentStore) Counts(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int)
	if len(articleIDs) == 0 {
		return counts, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT article_id, COUNT(*) FROM comments WHERE article_id = ANY($1) GROUP BY article_id`,
		articleIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan comment count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (s *CommentStore) RecentBySession(ctx context.Context, sessionID string, limit int) ([]domain.Comment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, article_id, session_id, author, body, created_at FROM comments
		 WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by session: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.SessionID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

var _ storage.CommentStore = (*CommentStore)(nil)
