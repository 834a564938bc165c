package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/storage"
)

const articleColumns = `id, title, description, content, category, source, source_url, image_url,
	published_at, ingested_at, credibility, upvotes, downvotes, views`

type ArticleStore struct {
	db *pgxpool.Pool
}

func NewArticleStore(pool *ConnectionPool) *ArticleStore {
	return &ArticleStore{db: pool.conn}
}

// Insert relies on the source_url unique constraint for deduplication:
// ON CONFLICT DO NOTHING makes the duplicate path a silent no-op, so
// there is no check-then-insert race between concurrent ingestion runs.
func (s *ArticleStore) Insert(ctx context.Context, article *domain.Article) (bool, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if article.IngestedAt.IsZero() {
		article.IngestedAt = time.Now()
	}

	cmd := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (source_url) DO NOTHING;
	`
	tag, err := s.db.Exec(
		ctx,
		cmd,
		article.ID,
		article.Title,
		article.Description,
		article.Content,
		article.Category,
		article.Source,
		article.SourceURL,
		article.ImageURL,
		article.PublishedAt,
		article.IngestedAt,
		article.Credibility,
		article.Upvotes,
		article.Downvotes,
		article.Views,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (s *ArticleStore) Get(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	row := s.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)

	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

func (s *ArticleStore) List(ctx context.Context, filter storage.ArticleFilter) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE 1=1`
	var args []interface{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	if filter.PublishedBefore != nil {
		args = append(args, *filter.PublishedBefore)
		query += fmt.Sprintf(" AND published_at < $%d", len(args))
	}

	query += " ORDER BY published_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (s *ArticleStore) ListHeadlines(ctx context.Context, limit int) ([]domain.Article, error) {
	query := `
		SELECT ` + prefixedArticleColumns("a") + `
		FROM articles a
		LEFT JOIN comments c ON c.article_id = a.id
		GROUP BY a.id
		ORDER BY a.upvotes DESC, COUNT(c.id) DESC, a.published_at DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list headlines: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (s *ArticleStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `UPDATE articles SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func prefixedArticleColumns(alias string) string {
	return alias + `.id, ` + alias + `.title, ` + alias + `.description, ` + alias + `.content, ` +
		alias + `.category, ` + alias + `.source, ` + alias + `.source_url, ` + alias + `.image_url, ` +
		alias + `.published_at, ` + alias + `.ingested_at, ` + alias + `.credibility, ` +
		alias + `.upvotes, ` + alias + `.downvotes, ` + alias + `.views`
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var a domain.Article
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.Content,
		&a.Category,
		&a.Source,
		&a.SourceURL,
		&a.ImageURL,
		&a.PublishedAt,
		&a.IngestedAt,
		&a.Credibility,
		&a.Upvotes,
		&a.Downvotes,
		&a.Views,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectArticles(rows pgx.Rows) ([]domain.Article, error) {
	var articles []domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return articles, nil
}

var _ storage.ArticleStore = (*ArticleStore)(nil)
