package pg

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsify/newsify/internal/storage"
	"github.com/newsify/newsify/pkg/utils"
)

type StatsStore struct {
	db *pgxpool.Pool
}

func NewStatsStore(pool *ConnectionPool) *StatsStore {
	return &StatsStore{db: pool.conn}
}

func (s *StatsStore) Global(ctx context.Context) (*storage.GlobalStats, error) {
	stats := &storage.GlobalStats{ByCategory: make(map[string]int)}

	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM articles),
			(SELECT COUNT(*) FROM votes),
			(SELECT COUNT(*) FROM comments),
			(SELECT COUNT(*) FROM preferences),
			(SELECT COUNT(*) FROM profiles),
			(SELECT COUNT(*) FROM polls),
			(SELECT COALESCE(SUM(votes), 0) FROM poll_options)
	`).Scan(
		&stats.TotalArticles,
		&stats.TotalVotes,
		&stats.TotalComments,
		&stats.ActiveSessions,
		&stats.TotalProfiles,
		&stats.TotalPolls,
		&stats.TotalPollVotes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load global stats: %w", err)
	}

	rows, err := s.db.Query(ctx, `SELECT category, COUNT(*) FROM articles GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to load category breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		stats.ByCategory[category] = n
	}
	return stats, rows.Err()
}

func (s *StatsStore) SessionSummary(ctx context.Context, sessionID string) (*storage.SessionStats, error) {
	var stats storage.SessionStats
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM votes WHERE session_id = $1),
			(SELECT COUNT(*) FROM votes WHERE session_id = $1 AND kind = 'up'),
			(SELECT COUNT(*) FROM comments WHERE session_id = $1)
	`, sessionID).Scan(&stats.Votes, &stats.Upvotes, &stats.Comments)
	if err != nil {
		return nil, fmt.Errorf("failed to load session stats: %w", err)
	}
	return &stats, nil
}

func (s *StatsStore) RecentActivity(ctx context.Context, sessionID string, limit int) ([]storage.ActivityItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT a.title, v.kind, v.created_at
		FROM votes v JOIN articles a ON a.id = v.article_id
		WHERE v.session_id = $1
		UNION ALL
		SELECT a.title, 'comment', c.created_at
		FROM comments c JOIN articles a ON a.id = c.article_id
		WHERE c.session_id = $1
		ORDER BY 3 DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}
	defer rows.Close()

	var items []storage.ActivityItem
	for rows.Next() {
		var item storage.ActivityItem
		var kind string
		if err := rows.Scan(&item.Title, &kind, &item.At); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		item.Title = utils.Truncate(item.Title, 60)
		item.Kind = activityLabel(kind)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].At.After(items[j].At) })
	return items, nil
}

func activityLabel(kind string) string {
	switch kind {
	case "up":
		return "Upvoted"
	case "down":
		return "Downvoted"
	default:
		return "Commented"
	}
}

var _ storage.StatsStore = (*StatsStore)(nil)
