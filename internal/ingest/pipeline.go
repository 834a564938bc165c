package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/metrics"
	"github.com/newsify/newsify/internal/source"
	"github.com/newsify/newsify/internal/storage"
	"github.com/newsify/newsify/pkg/utils"
)

const maxDescriptionLen = 500

// Pipeline pulls articles from every configured provider, normalizes
// them and persists the ones not seen before. Provider failures are
// isolated: one source going down never aborts the run.
type Pipeline struct {
	sources []source.Source
	store   storage.ArticleStore
	tables  *source.Tables
	now     func() time.Time
}

type Option func(*Pipeline)

// WithNow overrides the clock used for fallback timestamps.
func WithNow(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func NewPipeline(store storage.ArticleStore, tables *source.Tables, sources []source.Source, opts ...Option) *Pipeline {
	p := &Pipeline{
		sources: sources,
		store:   store,
		tables:  tables,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches perCategory articles for each provider category from every
// source. A nil categories slice means all known provider categories.
func (p *Pipeline) Run(ctx context.Context, categories []string, perCategory int) (*Stats, error) {
	if len(categories) == 0 {
		categories = p.tables.ProviderCategories()
	}

	stats := newStats()
	for _, providerCategory := range categories {
		ours := p.tables.CanonicalCategory(providerCategory)

		saved := 0
		for _, src := range p.sources {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			articles, err := src.Fetch(ctx, source.Query{Category: providerCategory, Limit: perCategory})
			if err != nil {
				metrics.SourceFailures.WithLabelValues(src.Name()).Inc()
				slog.Warn("source fetch failed",
					"source", src.Name(),
					"category", providerCategory,
					"error", err,
				)
				continue
			}

			for _, raw := range articles {
				stats.TotalFetched++
				metrics.ArticlesFetched.WithLabelValues(src.Name()).Inc()

				article, ok := p.normalize(raw, ours)
				if !ok {
					continue
				}

				inserted, err := p.store.Insert(ctx, article)
				if err != nil {
					return stats, fmt.Errorf("failed to save article %q: %w", article.SourceURL, err)
				}
				if !inserted {
					continue
				}

				saved++
				stats.TotalSaved++
				stats.BySource[article.Source]++
				metrics.ArticlesSaved.WithLabelValues(string(ours)).Inc()
			}
		}

		stats.ByCategory[string(ours)] += saved
		slog.Info("category ingested", "category", ours, "saved", saved)
	}
	return stats, nil
}

// normalize converts a raw provider article into a storable one,
// rejecting entries with no URL and removed or empty titles.
func (p *Pipeline) normalize(raw source.RawArticle, category domain.Category) (*domain.Article, bool) {
	if raw.URL == "" {
		return nil, false
	}
	if raw.Title == "" || strings.Contains(raw.Title, "[Removed]") {
		return nil, false
	}

	sourceName := raw.Source
	if sourceName == "" {
		sourceName = "Unknown"
	}

	now := p.now()
	return &domain.Article{
		Title:       raw.Title,
		Description: utils.Truncate(raw.Description, maxDescriptionLen),
		Content:     raw.Content,
		Category:    category,
		Source:      sourceName,
		SourceURL:   raw.URL,
		ImageURL:    raw.ImageURL,
		PublishedAt: parseTimestamp(raw.PublishedAt, now),
		IngestedAt:  now,
		Credibility: p.tables.CredibilityFor(sourceName),
	}, true
}

// timestampLayouts covers the formats the providers actually emit.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp falls back to the ingestion time when a provider sends
// nothing parseable. A wrong-but-recent timestamp beats dropping the row.
func parseTimestamp(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}
