package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/newsify/newsify/internal/server"
	"github.com/newsify/newsify/internal/source"
	"github.com/newsify/newsify/internal/storage"
	"github.com/newsify/newsify/internal/storage/pg"
	"github.com/newsify/newsify/pkg/utils"
)

// Deletes articles whose source URL no longer resolves. Intended to run
// daily from cron.
func main() {
	dryRun := flag.Bool("dry-run", false, "report stale articles without deleting them")
	flag.Parse()

	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	articles := pg.NewArticleStore(pool)
	all, err := articles.List(ctx, storage.ArticleFilter{})
	if err != nil {
		slog.Error("Failed to list articles", "error", err)
		os.Exit(1)
	}

	client := source.NewCheckClient()
	deleted := 0
	for i := range all {
		article := &all[i]
		if source.URLAlive(ctx, client, article.SourceURL) {
			continue
		}

		title := utils.Truncate(article.Title, 60)
		if *dryRun {
			slog.Info("Stale article", "title", title, "url", article.SourceURL)
			continue
		}
		if err := articles.Delete(ctx, article.ID); err != nil {
			slog.Error("Failed to delete article", "title", title, "error", err)
			continue
		}
		deleted++
		slog.Info("Deleted stale article", "title", title)
	}

	slog.Info("Cleanup complete", "checked", len(all), "deleted", deleted)
}
