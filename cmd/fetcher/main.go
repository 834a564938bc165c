package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/newsify/newsify/internal/ingest"
	"github.com/newsify/newsify/internal/server"
	"github.com/newsify/newsify/internal/source"
	"github.com/newsify/newsify/internal/storage/pg"
	"github.com/newsify/newsify/pkg/utils"
)

func main() {
	categoriesFlag := flag.String("categories", "", "comma-separated provider categories to fetch (empty = all)")
	count := flag.Int("count", 5, "articles per category per provider")
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

	if err := pool.Migrate(ctx); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	tables := source.DefaultTables()
	if cfg.SourcesFile != "" {
		f, err := os.Open(cfg.SourcesFile)
		if err != nil {
			slog.Error("Failed to open sources file", "error", err)
			os.Exit(1)
		}
		tables, err = source.LoadTables(f)
		f.Close()
		if err != nil {
			slog.Error("Failed to load source tables", "error", err)
			os.Exit(1)
		}
	}

	var sources []source.Source
	if cfg.NewsAPIKey != "" {
		sources = append(sources, source.NewNewsAPI(cfg.NewsAPIKey))
	}
	if cfg.NewsDataKey != "" {
		sources = append(sources, source.NewNewsData(cfg.NewsDataKey))
	}
	if cfg.GuardianKey != "" {
		sources = append(sources, source.NewGuardian(cfg.GuardianKey))
	}
	if cfg.NYTimesKey != "" {
		sources = append(sources, source.NewNYTimes(cfg.NYTimesKey))
	}
	if cfg.GNewsKey != "" {
		sources = append(sources, source.NewGNews(cfg.GNewsKey))
	}
	if len(sources) == 0 {
		slog.Error("No provider API keys configured, nothing to fetch")
		os.Exit(1)
	}

	var categories []string
	if *categoriesFlag != "" {
		categories = utils.SplitAndTrim(*categoriesFlag)
	}

	pipeline := ingest.NewPipeline(pg.NewArticleStore(pool), tables, sources)
	stats, err := pipeline.Run(ctx, categories, *count)
	if err != nil {
		slog.Error("Fetch failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Fetch complete",
		"fetched", stats.TotalFetched,
		"saved", stats.TotalSaved,
		"duplicates", stats.TotalFetched-stats.TotalSaved,
	)
	for category, n := range stats.ByCategory {
		slog.Info("Category result", "category", category, "saved", n)
	}
}
