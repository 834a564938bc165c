package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/newsify/newsify/internal/apperr"
	"github.com/newsify/newsify/internal/engage"
	"github.com/newsify/newsify/internal/feed"
	"github.com/newsify/newsify/internal/ingest"
	"github.com/newsify/newsify/internal/metrics"
	"github.com/newsify/newsify/internal/ratelimit"
	"github.com/newsify/newsify/internal/router"
	"github.com/newsify/newsify/internal/server"
	"github.com/newsify/newsify/internal/source"
	"github.com/newsify/newsify/internal/storage"
	"github.com/newsify/newsify/internal/storage/inmem"
	"github.com/newsify/newsify/internal/storage/pg"
	pkgserver "github.com/newsify/newsify/pkg/server"
	"github.com/redis/go-redis/v9"
)

type stores struct {
	articles storage.ArticleStore
	votes    storage.VoteStore
	comments storage.CommentStore
	prefs    storage.PreferenceStore
	profiles storage.ProfileStore
	polls    storage.PollStore
	stats    storage.StatsStore
}

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	s := server.NewServer(e, cfg)

	ctx := context.Background()
	st, health, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		slog.Error("Failed to set up storage", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	tables, err := loadTables(cfg)
	if err != nil {
		slog.Error("Failed to load source tables", "error", err)
		os.Exit(1)
	}

	pipeline := ingest.NewPipeline(st.articles, tables, buildSources(cfg))
	builder := feed.NewBuilder(st.articles, st.votes, st.comments)
	engageSvc := engage.NewService(st.articles, st.votes, st.comments, st.prefs, st.profiles)
	limiter := buildLimiter(cfg)

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Newsify API is running")
	})
	e.GET("/health", func(c echo.Context) error {
		if !health.Healthy(c.Request().Context()) {
			return c.String(http.StatusServiceUnavailable, "unhealthy")
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", metrics.Handler())

	router.NewFeedRouter(e, builder, st.prefs, st.articles, st.comments, engageSvc).Bind()
	router.NewEngagementRouter(e, engageSvc).Bind()
	router.NewPollsRouter(e, st.polls).Bind()
	router.NewStatsRouter(e, st.stats, st.prefs).Bind()
	router.NewRefreshRouter(e, pipeline, limiter, cfg.PublicRefreshBudget, cfg.AdminRefreshBudget, cfg.AdminToken).Bind()

	if err := s.Start(); err != nil {
		e.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}

// buildStores connects to Postgres when DATABASE_URL is set; otherwise
// everything runs on the in-memory store, which is enough for local
// development.
func buildStores(ctx context.Context, cfg *server.Config) (*stores, pkgserver.HealthChecker, func(), error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, using in-memory storage")
		mem := inmem.NewStore()
		st := &stores{
			articles: mem,
			votes:    mem,
			comments: mem,
			prefs:    mem,
			profiles: mem,
			polls:    mem,
			stats:    mem,
		}
		return st, pkgserver.NewOkHealthChecker(), func() {}, nil
	}

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	st := &stores{
		articles: pg.NewArticleStore(pool),
		votes:    pg.NewVoteStore(pool),
		comments: pg.NewCommentStore(pool),
		prefs:    pg.NewPreferenceStore(pool),
		profiles: pg.NewProfileStore(pool),
		polls:    pg.NewPollStore(pool),
		stats:    pg.NewStatsStore(pool),
	}
	return st, pkgserver.NewDbHealthChecker(pool), pool.Close, nil
}

func loadTables(cfg *server.Config) (*source.Tables, error) {
	if cfg.SourcesFile == "" {
		return source.DefaultTables(), nil
	}
	f, err := os.Open(cfg.SourcesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return source.LoadTables(f)
}

// buildSources wires every provider a key is configured for. Running
// with a subset is normal; the pipeline works with whatever is present.
func buildSources(cfg *server.Config) []source.Source {
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
		slog.Warn("No provider API keys configured, refresh will fetch nothing")
	}
	return sources
}

func buildLimiter(cfg *server.Config) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		slog.Warn("REDIS_ADDR not set, using in-process refresh cooldown")
		return ratelimit.NewMemoryLimiter(cfg.RefreshCooldown)
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return ratelimit.NewRedisLimiter(client, cfg.RefreshCooldown)
}
