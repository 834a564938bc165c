package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ArticlesFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "newsify_articles_fetched_total",
		Help: "Articles fetched from upstream providers, including duplicates.",
	}, []string{"source"})

	ArticlesSaved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "newsify_articles_saved_total",
		Help: "New articles persisted after dedup and validation.",
	}, []string{"category"})

	SourceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "newsify_source_failures_total",
		Help: "Provider fetches that returned no usable payload.",
	}, []string{"source"})

	VotesCast = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "newsify_votes_total",
		Help: "Vote state machine transitions by action.",
	}, []string{"action"})

	CommentsPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "newsify_comments_total",
		Help: "Comments accepted.",
	})

	RefreshRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "newsify_refresh_rejected_total",
		Help: "Refresh requests rejected by the cooldown limiter.",
	})
)

func MustRegister() {
	prometheus.MustRegister(
		ArticlesFetched,
		ArticlesSaved,
		SourceFailures,
		VotesCast,
		CommentsPosted,
		RefreshRejected,
	)
}

// Handler exposes the prometheus scrape endpoint as an echo handler.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
