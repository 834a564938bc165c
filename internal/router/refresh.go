package router

import (
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/newsify/newsify/internal/apperr"
	"github.com/newsify/newsify/internal/ingest"
	"github.com/newsify/newsify/internal/metrics"
	"github.com/newsify/newsify/internal/ratelimit"
	"github.com/newsify/newsify/internal/session"
)

const (
	// AdminTokenHeader authorizes the admin refresh endpoint.
	AdminTokenHeader = "X-Admin-Token"

	refreshKeyPrefix = "refresh:cooldown:"
)

type RefreshRouter struct {
	e        *echo.Echo
	pipeline *ingest.Pipeline
	limiter  ratelimit.Limiter

	publicBudget int
	adminBudget  int
	adminToken   string
}

func NewRefreshRouter(
	e *echo.Echo,
	pipeline *ingest.Pipeline,
	limiter ratelimit.Limiter,
	publicBudget, adminBudget int,
	adminToken string,
) *RefreshRouter {
	return &RefreshRouter{
		e:            e,
		pipeline:     pipeline,
		limiter:      limiter,
		publicBudget: publicBudget,
		adminBudget:  adminBudget,
		adminToken:   adminToken,
	}
}

func (r *RefreshRouter) Bind() {
	r.e.POST("/api/refresh", r.refreshHandler)
	r.e.POST("/api/admin/refresh", r.adminRefreshHandler)
}

// refreshHandler triggers an ingestion run for any caller, throttled
// per session so one visitor's refresh never locks out another.
func (r *RefreshRouter) refreshHandler(c echo.Context) error {
	ctx := c.Request().Context()

	allowed, wait, err := r.limiter.Allow(ctx, refreshKeyPrefix+session.ID(c))
	if err != nil {
		return err
	}
	if !allowed {
		metrics.RefreshRejected.Inc()
		return apperr.NewRateLimited("refresh cooldown active", int(math.Ceil(wait.Seconds())))
	}

	return r.run(c, r.publicBudget)
}

// adminRefreshHandler runs a larger ingestion, gated on the admin token
// and exempt from the public cooldown.
func (r *RefreshRouter) adminRefreshHandler(c echo.Context) error {
	if r.adminToken == "" {
		return echo.NewHTTPError(http.StatusNotFound, "admin refresh disabled")
	}
	if c.Request().Header.Get(AdminTokenHeader) != r.adminToken {
		return echo.NewHTTPError(http.StatusForbidden, "invalid admin token")
	}

	return r.run(c, r.adminBudget)
}

func (r *RefreshRouter) run(c echo.Context, perCategory int) error {
	stats, err := r.pipeline.Run(c.Request().Context(), nil, perCategory)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("Fetched %d new articles", stats.TotalSaved),
		"stats":   stats,
	})
}
