package router

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/newsify/newsify/internal/apperr"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/engage"
	"github.com/newsify/newsify/internal/feed"
	"github.com/newsify/newsify/internal/session"
	"github.com/newsify/newsify/internal/storage"
)

const (
	defaultHeadlines   = 10
	defaultArchiveDays = 14
	archivePageSize    = 20
)

type FeedRouter struct {
	e        *echo.Echo
	builder  *feed.Builder
	prefs    storage.PreferenceStore
	articles storage.ArticleStore
	comments storage.CommentStore
	engage   *engage.Service
}

func NewFeedRouter(
	e *echo.Echo,
	builder *feed.Builder,
	prefs storage.PreferenceStore,
	articles storage.ArticleStore,
	comments storage.CommentStore,
	engageSvc *engage.Service,
) *FeedRouter {
	return &FeedRouter{
		e:        e,
		builder:  builder,
		prefs:    prefs,
		articles: articles,
		comments: comments,
		engage:   engageSvc,
	}
}

func (r *FeedRouter) Bind() {
	r.e.GET("/api/news", r.newsHandler)
	r.e.GET("/api/headlines", r.headlinesHandler)
	r.e.GET("/api/archive", r.archiveHandler)
	r.e.GET("/api/articles/:id", r.articleHandler)
}

func (r *FeedRouter) newsHandler(c echo.Context) error {
	sessionID := session.ID(c)

	params := feed.Params{
		Search: c.QueryParam("search"),
		Size:   intParam(c, "size", 0),
	}
	if category := c.QueryParam("category"); category != "" && category != "all" {
		cat, ok := domain.ParseCategory(category)
		if !ok {
			return apperr.NewValidation("unknown category: " + category)
		}
		params.Category = &cat
	}

	prefs, err := r.prefs.GetSession(c.Request().Context(), sessionID)
	if err != nil {
		return err
	}

	result, err := r.builder.Build(c.Request().Context(), sessionID, prefs, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (r *FeedRouter) headlinesHandler(c echo.Context) error {
	limit := intParam(c, "limit", defaultHeadlines)

	items, err := r.builder.Headlines(c.Request().Context(), session.ID(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"headlines": items})
}

func (r *FeedRouter) archiveHandler(c echo.Context) error {
	days := intParam(c, "days", defaultArchiveDays)
	cutoff := time.Now().AddDate(0, 0, -days)

	items, err := r.builder.Archive(c.Request().Context(), session.ID(c), cutoff, archivePageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"archived": items, "cutoff_days": days})
}

func (r *FeedRouter) articleHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid article id", err)
	}

	ctx := c.Request().Context()
	if err := r.engage.RecordView(ctx, session.UserID(c), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NewNotFound("article")
		}
		return err
	}

	article, err := r.articles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NewNotFound("article")
		}
		return err
	}

	comments, err := r.comments.Recent(ctx, id, 5)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"article":  article,
		"comments": comments,
	})
}

// intParam parses a positive integer query parameter, falling back to
// the default on anything unparseable.
func intParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
