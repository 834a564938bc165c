package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newsify/newsify/internal/session"
	"github.com/newsify/newsify/internal/storage"
	"github.com/newsify/newsify/pkg/timeutil"
)

const recentActivityLimit = 10

type StatsRouter struct {
	e     *echo.Echo
	stats storage.StatsStore
	prefs storage.PreferenceStore
}

func NewStatsRouter(e *echo.Echo, stats storage.StatsStore, prefs storage.PreferenceStore) *StatsRouter {
	return &StatsRouter{e: e, stats: stats, prefs: prefs}
}

func (r *StatsRouter) Bind() {
	r.e.GET("/api/stats", r.globalHandler)
	r.e.GET("/api/user/stats", r.userHandler)
}

func (r *StatsRouter) globalHandler(c echo.Context) error {
	stats, err := r.stats.Global(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

type activityView struct {
	Title string `json:"title"`
	Kind  string `json:"type"`
	Time  string `json:"time"`
}

func (r *StatsRouter) userHandler(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := session.ID(c)

	summary, err := r.stats.SessionSummary(ctx, sessionID)
	if err != nil {
		return err
	}

	prefs, err := r.prefs.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	favorite := "None yet"
	if fav, ok := prefs.Favorite(); ok {
		favorite = titleCase(string(fav))
	}

	activity, err := r.stats.RecentActivity(ctx, sessionID, recentActivityLimit)
	if err != nil {
		return err
	}
	now := time.Now()
	activityViews := make([]activityView, 0, len(activity))
	for _, item := range activity {
		activityViews = append(activityViews, activityView{
			Title: item.Title,
			Kind:  item.Kind,
			Time:  timeutil.Relative(item.At, now),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"articles_read":     summary.Votes,
		"upvotes_given":     summary.Upvotes,
		"comments_posted":   summary.Comments,
		"favorite_category": favorite,
		"preferences":       prefs,
		"recent_activity":   activityViews,
	})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
