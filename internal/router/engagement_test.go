package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/newsify/newsify/internal/apperr"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/engage"
	"github.com/newsify/newsify/internal/feed"
	"github.com/newsify/newsify/internal/ingest"
	"github.com/newsify/newsify/internal/ratelimit"
	"github.com/newsify/newsify/internal/router"
	"github.com/newsify/newsify/internal/session"
	"github.com/newsify/newsify/internal/source"
	"github.com/newsify/newsify/internal/storage/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	e     *echo.Echo
	store *inmem.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	e.Use(session.Middleware())

	store := inmem.NewStore()
	svc := engage.NewService(store, store, store, store, store)
	builder := feed.NewBuilder(store, store, store)

	router.NewFeedRouter(e, builder, store, store, store, svc).Bind()
	router.NewEngagementRouter(e, svc).Bind()
	router.NewPollsRouter(e, store).Bind()
	router.NewStatsRouter(e, store, store).Bind()

	return &testAPI{e: e, store: store}
}

func (api *testAPI) seedArticle(t *testing.T, title string) *domain.Article {
	t.Helper()
	a := &domain.Article{
		Title:       title,
		Category:    domain.CategoryTechnology,
		SourceURL:   "https://example.com/" + strings.ReplaceAll(title, " ", "-"),
		PublishedAt: time.Now(),
		Credibility: 8,
	}
	inserted, err := api.store.Insert(context.Background(), a)
	require.NoError(t, err)
	require.True(t, inserted)
	return a
}

func (api *testAPI) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestVoteEndpoint(t *testing.T) {
	api := newTestAPI(t)
	a := api.seedArticle(t, "new framework released")

	rec := api.do(http.MethodPost, "/api/vote",
		fmt.Sprintf(`{"article_id": %q, "vote_type": "up"}`, a.ID), nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	payload := decode(t, rec)
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, "created", payload["action"])
	assert.Equal(t, float64(1), payload["upvotes"])
	assert.Equal(t, "up", payload["user_vote"])
}

func TestVoteEndpointValidation(t *testing.T) {
	api := newTestAPI(t)
	a := api.seedArticle(t, "story")

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "bad vote type", body: fmt.Sprintf(`{"article_id": %q, "vote_type": "sideways"}`, a.ID), want: http.StatusBadRequest},
		{name: "bad article id", body: `{"article_id": "nope", "vote_type": "up"}`, want: http.StatusBadRequest},
		{name: "unknown article", body: fmt.Sprintf(`{"article_id": %q, "vote_type": "up"}`, uuid.New()), want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/vote", tt.body, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCommentEndpoint(t *testing.T) {
	api := newTestAPI(t)
	a := api.seedArticle(t, "commented story")

	rec := api.do(http.MethodPost, "/api/comment",
		fmt.Sprintf(`{"article_id": %q, "comment": "great reporting", "author_name": "Sam"}`, a.ID), nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	payload := decode(t, rec)
	comment := payload["comment"].(map[string]any)
	assert.Equal(t, "Sam", comment["author"])
	assert.Equal(t, "great reporting", comment["text"])

	empty := api.do(http.MethodPost, "/api/comment",
		fmt.Sprintf(`{"article_id": %q, "comment": "   "}`, a.ID), nil)
	assert.Equal(t, http.StatusBadRequest, empty.Code)
}

func TestSessionCookieIssuedOnce(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/news", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "first visit mints a session cookie")
	_, err := uuid.Parse(sessionCookie.Value)
	assert.NoError(t, err)

	// A returning caller with a valid cookie gets no new one.
	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	req.AddCookie(sessionCookie)
	again := httptest.NewRecorder()
	api.e.ServeHTTP(again, req)
	assert.Empty(t, again.Result().Cookies())
}

func TestNewsEndpointRejectsUnknownCategory(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/news?category=astrology", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMergeEndpointRequiresUser(t *testing.T) {
	api := newTestAPI(t)

	anonymous := api.do(http.MethodPost, "/api/session/merge", "", nil)
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	authed := api.do(http.MethodPost, "/api/session/merge", "", map[string]string{
		session.UserHeader: "user-1",
	})
	assert.Equal(t, http.StatusOK, authed.Code, authed.Body.String())
}

func TestRefreshEndpointCooldownIsPerSession(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	e.Use(session.Middleware())

	store := inmem.NewStore()
	pipeline := ingest.NewPipeline(store, source.DefaultTables(), nil)
	limiter := ratelimit.NewMemoryLimiter(5 * time.Minute)
	router.NewRefreshRouter(e, pipeline, limiter, 5, 10, "secret").Bind()

	post := func(c *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
		req.AddCookie(c)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}
	visitor := &http.Cookie{Name: session.CookieName, Value: uuid.NewString()}
	other := &http.Cookie{Name: session.CookieName, Value: uuid.NewString()}

	first := post(visitor)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	second := post(visitor)
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &payload))
	assert.NotZero(t, payload["retry_after_seconds"])
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	// One visitor's cooldown never blocks another session.
	rec := post(other)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAdminRefreshAuth(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	store := inmem.NewStore()
	pipeline := ingest.NewPipeline(store, source.DefaultTables(), nil)
	limiter := ratelimit.NewMemoryLimiter(5 * time.Minute)
	router.NewRefreshRouter(e, pipeline, limiter, 5, 10, "secret").Bind()

	forbidden := httptest.NewRecorder()
	e.ServeHTTP(forbidden, httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil))
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
	req.Header.Set(router.AdminTokenHeader, "secret")
	ok := httptest.NewRecorder()
	e.ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
}

func TestUserStatsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	a := api.seedArticle(t, "tracked story")

	// Vote with a stable session cookie so the stats query finds it.
	cookie := &http.Cookie{Name: session.CookieName, Value: uuid.NewString()}
	req := httptest.NewRequest(http.MethodPost, "/api/vote",
		strings.NewReader(fmt.Sprintf(`{"article_id": %q, "vote_type": "up"}`, a.ID)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	statsReq := httptest.NewRequest(http.MethodGet, "/api/user/stats", nil)
	statsReq.AddCookie(cookie)
	statsRec := httptest.NewRecorder()
	api.e.ServeHTTP(statsRec, statsReq)
	require.Equal(t, http.StatusOK, statsRec.Code)

	payload := decode(t, statsRec)
	assert.Equal(t, float64(1), payload["articles_read"])
	assert.Equal(t, float64(1), payload["upvotes_given"])
	assert.Equal(t, "Technology", payload["favorite_category"])
	assert.Len(t, payload["recent_activity"], 1)
}

func TestPollEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.store.AddPoll(domain.Poll{
		Question: "Favorite section?",
		Active:   true,
		Options:  []domain.PollOption{{Text: "Tech"}, {Text: "Sports"}},
	})

	list := api.do(http.MethodGet, "/api/polls", "", nil)
	require.Equal(t, http.StatusOK, list.Code)
	payload := decode(t, list)
	polls := payload["polls"].([]any)
	require.Len(t, polls, 1)
	options := polls[0].(map[string]any)["options"].([]any)
	require.Len(t, options, 2)
	optionID := options[0].(map[string]any)["id"].(string)

	vote := api.do(http.MethodPost, "/api/polls/vote", fmt.Sprintf(`{"option_id": %q}`, optionID), nil)
	require.Equal(t, http.StatusOK, vote.Code, vote.Body.String())
	votePayload := decode(t, vote)
	assert.Equal(t, float64(1), votePayload["votes"])
	assert.Equal(t, float64(100), votePayload["percentage"])
}
