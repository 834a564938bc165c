package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsAPIFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "technology", r.URL.Query().Get("category"))
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		assert.Equal(t, "25", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		w.Write([]byte(`{
			"status": "ok",
			"articles": [{
				"source": {"name": "TechCrunch"},
				"title": "Startup raises round",
				"description": "Big money",
				"content": "Full text",
				"url": "https://example.com/startup",
				"urlToImage": "https://example.com/img.jpg",
				"publishedAt": "2026-08-29T10:00:00Z"
			}]
		}`))
	}))
	defer srv.Close()

	s := NewNewsAPI("test-key", WithNewsAPIBaseURL(srv.URL))
	articles, err := s.Fetch(context.Background(), Query{Category: "technology", Limit: 25})
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "Startup raises round", articles[0].Title)
	assert.Equal(t, "TechCrunch", articles[0].Source)
	assert.Equal(t, "https://example.com/img.jpg", articles[0].ImageURL)
	assert.Equal(t, "2026-08-29T10:00:00Z", articles[0].PublishedAt)
}

func TestNewsAPIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "articles": []}`))
	}))
	defer srv.Close()

	s := NewNewsAPI("test-key", WithNewsAPIBaseURL(srv.URL))
	_, err := s.Fetch(context.Background(), Query{Category: "technology"})

	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "NewsAPI", ue.Source)
}

func TestNewsDataFetchMapsTopCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "top", r.URL.Query().Get("category"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))

		w.Write([]byte(`{
			"status": "success",
			"results": [{
				"title": "World story",
				"description": "desc",
				"content": "body",
				"link": "https://example.com/world",
				"image_url": "https://example.com/w.jpg",
				"pubDate": "2026-08-29 08:00:00",
				"source_id": "reuters"
			}]
		}`))
	}))
	defer srv.Close()

	s := NewNewsData("test-key", WithNewsDataBaseURL(srv.URL))
	articles, err := s.Fetch(context.Background(), Query{Category: "general", Limit: 50})
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "https://example.com/world", articles[0].URL)
	assert.Equal(t, "reuters", articles[0].Source)
}

func TestGuardianFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "world", r.URL.Query().Get("section"))
		assert.Equal(t, "newest", r.URL.Query().Get("order-by"))

		w.Write([]byte(`{
			"response": {
				"status": "ok",
				"results": [{
					"webTitle": "Fallback title",
					"webUrl": "https://example.com/guardian",
					"webPublicationDate": "2026-08-29T09:00:00Z",
					"fields": {
						"headline": "Real headline",
						"trailText": "Trail",
						"thumbnail": "https://example.com/t.jpg",
						"body": "Long body"
					}
				}, {
					"webTitle": "No fields entry",
					"webUrl": "https://example.com/guardian-2",
					"webPublicationDate": "2026-08-29T09:30:00Z"
				}]
			}
		}`))
	}))
	defer srv.Close()

	s := NewGuardian("test-key", WithGuardianBaseURL(srv.URL))
	articles, err := s.Fetch(context.Background(), Query{Category: "general", Limit: 10})
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "Real headline", articles[0].Title)
	assert.Equal(t, "The Guardian", articles[0].Source)
	assert.Equal(t, "No fields entry", articles[1].Title)
}

func TestNYTimesFetchSectionAndTruncation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/home.json", r.URL.Path)

		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"title": "First",
				"abstract": "a1",
				"url": "https://example.com/1",
				"published_date": "2026-08-29",
				"multimedia": [
					{"url": "https://example.com/small.jpg", "format": "Standard Thumbnail"},
					{"url": "https://example.com/large.jpg", "format": "Large Thumbnail"}
				]
			}, {
				"title": "Second",
				"abstract": "a2",
				"url": "https://example.com/2",
				"published_date": "2026-08-29",
				"multimedia": []
			}]
		}`))
	}))
	defer srv.Close()

	s := NewNYTimes("test-key", WithNYTimesBaseURL(srv.URL))
	articles, err := s.Fetch(context.Background(), Query{Category: "general", Limit: 1})
	require.NoError(t, err)

	require.Len(t, articles, 1, "results are cut to the limit after the fetch")
	assert.Equal(t, "First", articles[0].Title)
	assert.Equal(t, "https://example.com/large.jpg", articles[0].ImageURL)
	assert.Equal(t, "New York Times", articles[0].Source)
	assert.Equal(t, "a1", articles[0].Content)
}

func TestGNewsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sports", r.URL.Query().Get("category"))
		assert.Equal(t, "10", r.URL.Query().Get("max"))
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))

		w.Write([]byte(`{
			"articles": [{
				"title": "Match report",
				"description": "desc",
				"content": "body",
				"url": "https://example.com/match",
				"image": "https://example.com/m.jpg",
				"publishedAt": "2026-08-29T11:00:00Z",
				"source": {"name": "ESPN"}
			}]
		}`))
	}))
	defer srv.Close()

	s := NewGNews("test-key", WithGNewsBaseURL(srv.URL))
	articles, err := s.Fetch(context.Background(), Query{Category: "sports", Limit: 99})
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "ESPN", articles[0].Source)
	assert.Equal(t, "https://example.com/m.jpg", articles[0].ImageURL)
}

func TestFetchWrapsTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sources := []Source{
		NewNewsAPI("k", WithNewsAPIBaseURL(srv.URL)),
		NewNewsData("k", WithNewsDataBaseURL(srv.URL)),
		NewGuardian("k", WithGuardianBaseURL(srv.URL)),
		NewNYTimes("k", WithNYTimesBaseURL(srv.URL)),
		NewGNews("k", WithGNewsBaseURL(srv.URL)),
	}

	for _, s := range sources {
		t.Run(s.Name(), func(t *testing.T) {
			_, err := s.Fetch(context.Background(), Query{Category: "general"})

			var ue *UnavailableError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, s.Name(), ue.Source)
		})
	}
}

func TestUnavailableErrorUnwraps(t *testing.T) {
	inner := errors.New("connection refused")
	err := unavailable("NewsAPI", "request failed", inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "NewsAPI")
	assert.Contains(t, err.Error(), "connection refused")
}
