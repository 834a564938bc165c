package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	newsDataName    = "NewsData.io"
	newsDataBaseURL = "https://newsdata.io/api/1/news"
	newsDataMaxPage = 10
)

// NewsData fetches from newsdata.io. The provider has no "general"
// category; it calls the same bucket "top".
type NewsData struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type NewsDataOption func(*NewsData)

func WithNewsDataBaseURL(u string) NewsDataOption {
	return func(s *NewsData) { s.baseURL = u }
}

func WithNewsDataClient(c *http.Client) NewsDataOption {
	return func(s *NewsData) { s.client = c }
}

func NewNewsData(apiKey string, opts ...NewsDataOption) *NewsData {
	s := &NewsData{
		apiKey:  apiKey,
		baseURL: newsDataBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NewsData) Name() string     { return newsDataName }
func (s *NewsData) MaxPageSize() int { return newsDataMaxPage }

type newsDataResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		Link        string `json:"link"`
		ImageURL    string `json:"image_url"`
		PubDate     string `json:"pubDate"`
		SourceID    string `json:"source_id"`
	} `json:"results"`
}

func (s *NewsData) Fetch(ctx context.Context, q Query) ([]RawArticle, error) {
	category := q.Category
	if category == "general" {
		category = "top"
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("language", q.language())
	params.Set("category", category)
	params.Set("size", strconv.Itoa(clampLimit(q.Limit, newsDataMaxPage)))

	var payload newsDataResponse
	if err := getJSON(ctx, s.client, newsDataName, s.baseURL, params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "success" {
		return nil, unavailable(newsDataName, fmt.Sprintf("status %q", payload.Status), nil)
	}

	articles := make([]RawArticle, 0, len(payload.Results))
	for _, item := range payload.Results {
		sourceName := item.SourceID
		if sourceName == "" {
			sourceName = "NewsData"
		}
		articles = append(articles, RawArticle{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.Link,
			ImageURL:    item.ImageURL,
			PublishedAt: item.PubDate,
			Source:      sourceName,
		})
	}
	return articles, nil
}

var _ Source = (*NewsData)(nil)
