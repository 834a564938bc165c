package source

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	gNewsName    = "GNews"
	gNewsBaseURL = "https://gnews.io/api/v4/top-headlines"
	gNewsMaxPage = 10
)

// GNews fetches from gnews.io.
type GNews struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type GNewsOption func(*GNews)

func WithGNewsBaseURL(u string) GNewsOption {
	return func(s *GNews) { s.baseURL = u }
}

func WithGNewsClient(c *http.Client) GNewsOption {
	return func(s *GNews) { s.client = c }
}

func NewGNews(apiKey string, opts ...GNewsOption) *GNews {
	s := &GNews{
		apiKey:  apiKey,
		baseURL: gNewsBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GNews) Name() string     { return gNewsName }
func (s *GNews) MaxPageSize() int { return gNewsMaxPage }

type gNewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		Image       string `json:"image"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (s *GNews) Fetch(ctx context.Context, q Query) ([]RawArticle, error) {
	params := url.Values{}
	params.Set("token", s.apiKey)
	params.Set("category", q.Category)
	params.Set("lang", q.language())
	params.Set("max", strconv.Itoa(clampLimit(q.Limit, gNewsMaxPage)))

	var payload gNewsResponse
	if err := getJSON(ctx, s.client, gNewsName, s.baseURL, params, &payload); err != nil {
		return nil, err
	}

	articles := make([]RawArticle, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		sourceName := item.Source.Name
		if sourceName == "" {
			sourceName = gNewsName
		}
		articles = append(articles, RawArticle{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.URL,
			ImageURL:    item.Image,
			PublishedAt: item.PublishedAt,
			Source:      sourceName,
		})
	}
	return articles, nil
}

var _ Source = (*GNews)(nil)
