package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	newsAPIName    = "NewsAPI"
	newsAPIBaseURL = "https://newsapi.org/v2/top-headlines"
	newsAPIMaxPage = 100
)

// NewsAPI fetches US top headlines from newsapi.org.
type NewsAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type NewsAPIOption func(*NewsAPI)

func WithNewsAPIBaseURL(u string) NewsAPIOption {
	return func(s *NewsAPI) { s.baseURL = u }
}

func WithNewsAPIClient(c *http.Client) NewsAPIOption {
	return func(s *NewsAPI) { s.client = c }
}

func NewNewsAPI(apiKey string, opts ...NewsAPIOption) *NewsAPI {
	s := &NewsAPI{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NewsAPI) Name() string     { return newsAPIName }
func (s *NewsAPI) MaxPageSize() int { return newsAPIMaxPage }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (s *NewsAPI) Fetch(ctx context.Context, q Query) ([]RawArticle, error) {
	params := url.Values{}
	params.Set("apiKey", s.apiKey)
	params.Set("category", q.Category)
	params.Set("country", "us")
	params.Set("pageSize", strconv.Itoa(clampLimit(q.Limit, newsAPIMaxPage)))

	var payload newsAPIResponse
	if err := getJSON(ctx, s.client, newsAPIName, s.baseURL, params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "ok" {
		return nil, unavailable(newsAPIName, fmt.Sprintf("status %q", payload.Status), nil)
	}

	articles := make([]RawArticle, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		articles = append(articles, RawArticle{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.URL,
			ImageURL:    item.URLToImage,
			PublishedAt: item.PublishedAt,
			Source:      item.Source.Name,
		})
	}
	return articles, nil
}

// getJSON performs the GET shared by every provider: build the URL, demand
// a 200 and decode the body, wrapping any failure as an UnavailableError.
func getJSON(ctx context.Context, client *http.Client, source, baseURL string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return unavailable(source, "failed to build request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return unavailable(source, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unavailable(source, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return unavailable(source, "failed to decode response", err)
	}
	return nil
}

var _ Source = (*NewsAPI)(nil)
