package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	nyTimesName    = "New York Times"
	nyTimesBaseURL = "https://api.nytimes.com/svc/topstories/v2"
)

// NYTimes fetches from the NYT Top Stories API. The API takes no page
// size parameter, so Fetch truncates the results to the requested limit.
// Categories map to sections; "general" maps to the home section.
type NYTimes struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type NYTimesOption func(*NYTimes)

func WithNYTimesBaseURL(u string) NYTimesOption {
	return func(s *NYTimes) { s.baseURL = u }
}

func WithNYTimesClient(c *http.Client) NYTimesOption {
	return func(s *NYTimes) { s.client = c }
}

func NewNYTimes(apiKey string, opts ...NYTimesOption) *NYTimes {
	s := &NYTimes{
		apiKey:  apiKey,
		baseURL: nyTimesBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NYTimes) Name() string { return nyTimesName }

// MaxPageSize reflects the top stories feed, which returns a fixed
// section listing of at most a few dozen entries.
func (s *NYTimes) MaxPageSize() int { return 50 }

type nyTimesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title         string `json:"title"`
		Abstract      string `json:"abstract"`
		URL           string `json:"url"`
		PublishedDate string `json:"published_date"`
		Multimedia    []struct {
			URL    string `json:"url"`
			Format string `json:"format"`
		} `json:"multimedia"`
	} `json:"results"`
}

func (s *NYTimes) Fetch(ctx context.Context, q Query) ([]RawArticle, error) {
	section := q.Category
	if section == "general" {
		section = "home"
	}

	params := url.Values{}
	params.Set("api-key", s.apiKey)

	var payload nyTimesResponse
	endpoint := fmt.Sprintf("%s/%s.json", s.baseURL, section)
	if err := getJSON(ctx, s.client, nyTimesName, endpoint, params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" {
		return nil, unavailable(nyTimesName, fmt.Sprintf("status %q", payload.Status), nil)
	}

	articles := make([]RawArticle, 0, len(payload.Results))
	for _, item := range payload.Results {
		imageURL := ""
		for _, media := range item.Multimedia {
			if media.Format == "Large Thumbnail" {
				imageURL = media.URL
				break
			}
		}
		articles = append(articles, RawArticle{
			Title:       item.Title,
			Description: item.Abstract,
			Content:     item.Abstract,
			URL:         item.URL,
			ImageURL:    imageURL,
			PublishedAt: item.PublishedDate,
			Source:      nyTimesName,
		})
	}

	if q.Limit > 0 && len(articles) > q.Limit {
		articles = articles[:q.Limit]
	}
	return articles, nil
}

var _ Source = (*NYTimes)(nil)
