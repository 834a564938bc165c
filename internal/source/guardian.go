package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	guardianName    = "The Guardian"
	guardianBaseURL = "https://content.guardianapis.com/search"
	guardianMaxPage = 50
)

// Guardian fetches from the Guardian content API. Categories map to
// Guardian "sections"; the "general" bucket maps to the world section.
type Guardian struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type GuardianOption func(*Guardian)

func WithGuardianBaseURL(u string) GuardianOption {
	return func(s *Guardian) { s.baseURL = u }
}

func WithGuardianClient(c *http.Client) GuardianOption {
	return func(s *Guardian) { s.client = c }
}

func NewGuardian(apiKey string, opts ...GuardianOption) *Guardian {
	s := &Guardian{
		apiKey:  apiKey,
		baseURL: guardianBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Guardian) Name() string     { return guardianName }
func (s *Guardian) MaxPageSize() int { return guardianMaxPage }

type guardianResponse struct {
	Response struct {
		Status  string `json:"status"`
		Results []struct {
			WebTitle           string `json:"webTitle"`
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			Fields             struct {
				Headline  string `json:"headline"`
				TrailText string `json:"trailText"`
				Thumbnail string `json:"thumbnail"`
				Body      string `json:"body"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

func (s *Guardian) Fetch(ctx context.Context, q Query) ([]RawArticle, error) {
	section := q.Category
	if section == "general" {
		section = "world"
	}

	params := url.Values{}
	params.Set("api-key", s.apiKey)
	params.Set("section", section)
	params.Set("page-size", strconv.Itoa(clampLimit(q.Limit, guardianMaxPage)))
	params.Set("show-fields", "headline,trailText,thumbnail,body")
	params.Set("order-by", "newest")

	var payload guardianResponse
	if err := getJSON(ctx, s.client, guardianName, s.baseURL, params, &payload); err != nil {
		return nil, err
	}
	if payload.Response.Status != "ok" {
		return nil, unavailable(guardianName, fmt.Sprintf("status %q", payload.Response.Status), nil)
	}

	articles := make([]RawArticle, 0, len(payload.Response.Results))
	for _, item := range payload.Response.Results {
		title := item.Fields.Headline
		if title == "" {
			title = item.WebTitle
		}
		articles = append(articles, RawArticle{
			Title:       title,
			Description: item.Fields.TrailText,
			Content:     item.Fields.Body,
			URL:         item.WebURL,
			ImageURL:    item.Fields.Thumbnail,
			PublishedAt: item.WebPublicationDate,
			Source:      guardianName,
		})
	}
	return articles, nil
}

var _ Source = (*Guardian)(nil)
