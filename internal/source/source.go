package source

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Query asks a provider for recent articles in one category.
type Query struct {
	// Category is one of the provider-facing category names, e.g.
	// "technology" or "general".
	Category string
	// Limit caps the number of articles. Providers with a smaller
	// maximum page size clamp it; see MaxPageSize.
	Limit int
	// Language is an ISO 639-1 code. Empty means "en".
	Language string
}

func (q Query) language() string {
	if q.Language == "" {
		return "en"
	}
	return q.Language
}

// RawArticle is a provider-agnostic article as fetched, before
// normalization. PublishedAt stays a string because every provider
// formats timestamps differently; the ingest pipeline parses it.
type RawArticle struct {
	Title       string
	Description string
	Content     string
	URL         string
	ImageURL    string
	PublishedAt string
	Source      string
}

// Source is a single upstream news provider.
type Source interface {
	Name() string
	// MaxPageSize is the largest article count one Fetch can return.
	MaxPageSize() int
	Fetch(ctx context.Context, q Query) ([]RawArticle, error)
}

// UnavailableError marks a provider failure - network trouble, a non-200
// status, or a malformed payload. Callers treat it as transient and keep
// fetching from the remaining providers.
type UnavailableError struct {
	Source string
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s unavailable: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("source %s unavailable: %s", e.Source, e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func unavailable(source, reason string, err error) *UnavailableError {
	return &UnavailableError{Source: source, Reason: reason, Err: err}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

func clampLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}
