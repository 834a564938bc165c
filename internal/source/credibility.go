package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/newsify/newsify/internal/domain"
	"gopkg.in/yaml.v3"
)

// Tables holds the editorial metadata applied during ingestion: per-outlet
// credibility scores and the mapping from provider category names to ours.
type Tables struct {
	Credibility        map[string]int    `yaml:"credibility"`
	Categories         map[string]string `yaml:"categories"`
	DefaultCredibility int               `yaml:"default_credibility"`
}

// DefaultTables returns the built-in scores and category mapping used
// when no override file is configured.
func DefaultTables() *Tables {
	return &Tables{
		Credibility: map[string]int{
			"bbc-news":                10,
			"reuters":                 10,
			"the-wall-street-journal": 9,
			"bloomberg":               9,
			"cnn":                     8,
			"techcrunch":              8,
			"espn":                    9,
			"the-verge":               8,
			"the-guardian":            9,
			"new-york-times":          10,
			"associated-press":        10,
		},
		Categories: map[string]string{
			"technology":    "technology",
			"sports":        "sports",
			"business":      "business",
			"entertainment": "entertainment",
			"health":        "health",
			"science":       "science",
			"general":       "world",
		},
		DefaultCredibility: 7,
	}
}

// LoadTables reads a YAML override and merges it over the defaults, so a
// config file only needs to list the entries it changes.
func LoadTables(r io.Reader) (*Tables, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read source tables: %w", err)
	}

	var override Tables
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("failed to parse source tables: %w", err)
	}

	tables := DefaultTables()
	for outlet, score := range override.Credibility {
		tables.Credibility[outlet] = score
	}
	for provider, ours := range override.Categories {
		tables.Categories[provider] = ours
	}
	if override.DefaultCredibility > 0 {
		tables.DefaultCredibility = override.DefaultCredibility
	}
	return tables, nil
}

// CredibilityFor looks up an outlet by its display name. Names are
// normalized to lowercase with dashes, so "BBC News" matches "bbc-news".
func (t *Tables) CredibilityFor(sourceName string) int {
	key := strings.ReplaceAll(strings.ToLower(sourceName), " ", "-")
	if score, ok := t.Credibility[key]; ok {
		return score
	}
	return t.DefaultCredibility
}

// CanonicalCategory maps a provider category name to one of ours,
// falling back to the default category for anything unmapped.
func (t *Tables) CanonicalCategory(provider string) domain.Category {
	if mapped, ok := t.Categories[provider]; ok {
		if cat, ok := domain.ParseCategory(mapped); ok {
			return cat
		}
	}
	if cat, ok := domain.ParseCategory(provider); ok {
		return cat
	}
	return domain.DefaultCategory
}

// ProviderCategories returns the provider-facing category names to fetch,
// in a stable order.
func (t *Tables) ProviderCategories() []string {
	return []string{"technology", "sports", "business", "entertainment", "health", "science", "general"}
}
