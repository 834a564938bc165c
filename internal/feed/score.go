package feed

import (
	"math"
	"strings"
	"time"

	"github.com/newsify/newsify/internal/domain"
)

const wordsPerMinute = 200

// Score ranks an article for one reader. Recency decays linearly to zero
// over ten days, engagement saturates at 10, and both are blended with
// the outlet's credibility and the reader's affinity for the category.
func Score(a *domain.Article, prefs domain.Preferences, now time.Time) float64 {
	hoursOld := now.Sub(a.PublishedAt).Hours()
	recency := math.Max(0, 10-hoursOld/24)
	engagement := math.Min(10, (float64(a.Upvotes)*0.5+float64(a.Views)*0.01)/10)
	credibility := float64(a.Credibility)
	affinity := prefs.Affinity(a.Category)

	return 0.3*recency + 0.3*engagement + 0.2*credibility + 0.2*affinity
}

// ReadingTime estimates minutes to read at 200 words per minute,
// never reporting less than one minute.
func ReadingTime(a *domain.Article) int {
	text := a.Content
	if text == "" {
		text = a.Description
	}
	minutes := len(strings.Fields(text)) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Trending marks articles with strong vote counts, or solid votes plus
// an active comment thread.
func Trending(a *domain.Article, commentCount int) bool {
	return a.Upvotes > 10 || (a.Upvotes > 5 && commentCount >= 3)
}
