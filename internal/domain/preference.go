package domain

import (
	"encoding/json"
	"fmt"

	"github.com/newsify/newsify/pkg/utils"
)

const (
	// NeutralAffinity is assumed for categories never engaged with.
	NeutralAffinity = 5.0
	MinAffinity     = 0.0
	MaxAffinity     = 10.0

	// AdjustStep scales an engagement weight into an affinity delta.
	AdjustStep = 0.5

	VoteWeight    = 1.0
	CommentWeight = 0.5
)

// Preferences maps a category to an affinity score in [0, 10].
// Missing categories read as NeutralAffinity.
type Preferences map[Category]float64

func (p Preferences) Affinity(cat Category) float64 {
	if v, ok := p[cat]; ok {
		return v
	}
	return NeutralAffinity
}

// Adjust nudges the affinity for cat upward by weight*AdjustStep,
// clamped to MaxAffinity. Preferences only ever move up from engagement;
// nothing decays them here.
func (p Preferences) Adjust(cat Category, weight float64) {
	p[cat] = utils.Clamp(p.Affinity(cat)+weight*AdjustStep, MinAffinity, MaxAffinity)
}

// Has reports whether the category has ever been engaged with.
func (p Preferences) Has(cat Category) bool {
	_, ok := p[cat]
	return ok
}

// Keys returns the engaged category names, for API payloads.
func (p Preferences) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, c := range Categories() {
		if _, ok := p[c]; ok {
			keys = append(keys, string(c))
		}
	}
	return keys
}

// Favorite returns the highest-affinity category, or false when empty.
func (p Preferences) Favorite() (Category, bool) {
	var best Category
	bestScore := -1.0
	for _, c := range Categories() {
		if v, ok := p[c]; ok && v > bestScore {
			best, bestScore = c, v
		}
	}
	return best, bestScore >= 0
}

// MergePreferences averages a session vector into a profile vector
// component-wise. A category present on only one side averages against
// NeutralAffinity. The result replaces the profile vector at login.
func MergePreferences(session, profile Preferences) Preferences {
	merged := make(Preferences, len(session)+len(profile))
	for cat, v := range profile {
		merged[cat] = v
	}
	for cat, score := range session {
		base := NeutralAffinity
		if v, ok := merged[cat]; ok {
			base = v
		}
		avg := utils.Clamp((base+score)/2, MinAffinity, MaxAffinity)
		merged[cat] = utils.RoundDecimal(avg, 2)
	}
	return merged
}

// DecodePreferences parses a stored preference vector. Legacy rows hold
// a bare list of category names; those migrate to the mapping form with
// every listed category at NeutralAffinity. All reads go through here so
// no other code branches on representation.
func DecodePreferences(raw []byte) (Preferences, error) {
	if len(raw) == 0 {
		return Preferences{}, nil
	}

	var scores map[Category]float64
	if err := json.Unmarshal(raw, &scores); err == nil {
		prefs := make(Preferences, len(scores))
		for cat, v := range scores {
			prefs[cat] = utils.Clamp(v, MinAffinity, MaxAffinity)
		}
		return prefs, nil
	}

	var legacy []Category
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	prefs := make(Preferences, len(legacy))
	for _, cat := range legacy {
		prefs[cat] = NeutralAffinity
	}
	return prefs, nil
}

// EncodePreferences serializes the mapping form for storage.
func EncodePreferences(p Preferences) ([]byte, error) {
	if p == nil {
		p = Preferences{}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	return raw, nil
}
