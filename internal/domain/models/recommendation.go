package models

import (
	"sort"
	"time"
)

// Recommendation is a single ranked result returned to the client.
type Recommendation struct {
	Type           string                 `json:"type"`
	Data           map[string]interface{} `json:"data"`
	RelevanceScore float64                `json:"relevance_score"`
	Explanation    string                 `json:"explanation"`
}

// SortByRelevance orders recommendations by descending relevance score.
// The sort is stable: equal scores keep their original source order.
func SortByRelevance(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RelevanceScore > recs[j].RelevanceScore
	})
}

// CacheEntry is an immutable memoized recommendation set. A recomputation
// for the same fingerprint overwrites the previous entry.
type CacheEntry struct {
	Recommendations []Recommendation `json:"recommendations"`
	ComputedAt      time.Time        `json:"computed_at"`
}

// AgeHours returns the entry age in hours relative to now.
func (e CacheEntry) AgeHours(now time.Time) float64 {
	return now.Sub(e.ComputedAt).Hours()
}
