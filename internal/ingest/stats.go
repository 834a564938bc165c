package ingest

// Stats summarizes one pipeline run. TotalFetched counts every article
// providers returned; TotalSaved counts only rows that survived
// validation and dedup.
type Stats struct {
	TotalFetched int            `json:"total_fetched"`
	TotalSaved   int            `json:"total_saved"`
	ByCategory   map[string]int `json:"by_category"`
	BySource     map[string]int `json:"by_source"`
}

func newStats() *Stats {
	return &Stats{
		ByCategory: make(map[string]int),
		BySource:   make(map[string]int),
	}
}
