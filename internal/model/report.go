package model

import "time"

// ResolverStats counts what happened during entity resolution.
// Each Resolver instance owns its counters; callers aggregate across runs.
type ResolverStats struct {
	PersonsCreated    int `json:"persons_created"`
	PersonsMerged     int `json:"persons_merged"`
	HomonymsDetected  int `json:"homonyms_detected"`
	GenderCorrections int `json:"gender_corrections"`
	Placeholders      int `json:"placeholders"`
	CacheHits         int `json:"cache_hits"`
	CacheMisses       int `json:"cache_misses"`
}

// CacheHitRate returns the fuzzy-search cache hit ratio in [0,1].
func (s ResolverStats) CacheHitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// ChronologyStats counts chronology validation outcomes.
type ChronologyStats struct {
	PersonsChecked    int `json:"persons_checked"`
	RecordsChecked    int `json:"records_checked"`
	ErrorsFound       int `json:"errors_found"`
	CorrectionsMade   int `json:"corrections_made"`
	UncorrectedErrors int `json:"uncorrected_errors"`
}

// Report is the statistics summary of one processing run, produced for
// downstream reporting alongside the resolved persons and relation list.
type Report struct {
	Source      string    `json:"source,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`

	PersonCount   int                  `json:"person_count"`
	ActeCount     int                  `json:"acte_count"`
	RelationCount int                  `json:"relation_count"`
	RelationKinds map[RelationKind]int `json:"relation_kinds,omitempty"`

	GenerationDepth int `json:"generation_depth"`
	FamilyGroups    int `json:"family_groups"`
	LargestFamily   int `json:"largest_family"`

	Resolver   ResolverStats   `json:"resolver"`
	Chronology ChronologyStats `json:"chronology"`

	Corrections []string `json:"corrections,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}
