package services

import "github.com/custodia-labs/placemap/internal/core/domain"

// Merge writes cached and resolved coordinates onto records that still carry
// the sentinel, matching by URL. fetched holds the URLs resolved during this
// run; every other hit is recorded as coming from the cache. Records with no
// usable entry are marked unresolved. Returns the number of records filled.
func Merge(records []domain.LocationRecord, cache domain.CoordinateCache, fetched map[string]bool) int {
	filled := 0
	for i := range records {
		rec := &records[i]
		if !rec.NeedsResolution() {
			continue
		}

		coord, ok := cache.Get(rec.URL)
		if !ok || rec.URL == "" || !coord.IsResolved() {
			rec.Coordinate = domain.Unresolved
			rec.Source = domain.SourceUnresolved
			continue
		}

		rec.Coordinate = coord
		if fetched[rec.URL] {
			rec.Source = domain.SourceResolved
		} else {
			rec.Source = domain.SourceCache
		}
		filled++
	}
	return filled
}

// CountSources tallies records by coordinate provenance.
func CountSources(records []domain.LocationRecord) map[domain.CoordinateSource]int {
	counts := make(map[domain.CoordinateSource]int)
	for i := range records {
		counts[records[i].Source]++
	}
	return counts
}
