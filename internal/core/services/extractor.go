package services

import (
	"regexp"
	"strconv"

	"github.com/custodia-labs/placemap/internal/core/domain"
)

// queryPattern matches the "q=north,east" pair some saved-place URLs carry.
var queryPattern = regexp.MustCompile(`q=(-?\d+\.\d+),(-?\d+\.\d+)`)

// Strategy derives a coordinate from a record without any I/O.
type Strategy interface {
	// Source is the provenance recorded when the strategy succeeds.
	Source() domain.CoordinateSource

	// Extract returns the coordinate and true, or false when the record
	// carries nothing usable.
	Extract(rec *domain.LocationRecord) (domain.Coordinate, bool)
}

// URLQueryStrategy parses the q= parameter of the reference URL.
type URLQueryStrategy struct{}

// Source returns domain.SourceURL.
func (URLQueryStrategy) Source() domain.CoordinateSource { return domain.SourceURL }

// Extract parses "q=north,east" and returns (east, north).
func (URLQueryStrategy) Extract(rec *domain.LocationRecord) (domain.Coordinate, bool) {
	m := queryPattern.FindStringSubmatch(rec.URL)
	if m == nil {
		return domain.Unresolved, false
	}
	north, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domain.Unresolved, false
	}
	east, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return domain.Unresolved, false
	}
	return usable(domain.FromNorthEast(north, east))
}

// DirectFieldStrategy uses the record's own (north, east) coordinate field.
type DirectFieldStrategy struct{}

// Source returns domain.SourceDirect.
func (DirectFieldStrategy) Source() domain.CoordinateSource { return domain.SourceDirect }

// Extract reverses the stored (north, east) pair.
func (DirectFieldStrategy) Extract(rec *domain.LocationRecord) (domain.Coordinate, bool) {
	if len(rec.Direct) != 2 {
		return domain.Unresolved, false
	}
	return usable(domain.FromNorthEast(rec.Direct[0], rec.Direct[1]))
}

// usable treats the sentinel and out-of-range values as nothing found.
func usable(c domain.Coordinate) (domain.Coordinate, bool) {
	if !c.IsResolved() {
		return domain.Unresolved, false
	}
	return c, true
}

// DefaultStrategies returns the URL strategy followed by the direct field.
func DefaultStrategies() []Strategy {
	return []Strategy{URLQueryStrategy{}, DirectFieldStrategy{}}
}

// Extractor runs strategies in order and stops at the first success.
type Extractor struct {
	strategies []Strategy
}

// NewExtractor creates an extractor. With no strategies it uses
// DefaultStrategies.
func NewExtractor(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Extractor{strategies: strategies}
}

// Extract returns the first coordinate found and its provenance, or the
// sentinel with domain.SourceUnresolved.
func (e *Extractor) Extract(rec *domain.LocationRecord) (domain.Coordinate, domain.CoordinateSource) {
	for _, s := range e.strategies {
		if c, ok := s.Extract(rec); ok {
			return c, s.Source()
		}
	}
	return domain.Unresolved, domain.SourceUnresolved
}

// Apply sets Coordinate and Source on every record.
func (e *Extractor) Apply(records []domain.LocationRecord) {
	for i := range records {
		records[i].Coordinate, records[i].Source = e.Extract(&records[i])
	}
}

// PendingURLs returns the URLs of records still carrying the sentinel,
// deduplicated in first-seen order. Records without a URL are skipped.
func PendingURLs(records []domain.LocationRecord) []string {
	seen := make(map[string]bool)
	var urls []string
	for i := range records {
		rec := &records[i]
		if !rec.NeedsResolution() || rec.URL == "" || seen[rec.URL] {
			continue
		}
		seen[rec.URL] = true
		urls = append(urls, rec.URL)
	}
	return urls
}
