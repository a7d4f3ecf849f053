package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/placemap/internal/core/domain"
)

func TestMerge(t *testing.T) {
	paris := domain.NewCoordinate(2.3522, 48.8566)
	london := domain.NewCoordinate(-0.1278, 51.5074)
	direct := domain.NewCoordinate(-3, 40)

	records := []domain.LocationRecord{
		{URL: urlParis},
		{URL: urlLondon},
		{URL: urlNowhere},
		{URL: "https://maps.google.com/?cid=9", Coordinate: direct, Source: domain.SourceDirect},
		{URL: ""},
		{URL: urlParis},
	}

	cache := domain.NewCoordinateCache()
	cache.Add(urlParis, paris)
	cache.Add(urlLondon, london)
	// Direct coordinates are never overwritten by the cache
	cache.Add("https://maps.google.com/?cid=9", paris)

	filled := Merge(records, cache, map[string]bool{urlLondon: true})

	assert.Equal(t, 3, filled)
	assert.Equal(t, paris, records[0].Coordinate)
	assert.Equal(t, domain.SourceCache, records[0].Source)
	assert.Equal(t, london, records[1].Coordinate)
	assert.Equal(t, domain.SourceResolved, records[1].Source)
	assert.Equal(t, domain.Unresolved, records[2].Coordinate)
	assert.Equal(t, domain.SourceUnresolved, records[2].Source)
	assert.Equal(t, direct, records[3].Coordinate)
	assert.Equal(t, domain.SourceDirect, records[3].Source)
	assert.Equal(t, domain.SourceUnresolved, records[4].Source)
	assert.Equal(t, paris, records[5].Coordinate)
}

func TestMerge_IgnoresInvalidCacheEntries(t *testing.T) {
	cache := domain.CoordinateCache{urlParis: domain.NewCoordinate(500, 500)}
	records := []domain.LocationRecord{{URL: urlParis}}

	assert.Equal(t, 0, Merge(records, cache, nil))
	assert.Equal(t, domain.SourceUnresolved, records[0].Source)
}

func TestCountSources(t *testing.T) {
	records := []domain.LocationRecord{
		{Source: domain.SourceURL},
		{Source: domain.SourceURL},
		{Source: domain.SourceCache},
		{Source: domain.SourceUnresolved},
	}

	counts := CountSources(records)

	assert.Equal(t, 2, counts[domain.SourceURL])
	assert.Equal(t, 1, counts[domain.SourceCache])
	assert.Equal(t, 1, counts[domain.SourceUnresolved])
	assert.Equal(t, 0, counts[domain.SourceResolved])
}
