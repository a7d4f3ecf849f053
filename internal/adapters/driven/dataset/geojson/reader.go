package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
	"github.com/custodia-labs/placemap/internal/logger"
)

// Ensure Reader implements the interface.
var _ driven.DatasetReader = (*Reader)(nil)

// Reader parses Saved Places exports.
type Reader struct{}

// NewReader creates a new reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read parses the export at path.
func (r *Reader) Read(ctx context.Context, path string) ([]domain.LocationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes a Saved Places export.
func Parse(data []byte) ([]domain.LocationRecord, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: decode geojson: %w", domain.ErrInvalidInput, err)
	}
	if fc.Type != typeFeatureCollection {
		return nil, fmt.Errorf("%w: expected %s, got %q", domain.ErrInvalidInput, typeFeatureCollection, fc.Type)
	}

	records := make([]domain.LocationRecord, 0, len(fc.Features))
	for i, f := range fc.Features {
		rec := toRecord(f)
		if rec.URL == "" {
			logger.Debug("feature %d has no %s", i, propURL)
		}
		records = append(records, rec)
	}
	return records, nil
}

func toRecord(f feature) domain.LocationRecord {
	props := f.Properties
	if props == nil {
		props = make(map[string]any)
	}

	rec := domain.LocationRecord{
		URL:        stringProp(props, propURL),
		Date:       stringProp(props, propDate),
		Direct:     pointCoordinates(f.Geometry),
		Properties: props,
		Coordinate: domain.Unresolved,
		Source:     domain.SourceUnresolved,
	}

	if loc, ok := props[propLocation].(map[string]any); ok {
		rec.Name = stringProp(loc, "name")
		rec.Address = stringProp(loc, "address")
		rec.CountryCode = stringProp(loc, "country_code")
	}
	return rec
}

// pointCoordinates returns the raw coordinate pair, or nil when the geometry
// is missing or not a numeric array.
func pointCoordinates(raw json.RawMessage) []float64 {
	if len(raw) == 0 {
		return nil
	}
	var g geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil
	}
	return g.Coordinates
}

func stringProp(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
