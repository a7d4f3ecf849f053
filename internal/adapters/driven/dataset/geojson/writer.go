package geojson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.DatasetWriter = (*Writer)(nil)

// Writer writes the enriched dataset.
type Writer struct{}

// NewWriter creates a new writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write replaces the file at path with records as indented GeoJSON.
func (w *Writer) Write(ctx context.Context, path string, records []domain.LocationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(records)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Encode renders records as an indented FeatureCollection.
// Unresolved records are written with a null geometry.
func Encode(records []domain.LocationRecord) ([]byte, error) {
	out := outputCollection{
		Type:     typeFeatureCollection,
		Features: make([]outputFeature, 0, len(records)),
	}

	for _, rec := range records {
		props := make(map[string]any, len(rec.Properties)+2)
		for k, v := range rec.Properties {
			props[k] = v
		}
		if rec.URL != "" {
			props[propURL] = rec.URL
		}
		props[propCoordinateSource] = rec.Source.String()
		if rec.Isolation != nil {
			props[propIsolation] = *rec.Isolation
		} else {
			delete(props, propIsolation)
		}

		f := outputFeature{Type: typeFeature, Properties: props}
		if rec.Coordinate.IsResolved() {
			f.Geometry = &geometry{
				Type:        typePoint,
				Coordinates: []float64{rec.Coordinate.East, rec.Coordinate.North},
			}
		}
		out.Features = append(out.Features, f)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return buf.Bytes(), nil
}
