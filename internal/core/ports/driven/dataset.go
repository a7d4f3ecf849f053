package driven

import (
	"context"

	"github.com/custodia-labs/placemap/internal/core/domain"
)

// DatasetReader reads location records from an export file.
type DatasetReader interface {
	// Read parses the export at path. Records keep the export's order.
	Read(ctx context.Context, path string) ([]domain.LocationRecord, error)
}

// DatasetWriter writes the enriched dataset consumed by the renderer.
type DatasetWriter interface {
	// Write replaces the file at path with records.
	Write(ctx context.Context, path string, records []domain.LocationRecord) error
}
