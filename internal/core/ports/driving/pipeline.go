package driving

import (
	"context"

	"github.com/custodia-labs/placemap/internal/core/domain"
)

// Pipeline turns a location export into a fully populated dataset.
type Pipeline interface {
	// Run reads, extracts, resolves, merges and scores the export.
	// Only an unreadable input or a failed output write returns an error.
	Run(ctx context.Context, req PipelineRequest) (*PipelineResult, error)

	// Inspect reads and extracts the export without touching the browser.
	Inspect(ctx context.Context, inputPath string) (*InspectResult, error)
}

// PipelineRequest configures a single run.
type PipelineRequest struct {
	// InputPath is the location export to read.
	InputPath string

	// OutputPath is where the enriched dataset is written. Empty skips output.
	OutputPath string

	// Metric overrides the configured isolation metric when set.
	Metric domain.IsolationMetric
}

// PipelineResult is the outcome of Run.
type PipelineResult struct {
	// Records holds every input record with its final coordinate,
	// provenance and isolation.
	Records []domain.LocationRecord

	// Resolve summarises the resolution batch.
	Resolve ResolveStats

	// Sources counts records by coordinate provenance.
	Sources map[domain.CoordinateSource]int

	// Metric is the isolation metric that was applied.
	Metric domain.IsolationMetric

	// OutputPath is where the dataset was written, empty if not written.
	OutputPath string
}

// InspectResult reports what a run would need to resolve.
type InspectResult struct {
	// Total is the number of records in the export.
	Total int

	// Sources counts records by extractor provenance.
	Sources map[domain.CoordinateSource]int

	// Cached lists URLs needing resolution that are already cached.
	Cached []string

	// Pending lists URLs a run would send to the browser.
	Pending []string
}
