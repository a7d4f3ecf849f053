package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
	"github.com/custodia-labs/placemap/internal/core/ports/driving"
	"github.com/custodia-labs/placemap/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.Pipeline = (*PipelineService)(nil)

// PipelineService runs extract, resolve, merge and isolation over an export.
type PipelineService struct {
	reader     driven.DatasetReader
	writer     driven.DatasetWriter
	resolver   driving.CoordinateResolver
	cacheStore driven.CacheStore
	extractor  *Extractor
	metric     domain.IsolationMetric
}

// NewPipelineService creates a pipeline.
// The writer is optional - if nil, requests with an output path fail.
// The cacheStore is only read by Inspect.
func NewPipelineService(
	reader driven.DatasetReader,
	writer driven.DatasetWriter,
	resolver driving.CoordinateResolver,
	cacheStore driven.CacheStore,
	metric domain.IsolationMetric,
) *PipelineService {
	if metric == "" {
		metric = domain.IsolationPlanar
	}
	return &PipelineService{
		reader:     reader,
		writer:     writer,
		resolver:   resolver,
		cacheStore: cacheStore,
		extractor:  NewExtractor(),
		metric:     metric,
	}
}

// Run processes the export named in req.
func (p *PipelineService) Run(ctx context.Context, req driving.PipelineRequest) (*driving.PipelineResult, error) {
	metric := req.Metric
	if metric == "" {
		metric = p.metric
	}
	if _, err := DistanceFor(metric); err != nil {
		return nil, err
	}
	if req.OutputPath != "" && p.writer == nil {
		return nil, fmt.Errorf("write dataset: no dataset writer configured")
	}

	logger.Section("Extract")
	records, err := p.read(ctx, req.InputPath)
	if err != nil {
		return nil, err
	}

	pending := PendingURLs(records)
	logger.Debug("%d records, %d distinct URLs need resolution", len(records), len(pending))

	result := &driving.PipelineResult{Metric: metric}

	cache := domain.NewCoordinateCache()
	if len(pending) > 0 {
		cache, result.Resolve = p.resolver.ResolveAll(ctx, pending)
	}

	logger.Section("Merge")
	filled := Merge(records, cache, result.Resolve.Fetched())
	logger.Debug("merged %d coordinates", filled)

	logger.Section("Isolation")
	if err := ComputeIsolation(records, metric); err != nil {
		return nil, err
	}

	result.Records = records
	result.Sources = CountSources(records)

	if req.OutputPath != "" {
		if err := p.writer.Write(ctx, req.OutputPath, records); err != nil {
			return result, fmt.Errorf("write dataset: %w", err)
		}
		result.OutputPath = req.OutputPath
		logger.Info("Wrote %d records to %s", len(records), req.OutputPath)
	}

	return result, nil
}

// Inspect reports what Run would resolve, without a browser.
func (p *PipelineService) Inspect(ctx context.Context, inputPath string) (*driving.InspectResult, error) {
	records, err := p.read(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	result := &driving.InspectResult{
		Total:   len(records),
		Sources: CountSources(records),
	}

	pending := PendingURLs(records)
	if len(pending) == 0 {
		return result, nil
	}

	cache := domain.NewCoordinateCache()
	if p.cacheStore != nil {
		loaded, err := p.cacheStore.Load(ctx)
		if err != nil {
			logger.Warn("load cache: %v", err)
		} else if loaded != nil {
			cache = loaded
		}
	}

	for _, url := range pending {
		if cache.Has(url) {
			result.Cached = append(result.Cached, url)
		} else {
			result.Pending = append(result.Pending, url)
		}
	}
	return result, nil
}

// read loads the export and runs the extractor over it.
func (p *PipelineService) read(ctx context.Context, path string) ([]domain.LocationRecord, error) {
	records, err := p.reader.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	p.extractor.Apply(records)
	return records, nil
}
