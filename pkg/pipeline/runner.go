package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/impactriver/pkg/cache"
	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/observability"
	"github.com/matzehuels/impactriver/pkg/render/river"
)

// Cache key types reported to observability hooks.
const (
	keyTypeIngest   = "ingest"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete pipeline with caching. When ds is nil the
// dataset is ingested from opts.Repo.
func (r *Runner) Execute(ctx context.Context, ds *dataset.Dataset, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Ingest
	if ds == nil {
		ingestStart := time.Now()
		ingested, info, err := r.IngestWithCacheInfo(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}
		ds = ingested
		result.Stats.IngestTime = time.Since(ingestStart)
		result.Stats.Commits = info.Commits
		result.CacheInfo.IngestHit = info.Hit

		r.Logger.Info("ingested history",
			"repo", opts.Repo,
			"authors", len(ds.Authors),
			"buckets", len(ds.Buckets),
			"cached", info.Hit,
			"duration", result.Stats.IngestTime)
	}
	result.Dataset = ds
	result.Stats.Authors = len(ds.Authors)
	result.Stats.Buckets = len(ds.Buckets)

	hash, err := ds.Hash()
	if err != nil {
		return nil, fmt.Errorf("hash dataset: %w", err)
	}
	result.DatasetHash = hash

	// Stage 2: Build
	layoutStart := time.Now()
	chart, err := r.Build(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Chart = chart
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Bands = len(chart.Bands)
	result.Stats.Labels = chart.LabelCount()
	for _, w := range chart.Warnings {
		r.Logger.Warn("chart warning", "warning", w)
	}

	r.Logger.Info("built chart",
		"bands", len(chart.Bands),
		"labels", result.Stats.Labels,
		"duration", result.Stats.LayoutTime)

	session, err := r.NewSession(ctx, chart, opts.Highlight)
	if err != nil {
		return nil, err
	}
	result.Session = session

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, session, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// NewSession creates a render session for chart and highlights highlight
// when it is not empty.
func (r *Runner) NewSession(ctx context.Context, chart *river.Chart, highlight string) (*river.Session, error) {
	s := river.NewSession(chart)
	observability.Session().OnSessionCreated(ctx, s.ID)
	if highlight == "" {
		return s, nil
	}
	directives, err := s.Select(highlight)
	observability.Session().OnSelect(ctx, s.ID, highlight, len(directives), err)
	if err != nil {
		return nil, fmt.Errorf("highlight: %w", err)
	}
	r.Logger.Debug("highlighted author", "author", highlight, "directives", len(directives))
	return s, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
