// Package pipeline provides the ingest → build → render pipeline for
// contribution river charts.
//
// The CLI commands and the viewer server share this package so that
// defaults, caching and instrumentation behave the same at every entry
// point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Ingest: Read git history and aggregate it into a [dataset.Dataset]
//  2. Build: Lay out bands, curves, labels and colors into a [river.Chart]
//  3. Render: Write the chart of a [river.Session] as SVG, JSON, PNG or PDF
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, nil, pipeline.Options{
//	    Repo:    "/path/to/repo",
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	ds, err := runner.Ingest(ctx, opts)
//	chart, err := runner.Build(ctx, ds, opts)
//	session, err := runner.NewSession(ctx, chart, opts.Highlight)
//	hash, err := ds.Hash()
//	artifacts, err := runner.Render(ctx, session, hash, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/impactriver/pkg/cache"
	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/errors"
	"github.com/matzehuels/impactriver/pkg/ingest"
	"github.com/matzehuels/impactriver/pkg/render/river"
	"github.com/matzehuels/impactriver/pkg/render/river/geometry"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultBucketDays is the bucket width in days.
	DefaultBucketDays = 7

	// DefaultScale is the PNG raster scale.
	DefaultScale = 2.0

	// DefaultLabelAnchor places each label between its sample's own edges.
	DefaultLabelAnchor = "sample"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = FormatSVG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the chart pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Ingest options
	Repo       string `json:"repo,omitempty"`
	BucketDays int    `json:"bucket_days,omitempty"`
	MaxBuckets int    `json:"max_buckets,omitempty"`
	AliasFile  string `json:"alias_file,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`

	// Build options
	LabelAnchor string `json:"label_anchor,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Highlight string   `json:"highlight,omitempty"`
	Title     string   `json:"title,omitempty"`
	NoLegend  bool     `json:"no_legend,omitempty"`
	Static    bool     `json:"static,omitempty"` // omit the embedded script
	Scale     float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger    *log.Logger      `json:"-"`
	GitClient ingest.GitClient `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the ingested or supplied dataset.
	Dataset *dataset.Dataset

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// Chart is the built chart.
	Chart *river.Chart

	// Session holds the selection state the artifacts were rendered with.
	Session *river.Session

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Commits    int
	Authors    int
	Buckets    int
	Bands      int
	Labels     int
	IngestTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	IngestHit bool // Whether the dataset came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLabelAnchor checks that a label anchor name is valid.
func ValidateLabelAnchor(anchor string) error {
	if _, ok := geometry.ParseLabelAnchor(anchor); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid label anchor: %q (must be one of: sample, final)", anchor)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetIngestDefaults()
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetIngestDefaults sets default values for ingestion.
func (o *Options) SetIngestDefaults() {
	if o.BucketDays == 0 {
		o.BucketDays = DefaultBucketDays
	}
	if o.GitClient == nil {
		o.GitClient = ingest.NewLocalGitClient()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForIngest checks required fields for ingestion.
func (o *Options) ValidateForIngest() error {
	o.SetIngestDefaults()
	if o.Repo == "" {
		return errors.New(errors.ErrCodeInvalidInput, "repository path is required")
	}
	if o.BucketDays < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "bucket_days must be positive, got %d", o.BucketDays)
	}
	if o.MaxBuckets < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_buckets must not be negative, got %d", o.MaxBuckets)
	}
	return nil
}

// ValidateForBuild validates and sets defaults for chart construction.
func (o *Options) ValidateForBuild() error {
	if o.LabelAnchor == "" {
		o.LabelAnchor = DefaultLabelAnchor
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateLabelAnchor(o.LabelAnchor)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// BucketSize returns the bucket width as a duration.
func (o *Options) BucketSize() time.Duration {
	days := o.BucketDays
	if days == 0 {
		days = DefaultBucketDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// ChartOptions returns the chart construction options.
func (o *Options) ChartOptions() river.Options {
	anchor, _ := geometry.ParseLabelAnchor(o.LabelAnchor)
	return river.Options{LabelAnchor: anchor}
}

// IngestKeyOpts returns cache key options for ingestion.
func (o *Options) IngestKeyOpts(aliases ingest.Aliases) cache.IngestKeyOpts {
	return cache.IngestKeyOpts{
		BucketDays: o.BucketDays,
		MaxBuckets: o.MaxBuckets,
		AliasHash:  aliases.Hash(),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// highlight is the session's highlighted author at render time.
func (o *Options) ArtifactKeyOpts(format, highlight string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:      format,
		Highlight:   highlight,
		LabelAnchor: o.LabelAnchor,
		NoLegend:    o.NoLegend,
		Title:       o.Title,
		Static:      o.Static,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
