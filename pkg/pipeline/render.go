package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/impactriver/pkg/cache"
	"github.com/matzehuels/impactriver/pkg/observability"
	"github.com/matzehuels/impactriver/pkg/render/river"
	"github.com/matzehuels/impactriver/pkg/render/river/sink"
)

// RenderSession generates output artifacts in the requested formats from the
// session's current selection state.
func RenderSession(ctx context.Context, s *river.Session, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(s, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(s, sink.WithJSONSamples())
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, s, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, s, sink.WithPDFSVGOptions(svgOpts...))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.NoLegend {
		svgOpts = append(svgOpts, sink.WithoutLegend())
	}
	if opts.Static {
		svgOpts = append(svgOpts, sink.WithoutScript())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Artifacts are cached by dataset hash, format, highlighted author and
// render options. An empty datasetHash disables caching.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *river.Session, datasetHash string, opts Options) (artifacts map[string][]byte, allCached bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	highlight := ""
	if state := s.State(); state.Set {
		highlight = state.Highlighted
	}

	// Try to get all formats from cache
	artifacts = make(map[string][]byte)
	if datasetHash != "" {
		allCached = true
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format, highlight))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				allCached = false
				break
			}
		}
		if allCached {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered, err := RenderSession(ctx, s, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	if datasetHash != "" {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format, highlight))
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
				r.Logger.Debug("cache write failed", "format", format, "error", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *river.Session, datasetHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, datasetHash, opts)
	return artifacts, err
}
