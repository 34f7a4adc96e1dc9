package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/matzehuels/impactriver/pkg/cache"
	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/ingest"
	"github.com/matzehuels/impactriver/pkg/observability"
)

// IngestInfo describes how a dataset was obtained.
type IngestInfo struct {
	Hit     bool   // served from cache
	Head    string // repository HEAD the dataset reflects
	Commits int    // commits parsed; zero on a cache hit
}

// IngestWithCacheInfo collects the dataset for opts.Repo, reusing a cached
// dataset for the same HEAD and ingest options unless opts.Refresh is set.
func (r *Runner) IngestWithCacheInfo(ctx context.Context, opts Options) (ds *dataset.Dataset, info IngestInfo, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForIngest(); err != nil {
		return nil, info, err
	}

	repo, err := filepath.Abs(opts.Repo)
	if err != nil {
		return nil, info, fmt.Errorf("resolve repository path: %w", err)
	}

	start := time.Now()
	observability.Pipeline().OnIngestStart(ctx, repo)
	defer func() {
		buckets := 0
		if ds != nil {
			buckets = len(ds.Buckets)
		}
		observability.Pipeline().OnIngestComplete(ctx, repo, info.Commits, buckets, time.Since(start), err)
	}()

	var aliases ingest.Aliases
	if opts.AliasFile != "" {
		if aliases, err = ingest.LoadAliases(opts.AliasFile); err != nil {
			return nil, info, err
		}
	}

	head, err := opts.GitClient.Head(ctx, repo)
	if err != nil {
		return nil, info, err
	}
	info.Head = head
	cacheKey := r.Keyer.IngestKey(repo, head, opts.IngestKeyOpts(aliases))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := dataset.ReadJSON(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeIngest)
				info.Hit = true
				return cached, info, nil
			}
			// If deserialization fails, fall through to re-ingest
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeIngest)
	}

	ds, commits, err := ingest.Collect(ctx, opts.GitClient, repo, ingest.Options{
		BucketSize: opts.BucketSize(),
		MaxBuckets: opts.MaxBuckets,
		Aliases:    aliases,
	})
	if err != nil {
		return nil, info, err
	}
	info.Commits = len(commits)
	opts.Logger.Debug("parsed git log", "repo", repo, "head", head, "commits", len(commits))

	if data, err := ds.Marshal(); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLIngest); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeIngest, len(data))
		} else {
			r.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
		}
	}
	return ds, info, nil
}

// Ingest is a convenience wrapper that calls IngestWithCacheInfo and discards the cache hit info.
func (r *Runner) Ingest(ctx context.Context, opts Options) (*dataset.Dataset, error) {
	ds, _, err := r.IngestWithCacheInfo(ctx, opts)
	return ds, err
}
