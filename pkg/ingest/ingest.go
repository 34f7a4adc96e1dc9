// Package ingest builds contribution datasets from git history.
//
// [Collect] reads the full log of a repository through a [GitClient], parses
// it with [ParseLog] and groups the commits into time buckets with
// [Aggregate]. Contribution size is lines added plus lines removed.
//
//	ds, err := ingest.Collect(ctx, ingest.NewLocalGitClient(), "/path/to/repo", ingest.Options{
//	    BucketSize: 7 * 24 * time.Hour,
//	    MaxBuckets: 52,
//	})
package ingest

import (
	"context"
	"fmt"

	"github.com/matzehuels/impactriver/pkg/dataset"
)

// Collect reads the history of repo and aggregates it into a dataset.
func Collect(ctx context.Context, client GitClient, repo string, opts Options) (*dataset.Dataset, []Commit, error) {
	out, err := client.Log(ctx, repo)
	if err != nil {
		return nil, nil, fmt.Errorf("read git log: %w", err)
	}
	commits, err := ParseLog(out)
	if err != nil {
		return nil, nil, err
	}
	d, err := Aggregate(commits, opts)
	if err != nil {
		return nil, nil, err
	}
	return d, commits, nil
}
