package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/render/river"
)

// sampleDataset has three authors; carol is in the legend without a band.
func sampleDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Authors: []dataset.Author{
			{ID: "0", Name: "Alice", Message: "3 commits, 120 additions, 30 deletions, 4 files"},
			{ID: "1", Name: "bob"},
			{ID: "2", Name: "Carol"},
		},
		Buckets: []dataset.Bucket{
			{Date: 1700000000, Contributions: []dataset.Contribution{{AuthorID: "0", Size: 100}, {AuthorID: "1", Size: 20}}},
			{Date: 1700604800, Contributions: []dataset.Contribution{{AuthorID: "0", Size: 50}}},
		},
		MaxBucketSize: 120,
	}
}

func writeDataset(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := dataset.Export(sampleDataset(), path); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	return path
}

func sampleSession(t *testing.T) *river.Session {
	t.Helper()
	chart, err := river.Build(sampleDataset(), river.Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return river.NewSession(chart)
}

// isolate keeps config discovery and the cache away from the developer's
// home directory.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
}
