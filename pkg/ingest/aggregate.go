package ingest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/errors"
)

// DefaultBucketSize groups commits by week.
const DefaultBucketSize = 7 * 24 * time.Hour

// Options controls how commits are grouped into buckets.
type Options struct {
	// BucketSize is the width of one time bucket. Zero means DefaultBucketSize.
	BucketSize time.Duration
	// MaxBuckets keeps only the most recent buckets. Zero keeps all.
	MaxBuckets int
	// Aliases merges author identities before ids are assigned.
	Aliases Aliases
}

type authorTotals struct {
	id         string
	name       string
	commits    int
	insertions int
	deletions  int
	files      int
}

func (a *authorTotals) message() string {
	return fmt.Sprintf("%d commits, %d additions, %d deletions, %d files",
		a.commits, a.insertions, a.deletions, a.files)
}

type bucketEntry struct {
	date     int64
	authorID string
	size     int
}

// Aggregate turns commits into a contribution dataset.
//
// Authors get ids "0", "1", ... in order of their first commit. Commits are
// grouped by date / BucketSize and the bucket is dated by its earliest
// commit. Within a bucket each author's sizes are summed and contributions
// are ordered largest first, ties broken by descending author id. Zero-size
// contributions are dropped, and so are buckets left without any; a window
// of zero-size commits yields a dataset with no buckets. Only authors with commits inside the window are
// listed, sorted by name case-insensitively.
func Aggregate(commits []Commit, opts Options) (*dataset.Dataset, error) {
	size := opts.BucketSize
	if size == 0 {
		size = DefaultBucketSize
	}
	if size < time.Second {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bucket size must be at least one second, got %s", size)
	}
	if opts.MaxBuckets < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "max buckets must not be negative, got %d", opts.MaxBuckets)
	}
	width := int64(size / time.Second)

	sorted := make([]Commit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Author < sorted[j].Author
	})

	oldest := int64(0)
	limited := len(sorted) > 0 && opts.MaxBuckets > 0
	if limited {
		latest := sorted[len(sorted)-1].Date / width
		oldest = (latest - int64(opts.MaxBuckets) + 1) * width
	}

	ids := make(map[string]*authorTotals)
	var order []*authorTotals
	buckets := make(map[int64][]bucketEntry)

	for _, c := range sorted {
		name := opts.Aliases.Resolve(c.Author, c.Email)
		a, ok := ids[name]
		if !ok {
			a = &authorTotals{id: strconv.Itoa(len(order)), name: name}
			ids[name] = a
			order = append(order, a)
		}
		if limited && c.Date < oldest {
			continue
		}
		a.commits++
		a.insertions += c.Insertions
		a.deletions += c.Deletions
		a.files += c.Files

		bucketID := c.Date / width
		buckets[bucketID] = append(buckets[bucketID], bucketEntry{date: c.Date, authorID: a.id, size: c.Size()})
	}

	bucketIDs := make([]int64, 0, len(buckets))
	for id := range buckets {
		bucketIDs = append(bucketIDs, id)
	}
	sort.Slice(bucketIDs, func(i, j int) bool { return bucketIDs[i] < bucketIDs[j] })

	d := &dataset.Dataset{}
	for _, id := range bucketIDs {
		b := buildBucket(buckets[id])
		if len(b.Contributions) == 0 {
			continue
		}
		d.MaxBucketSize = max(d.MaxBucketSize, b.Size())
		d.Buckets = append(d.Buckets, b)
	}

	authors := make([]*authorTotals, 0, len(order))
	for _, a := range order {
		if a.commits > 0 {
			authors = append(authors, a)
		}
	}
	sort.SliceStable(authors, func(i, j int) bool {
		return strings.ToLower(authors[i].name) < strings.ToLower(authors[j].name)
	})
	for _, a := range authors {
		d.Authors = append(d.Authors, dataset.Author{ID: a.id, Name: a.name, Message: a.message()})
	}
	return d, nil
}

func buildBucket(entries []bucketEntry) dataset.Bucket {
	date := entries[0].date
	totals := make(map[string]int)
	var ids []string
	for _, e := range entries {
		date = min(date, e.date)
		if _, ok := totals[e.authorID]; !ok {
			ids = append(ids, e.authorID)
		}
		totals[e.authorID] += e.size
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := totals[ids[i]], totals[ids[j]]
		if si != sj {
			return si > sj
		}
		return ids[i] > ids[j]
	})

	b := dataset.Bucket{Date: date}
	for _, id := range ids {
		if totals[id] == 0 {
			continue
		}
		b.Contributions = append(b.Contributions, dataset.Contribution{AuthorID: id, Size: float64(totals[id])})
	}
	return b
}
