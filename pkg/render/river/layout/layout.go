// Package layout stacks contributions into per-author band samples.
//
// Buckets are processed in index order. Bucket i sits at x = i*100. Inside a
// bucket, contributions are stacked top to bottom in their stored order, each
// taking [Scale] units of height followed by a fixed gap of [BandGap] units.
// One [BandSample] is produced per contribution, so an author missing from a
// bucket has no sample there and its band shows a gap.
//
// After each bucket a [DateLabel] is anchored below the final height of that
// bucket, including the trailing gap.
package layout

import (
	"fmt"

	"github.com/matzehuels/impactriver/pkg/dataset"
)

// Layout constants in user units.
const (
	BucketWidth      = 100 // horizontal distance between buckets
	BandGap          = 2   // vertical gap after every contribution
	DateLabelOffsetX = 25
	DateLabelOffsetY = 10
)

// BandSample is one author's vertical slab within one bucket.
// FrontY < BackY always holds.
type BandSample struct {
	BucketIndex int
	X           float64
	FrontY      float64
	BackY       float64
	Size        float64
}

// Thickness returns the vertical extent of the sample.
func (s BandSample) Thickness() float64 { return s.BackY - s.FrontY }

// DateLabel anchors a bucket's date below its stack.
type DateLabel struct {
	BucketIndex int
	X, Y        float64
	Date        int64
}

// Result is the output of [Compute].
type Result struct {
	// Samples holds each author's samples in ascending bucket order.
	Samples map[string][]BandSample
	// Order lists author ids by first appearance in the buckets.
	Order []string
	// DateLabels has one entry per bucket, in bucket order.
	DateLabels []DateLabel
	// Height is the tallest stack including its trailing gap.
	Height float64
}

// Compute lays out all buckets in one forward pass.
//
// maxBucketSize is the global normalization constant passed to [Scale].
// If any contribution cannot be scaled, Compute returns the error and an
// empty Result; no partial layout escapes.
func Compute(buckets []dataset.Bucket, maxBucketSize float64) (Result, error) {
	res := Result{
		Samples:    make(map[string][]BandSample),
		DateLabels: make([]DateLabel, 0, len(buckets)),
	}

	for i, b := range buckets {
		x := float64(i * BucketWidth)
		height := 0.0
		for _, c := range b.Contributions {
			thickness, err := Scale(c.Size, maxBucketSize)
			if err != nil {
				return Result{}, fmt.Errorf("bucket %d, author %q: %w", i, c.AuthorID, err)
			}
			if _, seen := res.Samples[c.AuthorID]; !seen {
				res.Order = append(res.Order, c.AuthorID)
			}
			front := height
			height += float64(thickness)
			res.Samples[c.AuthorID] = append(res.Samples[c.AuthorID], BandSample{
				BucketIndex: i,
				X:           x,
				FrontY:      front,
				BackY:       height,
				Size:        c.Size,
			})
			height += BandGap
		}
		res.DateLabels = append(res.DateLabels, DateLabel{
			BucketIndex: i,
			X:           x + DateLabelOffsetX,
			Y:           height + DateLabelOffsetY,
			Date:        b.Date,
		})
		res.Height = max(res.Height, height)
	}
	return res, nil
}

// Width returns the horizontal extent covered by n buckets, including the
// flat segment drawn after the last one.
func Width(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64((n-1)*BucketWidth + BucketWidth/2)
}
