// Package dataset defines the aggregated contribution data consumed by the
// river chart, along with its validation and file formats.
//
// # Shape
//
// A [Dataset] is one fully aggregated chart input:
//
//	{
//	  "authors": [{"author_id": "a", "name": "Alice"}],
//	  "buckets": [
//	    {"date": 1700000000, "contributions": [{"author_id": "a", "size": 100}]}
//	  ],
//	  "max_bucket_size": 1000
//	}
//
// Author order is the color-assignment and legend order. Bucket order is
// chronological. Contribution order within a bucket is the stacking order,
// top to bottom.
//
// # Validation
//
// [Dataset.Validate] checks the whole structure once at the boundary and
// reports every problem as an INVALID_INPUT error from
// [github.com/matzehuels/impactriver/pkg/errors]. Nothing downstream
// re-checks the data.
package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Author is one contributor listed in the legend.
type Author struct {
	ID      string `json:"author_id" toml:"author_id" validate:"authorid"`
	Name    string `json:"name" toml:"name"`
	Message string `json:"message,omitempty" toml:"message,omitempty"`
}

// Contribution is one author's aggregated size within a bucket.
type Contribution struct {
	AuthorID string  `json:"author_id" toml:"author_id" validate:"authorid"`
	Size     float64 `json:"size" toml:"size" validate:"gt=0"`
}

// Bucket is one time slot. Date is the bucket start in unix seconds.
type Bucket struct {
	Date          int64          `json:"date" toml:"date"`
	Contributions []Contribution `json:"contributions" toml:"contributions" validate:"dive"`
}

// Size returns the sum of all contribution sizes in the bucket.
func (b Bucket) Size() float64 {
	var total float64
	for _, c := range b.Contributions {
		total += c.Size
	}
	return total
}

// Dataset is the full chart input.
type Dataset struct {
	Authors       []Author `json:"authors" toml:"authors" validate:"dive"`
	Buckets       []Bucket `json:"buckets" toml:"buckets" validate:"dive"`
	MaxBucketSize float64  `json:"max_bucket_size" toml:"max_bucket_size" validate:"gt=0"`
}

// IsEmpty reports whether the dataset has no buckets or no authors.
// An empty dataset renders as an empty chart.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.Buckets) == 0 || len(d.Authors) == 0
}

// ComputeMaxBucketSize returns the largest bucket total in the dataset.
func (d *Dataset) ComputeMaxBucketSize() float64 {
	var maxSize float64
	for _, b := range d.Buckets {
		maxSize = max(maxSize, b.Size())
	}
	return maxSize
}

// Author returns the author with the given id.
func (d *Dataset) Author(id string) (Author, bool) {
	for _, a := range d.Authors {
		if a.ID == id {
			return a, true
		}
	}
	return Author{}, false
}

// ContributionCount returns the total number of contributions across buckets.
func (d *Dataset) ContributionCount() int {
	n := 0
	for _, b := range d.Buckets {
		n += len(b.Contributions)
	}
	return n
}

// Marshal encodes the dataset as compact JSON. The encoding is stable for a
// given dataset and is used to derive cache keys.
func (d *Dataset) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// Hash returns the SHA-256 hex digest of the dataset's JSON encoding.
func (d *Dataset) Hash() (string, error) {
	data, err := d.Marshal()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
