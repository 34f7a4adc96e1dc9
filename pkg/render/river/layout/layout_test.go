package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/errors"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name    string
		size    float64
		maxSize float64
		want    int
	}{
		{"100 of 1000", 100, 1000, 48},
		{"400 of 1000", 400, 1000, 54},
		{"50 of 1000", 50, 1000, 45},
		{"tiny clamps to one", 1e-9, 1, 1},
		{"ratio one", 1e-8, 1, 1},
		{"whole bucket", 1000, 1000, 54},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scale(tt.size, tt.maxSize)
			if err != nil {
				t.Fatalf("Scale() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Scale(%v, %v) = %d, want %d", tt.size, tt.maxSize, got, tt.want)
			}
		})
	}
}

func TestScaleInvalid(t *testing.T) {
	tests := []struct {
		name          string
		size, maxSize float64
	}{
		{"zero size", 0, 1000},
		{"negative size", -1, 1000},
		{"zero max", 10, 0},
		{"negative max", 10, -3},
		{"nan size", math.NaN(), 1000},
		{"infinite max", 10, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scale(tt.size, tt.maxSize)
			if !errors.IsInvalidInput(err) {
				t.Fatalf("Scale() error = %v, want INVALID_INPUT", err)
			}
			if got != 0 {
				t.Errorf("Scale() = %d on error, want 0", got)
			}
		})
	}
}

func TestScaleMonotonic(t *testing.T) {
	const maxSize = 5000
	prev := 0
	for size := 0.5; size <= 2*maxSize; size *= 1.3 {
		got := MustScale(size, maxSize)
		if got < MinThickness {
			t.Fatalf("MustScale(%v) = %d, below minimum", size, got)
		}
		if got < prev {
			t.Fatalf("MustScale(%v) = %d, decreased from %d", size, got, prev)
		}
		prev = got
	}
}

func TestMustScalePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustScale(0, 1) did not panic")
		}
	}()
	MustScale(0, 1)
}

func twoAuthorBuckets() []dataset.Bucket {
	return []dataset.Bucket{
		{Date: 0, Contributions: []dataset.Contribution{{AuthorID: "a", Size: 100}, {AuthorID: "b", Size: 50}}},
		{Date: 86400, Contributions: []dataset.Contribution{{AuthorID: "a", Size: 400}, {AuthorID: "b", Size: 50}}},
	}
}

func TestComputeScenario(t *testing.T) {
	res, err := Compute(twoAuthorBuckets(), 1000)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	wantA := []BandSample{
		{BucketIndex: 0, X: 0, FrontY: 0, BackY: 48, Size: 100},
		{BucketIndex: 1, X: 100, FrontY: 0, BackY: 54, Size: 400},
	}
	wantB := []BandSample{
		{BucketIndex: 0, X: 0, FrontY: 50, BackY: 95, Size: 50},
		{BucketIndex: 1, X: 100, FrontY: 56, BackY: 101, Size: 50},
	}
	assertSamples(t, "a", res.Samples["a"], wantA)
	assertSamples(t, "b", res.Samples["b"], wantB)

	if len(res.Order) != 2 || res.Order[0] != "a" || res.Order[1] != "b" {
		t.Errorf("Order = %v, want [a b]", res.Order)
	}

	if len(res.DateLabels) != 2 {
		t.Fatalf("DateLabels = %d, want 2", len(res.DateLabels))
	}
	if dl := res.DateLabels[0]; dl.X != 25 || dl.Y != 107 || dl.Date != 0 {
		t.Errorf("DateLabels[0] = %+v, want X=25 Y=107", dl)
	}
	if dl := res.DateLabels[1]; dl.X != 125 || dl.Y != 113 || dl.Date != 86400 {
		t.Errorf("DateLabels[1] = %+v, want X=125 Y=113", dl)
	}
	if res.Height != 103 {
		t.Errorf("Height = %v, want 103", res.Height)
	}
}

func assertSamples(t *testing.T, id string, got, want []BandSample) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("samples[%s] len = %d, want %d", id, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("samples[%s][%d] = %+v, want %+v", id, i, got[i], want[i])
		}
	}
}

func TestComputeStackingInvariants(t *testing.T) {
	buckets := []dataset.Bucket{
		{Date: 1, Contributions: []dataset.Contribution{{AuthorID: "x", Size: 3}, {AuthorID: "y", Size: 900}, {AuthorID: "z", Size: 1}}},
		{Date: 2, Contributions: []dataset.Contribution{{AuthorID: "z", Size: 70}}},
		{Date: 3, Contributions: []dataset.Contribution{{AuthorID: "y", Size: 12}, {AuthorID: "x", Size: 5000}}},
	}
	res, err := Compute(buckets, 5012)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	perBucket := make(map[int][]BandSample)
	for id, samples := range res.Samples {
		for k, s := range samples {
			if s.FrontY >= s.BackY {
				t.Errorf("%s[%d]: FrontY %v >= BackY %v", id, k, s.FrontY, s.BackY)
			}
			if k > 0 && s.BucketIndex <= samples[k-1].BucketIndex {
				t.Errorf("%s[%d]: bucket index not increasing", id, k)
			}
			perBucket[s.BucketIndex] = append(perBucket[s.BucketIndex], s)
		}
	}

	for i, b := range buckets {
		// Reorder this bucket's samples by stacking order.
		var stacked []BandSample
		for _, c := range b.Contributions {
			for _, s := range res.Samples[c.AuthorID] {
				if s.BucketIndex == i {
					stacked = append(stacked, s)
				}
			}
		}
		if len(stacked) != len(perBucket[i]) {
			t.Fatalf("bucket %d: %d stacked samples, %d total", i, len(stacked), len(perBucket[i]))
		}
		if stacked[0].FrontY != 0 {
			t.Errorf("bucket %d: first FrontY = %v, want 0", i, stacked[0].FrontY)
		}
		for k := 1; k < len(stacked); k++ {
			if stacked[k-1].BackY+BandGap != stacked[k].FrontY {
				t.Errorf("bucket %d: BackY[%d]+2 = %v, FrontY[%d] = %v",
					i, k-1, stacked[k-1].BackY+BandGap, k, stacked[k].FrontY)
			}
		}
		last := stacked[len(stacked)-1]
		if want := last.BackY + BandGap + DateLabelOffsetY; res.DateLabels[i].Y != want {
			t.Errorf("bucket %d: date label Y = %v, want %v", i, res.DateLabels[i].Y, want)
		}
	}
}

func TestComputeGap(t *testing.T) {
	buckets := []dataset.Bucket{
		{Date: 1, Contributions: []dataset.Contribution{{AuthorID: "a", Size: 10}}},
		{Date: 2, Contributions: []dataset.Contribution{{AuthorID: "b", Size: 10}}},
		{Date: 3, Contributions: []dataset.Contribution{{AuthorID: "a", Size: 10}}},
	}
	res, err := Compute(buckets, 10)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	a := res.Samples["a"]
	if len(a) != 2 || a[0].BucketIndex != 0 || a[1].BucketIndex != 2 {
		t.Errorf("samples[a] = %+v, want buckets 0 and 2 only", a)
	}
}

func TestComputeInvalid(t *testing.T) {
	buckets := twoAuthorBuckets()
	buckets[1].Contributions[1].Size = 0

	res, err := Compute(buckets, 1000)
	if !errors.IsInvalidInput(err) {
		t.Fatalf("Compute() error = %v, want INVALID_INPUT", err)
	}
	if len(res.Samples) != 0 || len(res.DateLabels) != 0 {
		t.Errorf("Compute() returned partial result %+v", res)
	}
}

func TestComputeEmpty(t *testing.T) {
	res, err := Compute(nil, 0)
	if err != nil {
		t.Fatalf("Compute(nil) error: %v", err)
	}
	if len(res.Samples) != 0 || len(res.DateLabels) != 0 || res.Height != 0 {
		t.Errorf("Compute(nil) = %+v, want empty", res)
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0},
		{1, 50},
		{3, 250},
	}
	for _, tt := range tests {
		if got := Width(tt.n); got != tt.want {
			t.Errorf("Width(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
