package layout

import (
	"math"

	"github.com/matzehuels/impactriver/pkg/errors"
)

// ScaleConstant lifts typical contribution sizes into a visible range before
// the logarithm is taken.
const ScaleConstant = 1e8

// MinThickness is the smallest band thickness. Every contribution stays visible.
const MinThickness = 1

// Scale maps a raw contribution size to a band thickness in user units:
//
//	thickness = max(round(ln(size * 1e8 / maxBucketSize)) * 3, 1)
//
// maxBucketSize is the largest bucket total in the whole dataset. Both
// arguments must be positive and finite; otherwise Scale returns an
// INVALID_INPUT error instead of a NaN or infinite thickness.
func Scale(size, maxBucketSize float64) (int, error) {
	if !positiveFinite(size) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "contribution size must be positive and finite, got %v", size)
	}
	if !positiveFinite(maxBucketSize) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "max_bucket_size must be positive and finite, got %v", maxBucketSize)
	}
	return MustScale(size, maxBucketSize), nil
}

// MustScale is [Scale] without argument checks, for input that has already
// been validated. It panics on non-positive arguments.
func MustScale(size, maxBucketSize float64) int {
	if size <= 0 || maxBucketSize <= 0 {
		panic("layout: MustScale called with non-positive argument")
	}
	t := int(math.Round(math.Log(size*ScaleConstant/maxBucketSize))) * 3
	return max(t, MinThickness)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
