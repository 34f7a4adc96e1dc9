package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/errors"
	"github.com/matzehuels/impactriver/pkg/observability"
	"github.com/matzehuels/impactriver/pkg/render/river"
)

// Build validates ds and lays it out as a river chart. An empty dataset
// yields an empty chart carrying errors.ErrEmptyDataset as a warning.
func (r *Runner) Build(ctx context.Context, ds *dataset.Dataset, opts Options) (chart *river.Chart, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dataset is required")
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(ds.Authors), len(ds.Buckets))
	defer func() {
		bands := 0
		if chart != nil {
			bands = len(chart.Bands)
		}
		observability.Pipeline().OnLayoutComplete(ctx, bands, time.Since(start), err)
	}()

	return river.Build(ds, opts.ChartOptions())
}
