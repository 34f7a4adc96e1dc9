// Package river builds contribution river charts.
//
// A river chart shows one flowing band per author across a sequence of time
// buckets. A band's thickness at a bucket grows with the logarithm of the
// author's contribution in that bucket, and bands are stacked in each
// bucket's contribution order.
//
// # Building
//
// [Build] validates a [dataset.Dataset], assigns colors (see [palette]),
// stacks contributions (see [layout]) and traces each band's outline and
// labels (see [geometry]). The resulting [Chart] is immutable and may be
// shared between goroutines.
//
//	chart, err := river.Build(ds, river.Options{})
//	if err != nil {
//	    return err // INVALID_INPUT, no partial chart
//	}
//	for _, w := range chart.Warnings {
//	    logger.Warn(w)
//	}
//
// An empty dataset is not an error: Build returns an empty chart carrying
// [errors.ErrEmptyDataset] in Chart.Warnings.
//
// # Sessions
//
// A [Session] pairs a chart with a [selection.Controller] and is what gets
// handed to renderers and viewers. Its Select method is the callback wired
// to hover and click events.
//
// Renderers live in the [sink] subpackage.
//
// [dataset.Dataset]: github.com/matzehuels/impactriver/pkg/dataset.Dataset
// [palette]: github.com/matzehuels/impactriver/pkg/render/river/palette
// [layout]: github.com/matzehuels/impactriver/pkg/render/river/layout
// [geometry]: github.com/matzehuels/impactriver/pkg/render/river/geometry
// [selection.Controller]: github.com/matzehuels/impactriver/pkg/render/river/selection.Controller
// [errors.ErrEmptyDataset]: github.com/matzehuels/impactriver/pkg/errors.ErrEmptyDataset
// [sink]: github.com/matzehuels/impactriver/pkg/render/river/sink
package river
