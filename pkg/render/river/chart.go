package river

import (
	"fmt"

	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/errors"
	"github.com/matzehuels/impactriver/pkg/render/river/geometry"
	"github.com/matzehuels/impactriver/pkg/render/river/layout"
	"github.com/matzehuels/impactriver/pkg/render/river/palette"
)

// Approximate text extents used when sizing the canvas. Text is centered on
// its anchor.
const (
	textHalfWidth  = 25
	textHalfHeight = 5
)

// Options controls chart construction.
type Options struct {
	LabelAnchor geometry.LabelAnchor
}

// Author is a legend entry.
type Author struct {
	ID      string
	Name    string
	Message string
	Color   string
	HasBand bool
}

// Band is one author's outline and labels.
type Band struct {
	AuthorID string
	Color    string
	Samples  []layout.BandSample
	Path     geometry.Path
	Labels   []geometry.Label
}

// Chart is a fully built river chart.
type Chart struct {
	// Authors in legend order.
	Authors []Author
	// Bands in initial draw order, back to front.
	Bands      []Band
	DateLabels []layout.DateLabel
	Bounds     geometry.Rect
	// MaxBucketSize is the normalization constant the chart was scaled with.
	MaxBucketSize float64
	// Warnings holds non-fatal conditions such as errors.ErrEmptyDataset.
	Warnings []error
}

// IsEmpty reports whether the chart has no bands.
func (c *Chart) IsEmpty() bool { return len(c.Bands) == 0 }

// Band returns the band of authorID, if it has one.
func (c *Chart) Band(authorID string) (*Band, bool) {
	for i := range c.Bands {
		if c.Bands[i].AuthorID == authorID {
			return &c.Bands[i], true
		}
	}
	return nil, false
}

// Author returns the legend entry of authorID.
func (c *Chart) Author(authorID string) (*Author, bool) {
	for i := range c.Authors {
		if c.Authors[i].ID == authorID {
			return &c.Authors[i], true
		}
	}
	return nil, false
}

// AuthorIDs returns legend ids in order.
func (c *Chart) AuthorIDs() []string {
	ids := make([]string, len(c.Authors))
	for i, a := range c.Authors {
		ids[i] = a.ID
	}
	return ids
}

// BandOrder returns band author ids in initial draw order.
func (c *Chart) BandOrder() []string {
	ids := make([]string, len(c.Bands))
	for i, b := range c.Bands {
		ids[i] = b.AuthorID
	}
	return ids
}

// LabelCount returns the number of labels across all bands.
func (c *Chart) LabelCount() int {
	n := 0
	for _, b := range c.Bands {
		n += len(b.Labels)
	}
	return n
}

// Build validates ds and lays out the chart.
//
// Invalid input returns an INVALID_INPUT error and a nil chart. An empty
// dataset returns an empty chart with errors.ErrEmptyDataset in Warnings,
// provided its contributions still reference listed authors.
func Build(ds *dataset.Dataset, opts Options) (*Chart, error) {
	if err := ds.ValidateReferences(); err != nil {
		return nil, err
	}
	if ds.IsEmpty() {
		return &Chart{Warnings: []error{errors.ErrEmptyDataset}}, nil
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	res, err := layout.Compute(ds.Buckets, ds.MaxBucketSize)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	colors := palette.Assign(ds.Authors)
	chart := &Chart{
		Authors:       make([]Author, len(ds.Authors)),
		Bands:         make([]Band, 0, len(res.Order)),
		DateLabels:    res.DateLabels,
		MaxBucketSize: ds.MaxBucketSize,
	}
	for i, a := range ds.Authors {
		_, hasBand := res.Samples[a.ID]
		chart.Authors[i] = Author{
			ID:      a.ID,
			Name:    a.Name,
			Message: a.Message,
			Color:   colors[a.ID],
			HasBand: hasBand,
		}
	}

	curveOpts := geometry.Options{Anchor: opts.LabelAnchor}
	for _, id := range res.Order {
		samples := res.Samples[id]
		path, labels := geometry.BuildBand(samples, curveOpts)
		chart.Bands = append(chart.Bands, Band{
			AuthorID: id,
			Color:    colors[id],
			Samples:  samples,
			Path:     path,
			Labels:   labels,
		})
	}
	chart.Bounds = bounds(chart)
	return chart, nil
}

// bounds covers every band outline, band label and date label.
func bounds(c *Chart) geometry.Rect {
	var r geometry.Rect
	for _, b := range c.Bands {
		r = r.Union(b.Path.Bounds())
		for _, l := range b.Labels {
			r = r.Union(textBox(l.X, l.Y))
		}
	}
	for _, d := range c.DateLabels {
		r = r.Union(textBox(d.X, d.Y))
	}
	return r
}

func textBox(x, y float64) geometry.Rect {
	return geometry.Rect{
		MinX: x - textHalfWidth,
		MinY: y - textHalfHeight,
		MaxX: x + textHalfWidth,
		MaxY: y + textHalfHeight,
	}
}
