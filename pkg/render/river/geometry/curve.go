// Package geometry turns one author's band samples into a closed, smoothed
// outline and label placements.
//
// The front (top) edge runs forward: a flat 50-unit segment at each sample,
// joined to the next by a cubic S-curve whose control points sit 20 units
// inside the gap. The back (bottom) edge returns from the last sample to the
// first with control points 70 units right of each sample, then the path is
// closed into a single filled region.
package geometry

import (
	"math"
	"strconv"

	"github.com/matzehuels/impactriver/pkg/render/river/layout"
)

// Curve constants in user units.
const (
	FlatLength     = 50 // flat run at each sample
	FrontControl   = 20 // front edge control offset
	BackControl    = 70 // back edge control offset from the sample's x
	LabelOffsetX   = 25
	LabelBaseline  = 3 // added to the vertical midpoint
	LabelClearance = 9 // minimum room above the baseline
)

// LabelAnchor selects which back edge vertically centers a label.
//
// The default, AnchorSample, pairs each sample's front edge with its own
// back edge, which is how the hover chart has always placed its labels.
// AnchorFinal follows the narrower reading that every label is centered
// against the band's final back edge; it drifts away from the band wherever
// the band's thickness changes, so it is opt-in.
type LabelAnchor int

const (
	// AnchorSample centers each label between the sample's own edges.
	AnchorSample LabelAnchor = iota
	// AnchorFinal centers every label against the band's last back edge.
	AnchorFinal
)

// ParseLabelAnchor maps "sample" or "final" to a LabelAnchor.
func ParseLabelAnchor(s string) (LabelAnchor, bool) {
	switch s {
	case "", "sample":
		return AnchorSample, true
	case "final":
		return AnchorFinal, true
	default:
		return AnchorSample, false
	}
}

func (a LabelAnchor) String() string {
	if a == AnchorFinal {
		return "final"
	}
	return "sample"
}

// Options controls curve construction.
type Options struct {
	Anchor LabelAnchor
}

// Label is a text placement inside a band.
type Label struct {
	X, Y        float64
	Text        string
	BucketIndex int
}

// BuildBand builds the outline and labels for one band. samples must be in
// ascending bucket order. An empty slice yields a zero Path and no labels.
func BuildBand(samples []layout.BandSample, opts Options) (Path, []Label) {
	if len(samples) == 0 {
		return Path{}, nil
	}

	var p Path
	labels := make([]Label, 0, len(samples))
	finalBack := samples[len(samples)-1].BackY

	first := samples[0]
	p.MoveTo(first.X, first.FrontY)
	p.LineTo(first.X+FlatLength, first.FrontY)
	labels = append(labels, label(first, opts.Anchor, finalBack))

	prev := Point{first.X + FlatLength, first.FrontY}
	for _, s := range samples[1:] {
		p.CubicTo(
			Point{prev.X + FrontControl, prev.Y},
			Point{s.X - FrontControl, s.FrontY},
			Point{s.X, s.FrontY},
		)
		p.LineTo(s.X+FlatLength, s.FrontY)
		prev = Point{s.X + FlatLength, s.FrontY}

		if l := label(s, opts.Anchor, finalBack); l.Y-LabelClearance > s.FrontY {
			labels = append(labels, l)
		}
	}

	last := samples[len(samples)-1]
	p.LineTo(last.X+FlatLength, last.BackY)
	p.LineTo(last.X, last.BackY)
	for j := len(samples) - 2; j >= 0; j-- {
		s, next := samples[j], samples[j+1]
		p.CubicTo(
			Point{s.X + BackControl, next.BackY},
			Point{s.X + BackControl, s.BackY},
			Point{s.X + FlatLength, s.BackY},
		)
		p.LineTo(s.X, s.BackY)
	}
	p.Close()

	return p, labels
}

func label(s layout.BandSample, anchor LabelAnchor, finalBack float64) Label {
	back := s.BackY
	if anchor == AnchorFinal {
		back = finalBack
	}
	return Label{
		X:           s.X + LabelOffsetX,
		Y:           math.Round(s.FrontY + (back-s.FrontY)/2 + LabelBaseline),
		Text:        strconv.FormatFloat(s.Size, 'f', -1, 64),
		BucketIndex: s.BucketIndex,
	}
}

// LabelBounds returns the box covering all label anchor points.
func LabelBounds(labels []Label) (Rect, bool) {
	if len(labels) == 0 {
		return Rect{}, false
	}
	r := Rect{MinX: labels[0].X, MinY: labels[0].Y, MaxX: labels[0].X, MaxY: labels[0].Y}
	for _, l := range labels[1:] {
		r = r.Extend(Point{l.X, l.Y})
	}
	return r, true
}
