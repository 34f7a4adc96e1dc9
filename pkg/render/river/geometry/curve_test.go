package geometry

import (
	"testing"

	"github.com/matzehuels/impactriver/pkg/render/river/layout"
)

func sampleA() []layout.BandSample {
	return []layout.BandSample{
		{BucketIndex: 0, X: 0, FrontY: 0, BackY: 48, Size: 100},
		{BucketIndex: 1, X: 100, FrontY: 0, BackY: 54, Size: 400},
	}
}

func TestBuildBandPath(t *testing.T) {
	p, _ := BuildBand(sampleA(), Options{})
	want := "M0,0L50,0C70,0,80,0,100,0L150,0L150,54L100,54C70,54,70,48,50,48L0,48Z"
	if got := p.SVG(); got != want {
		t.Errorf("SVG() =\n  %s\nwant\n  %s", got, want)
	}
	if !p.Closed() {
		t.Error("path not closed")
	}
}

func TestBuildBandSingleSample(t *testing.T) {
	samples := []layout.BandSample{{BucketIndex: 3, X: 300, FrontY: 10, BackY: 40, Size: 7}}
	p, labels := BuildBand(samples, Options{})
	if got, want := p.SVG(), "M300,10L350,10L350,40L300,40Z"; got != want {
		t.Errorf("SVG() = %s, want %s", got, want)
	}
	if len(labels) != 1 {
		t.Fatalf("labels = %d, want 1", len(labels))
	}
	if l := labels[0]; l.X != 325 || l.Y != 28 || l.Text != "7" || l.BucketIndex != 3 {
		t.Errorf("label = %+v", l)
	}
}

func TestBuildBandEmpty(t *testing.T) {
	p, labels := BuildBand(nil, Options{})
	if !p.IsZero() {
		t.Errorf("BuildBand(nil) path = %s, want empty", p.SVG())
	}
	if labels != nil {
		t.Errorf("BuildBand(nil) labels = %v, want nil", labels)
	}
	if b := p.Bounds(); b != (Rect{}) {
		t.Errorf("Bounds() = %+v, want zero", b)
	}
}

func TestBuildBandLabels(t *testing.T) {
	tests := []struct {
		name    string
		samples []layout.BandSample
		anchor  LabelAnchor
		want    []Label
	}{
		{
			name:    "own back edge",
			samples: sampleA(),
			anchor:  AnchorSample,
			want: []Label{
				{X: 25, Y: 27, Text: "100", BucketIndex: 0},
				{X: 125, Y: 30, Text: "400", BucketIndex: 1},
			},
		},
		{
			name:    "final back edge",
			samples: sampleA(),
			anchor:  AnchorFinal,
			want: []Label{
				{X: 25, Y: 30, Text: "100", BucketIndex: 0},
				{X: 125, Y: 30, Text: "400", BucketIndex: 1},
			},
		},
		{
			name: "rounds half up",
			samples: []layout.BandSample{
				{BucketIndex: 0, X: 0, FrontY: 50, BackY: 95, Size: 50},
				{BucketIndex: 1, X: 100, FrontY: 56, BackY: 101, Size: 50},
			},
			want: []Label{
				{X: 25, Y: 76, Text: "50", BucketIndex: 0},
				{X: 125, Y: 82, Text: "50", BucketIndex: 1},
			},
		},
		{
			name: "thin later sample skipped",
			samples: []layout.BandSample{
				{BucketIndex: 0, X: 0, FrontY: 0, BackY: 3, Size: 1},
				{BucketIndex: 1, X: 100, FrontY: 20, BackY: 30, Size: 2},
				{BucketIndex: 2, X: 200, FrontY: 0, BackY: 42, Size: 2.5},
			},
			want: []Label{
				{X: 25, Y: 5, Text: "1", BucketIndex: 0},
				{X: 225, Y: 24, Text: "2.5", BucketIndex: 2},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := BuildBand(tt.samples, Options{Anchor: tt.anchor})
			if len(got) != len(tt.want) {
				t.Fatalf("labels = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("label[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildBandFrontEdgeMonotonic(t *testing.T) {
	samples := []layout.BandSample{
		{BucketIndex: 0, X: 0, FrontY: 10, BackY: 40},
		{BucketIndex: 2, X: 200, FrontY: 0, BackY: 3},
		{BucketIndex: 3, X: 300, FrontY: 90, BackY: 150},
		{BucketIndex: 7, X: 700, FrontY: 5, BackY: 6},
	}
	p, _ := BuildBand(samples, Options{})

	// The front edge ends at the first LineTo that drops to a back edge.
	var xs []float64
	for _, c := range p.Commands {
		if c.Op == Close {
			break
		}
		end := c.Points[len(c.Points)-1]
		if len(xs) > 0 && end.X == xs[len(xs)-1] {
			break
		}
		xs = append(xs, end.X)
	}
	if len(xs) != 2*len(samples) {
		t.Fatalf("front edge has %d points, want %d", len(xs), 2*len(samples))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			t.Errorf("front edge x not increasing at %d: %v", i, xs)
		}
	}

	moves := 0
	for _, c := range p.Commands {
		if c.Op == MoveTo {
			moves++
		}
	}
	if moves != 1 || !p.Closed() {
		t.Errorf("want one subpath closed, got %d moves, closed=%v", moves, p.Closed())
	}
}

func TestPathBounds(t *testing.T) {
	p, _ := BuildBand(sampleA(), Options{})
	want := Rect{MinX: 0, MinY: 0, MaxX: 150, MaxY: 54}
	if got := p.Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestParseLabelAnchor(t *testing.T) {
	tests := []struct {
		in   string
		want LabelAnchor
		ok   bool
	}{
		{"", AnchorSample, true},
		{"sample", AnchorSample, true},
		{"final", AnchorFinal, true},
		{"middle", AnchorSample, false},
	}
	for _, tt := range tests {
		got, ok := ParseLabelAnchor(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLabelAnchor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLabelBounds(t *testing.T) {
	if _, ok := LabelBounds(nil); ok {
		t.Error("LabelBounds(nil) ok = true")
	}
	_, labels := BuildBand(sampleA(), Options{})
	r, ok := LabelBounds(labels)
	if !ok || r != (Rect{MinX: 25, MinY: 27, MaxX: 125, MaxY: 30}) {
		t.Errorf("LabelBounds() = %+v, %v", r, ok)
	}
}
