package river

import (
	stderrors "errors"
	"slices"
	"testing"

	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/errors"
	"github.com/matzehuels/impactriver/pkg/render/river/geometry"
	"github.com/matzehuels/impactriver/pkg/render/river/palette"
	"github.com/matzehuels/impactriver/pkg/render/river/selection"
)

func scenario() *dataset.Dataset {
	return &dataset.Dataset{
		Authors: []dataset.Author{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
		Buckets: []dataset.Bucket{
			{Date: 0, Contributions: []dataset.Contribution{{AuthorID: "a", Size: 100}, {AuthorID: "b", Size: 50}}},
			{Date: 86400, Contributions: []dataset.Contribution{{AuthorID: "a", Size: 400}, {AuthorID: "b", Size: 50}}},
		},
		MaxBucketSize: 1000,
	}
}

func TestBuildScenario(t *testing.T) {
	chart, err := Build(scenario(), Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(chart.Warnings) != 0 {
		t.Errorf("Warnings = %v", chart.Warnings)
	}

	a, ok := chart.Band("a")
	if !ok {
		t.Fatal("no band for a")
	}
	if got := []float64{a.Samples[0].Thickness(), a.Samples[1].Thickness()}; !slices.Equal(got, []float64{48, 54}) {
		t.Errorf("a thicknesses = %v, want [48 54]", got)
	}
	b, _ := chart.Band("b")
	if got := []float64{b.Samples[0].Thickness(), b.Samples[1].Thickness()}; !slices.Equal(got, []float64{45, 45}) {
		t.Errorf("b thicknesses = %v, want [45 45]", got)
	}
	if chart.DateLabels[0].Y != 107 {
		t.Errorf("date label 0 Y = %v, want 107", chart.DateLabels[0].Y)
	}

	colors := palette.Colors(2)
	if a.Color != colors[0] || b.Color != colors[1] {
		t.Errorf("colors = %s %s, want %v", a.Color, b.Color, colors)
	}
	if author, _ := chart.Author("a"); author.Color != a.Color || !author.HasBand {
		t.Errorf("legend entry = %+v", author)
	}
	if !a.Path.Closed() || !b.Path.Closed() {
		t.Error("band paths not closed")
	}
	if !slices.Equal(chart.BandOrder(), []string{"a", "b"}) {
		t.Errorf("BandOrder() = %v", chart.BandOrder())
	}
	if chart.Bounds.MaxX < 150 || chart.Bounds.MaxY < 107 {
		t.Errorf("Bounds = %+v does not cover chart", chart.Bounds)
	}
}

func TestBuildDeterministic(t *testing.T) {
	c1, err := Build(scenario(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	c2, err := Build(scenario(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i := range c1.Bands {
		if c1.Bands[i].Color != c2.Bands[i].Color || c1.Bands[i].Path.SVG() != c2.Bands[i].Path.SVG() {
			t.Errorf("band %d differs between builds", i)
		}
	}
}

func TestBuildLabelAnchor(t *testing.T) {
	chart, err := Build(scenario(), Options{LabelAnchor: geometry.AnchorFinal})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := chart.Band("a")
	if a.Labels[0].Y != 30 {
		t.Errorf("first label Y = %v, want 30 with final anchor", a.Labels[0].Y)
	}
}

func TestBuildInvalid(t *testing.T) {
	ds := scenario()
	ds.Buckets[1].Contributions[0].Size = 0

	chart, err := Build(ds, Options{})
	if !errors.IsInvalidInput(err) {
		t.Fatalf("Build() error = %v, want INVALID_INPUT", err)
	}
	if chart != nil {
		t.Errorf("Build() returned chart with %d bands on error", len(chart.Bands))
	}
}

func TestBuildUnknownAuthor(t *testing.T) {
	ds := scenario()
	ds.Buckets[0].Contributions[1].AuthorID = "c"
	if _, err := Build(ds, Options{}); !errors.IsInvalidInput(err) {
		t.Fatalf("Build() error = %v, want INVALID_INPUT", err)
	}
}

func TestBuildEmpty(t *testing.T) {
	tests := []struct {
		name string
		ds   *dataset.Dataset
	}{
		{"nil", nil},
		{"no buckets", &dataset.Dataset{Authors: []dataset.Author{{ID: "a"}}}},
		{"no authors", &dataset.Dataset{Buckets: []dataset.Bucket{{Date: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart, err := Build(tt.ds, Options{})
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if !chart.IsEmpty() || len(chart.Authors) != 0 {
				t.Errorf("chart not empty: %+v", chart)
			}
			if len(chart.Warnings) != 1 || !stderrors.Is(chart.Warnings[0], errors.ErrEmptyDataset) {
				t.Errorf("Warnings = %v, want ErrEmptyDataset", chart.Warnings)
			}
		})
	}
}

func TestBuildEmptyUnknownAuthor(t *testing.T) {
	ds := &dataset.Dataset{Buckets: []dataset.Bucket{
		{Date: 1, Contributions: []dataset.Contribution{{AuthorID: "x", Size: 10}}},
	}}
	if _, err := Build(ds, Options{}); !errors.IsInvalidInput(err) {
		t.Fatalf("Build() error = %v, want INVALID_INPUT", err)
	}
}

func TestBuildLegendOnlyAuthor(t *testing.T) {
	ds := scenario()
	ds.Authors = append(ds.Authors, dataset.Author{ID: "c", Name: "Carol"})
	chart, err := Build(ds, Options{})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := chart.Author("c")
	if !ok || c.HasBand || c.Color == "" {
		t.Errorf("legend entry for c = %+v", c)
	}
	if _, ok := chart.Band("c"); ok {
		t.Error("band for c should not exist")
	}
}

func TestSessionSelect(t *testing.T) {
	chart, err := Build(scenario(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(chart)
	if s.ID == "" {
		t.Error("session has no id")
	}
	if s.State().Set {
		t.Error("new session already has a selection")
	}

	var got []selection.Batch
	s.Bind(selection.ApplierFunc(func(b selection.Batch) { got = append(got, b) }))

	selectFn := s.SelectFunc()
	if _, err := selectFn("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := selectFn("b"); err != nil {
		t.Fatal(err)
	}

	if s.LabelsVisible("a") || !s.LabelsVisible("b") {
		t.Error("label visibility wrong after select(a), select(b)")
	}
	order := s.DrawOrder()
	if order[len(order)-1] != selection.LabelsDrawable("b") || order[len(order)-2] != selection.BandDrawable("b") {
		t.Errorf("DrawOrder() = %v, want b on top", order)
	}
	if len(got) != 2 {
		t.Fatalf("applier got %d batches, want 2", len(got))
	}

	if _, err := s.Select("nobody"); !errors.IsInvalidInput(err) {
		t.Errorf("Select(nobody) error = %v", err)
	}
}

func TestSessionIDsUnique(t *testing.T) {
	chart, _ := Build(scenario(), Options{})
	if NewSession(chart).ID == NewSession(chart).ID {
		t.Error("session ids collide")
	}
}
