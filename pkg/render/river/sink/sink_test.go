package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/render/river"
)

func newSession(t *testing.T) *river.Session {
	t.Helper()
	ds := &dataset.Dataset{
		Authors: []dataset.Author{
			{ID: "a", Name: "Alice & Co", Message: "2 commits"},
			{ID: "b", Name: "Bob"},
		},
		Buckets: []dataset.Bucket{
			{Date: 0, Contributions: []dataset.Contribution{{AuthorID: "a", Size: 100}, {AuthorID: "b", Size: 50}}},
			{Date: 86400, Contributions: []dataset.Contribution{{AuthorID: "a", Size: 400}, {AuthorID: "b", Size: 50}}},
		},
		MaxBucketSize: 1000,
	}
	chart, err := river.Build(ds, river.Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return river.NewSession(chart)
}

func TestRenderSVG(t *testing.T) {
	s := newSession(t)
	svg := string(RenderSVG(s, WithTitle("demo")))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`<title>demo</title>`,
		`id="band-a"`,
		`id="band-b"`,
		`d="M0,0L50,0C70,0,80,0,100,0L150,0L150,54L100,54C70,54,70,48,50,48L0,48Z"`,
		`<g id="labels-a" class="labels hidden">`,
		`>1 JAN 1970</text>`,
		`>2 JAN 1970</text>`,
		`Alice &amp; Co`,
		`<title>2 commits</title>`,
		`var current = null;`,
		`data-scroll-x="`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not terminated")
	}
}

func TestRenderSVGFollowsSelection(t *testing.T) {
	s := newSession(t)
	if _, err := s.Select("b"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Select("a"); err != nil {
		t.Fatal(err)
	}
	svg := string(RenderSVG(s))

	if !strings.Contains(svg, `<g id="labels-a" class="labels">`) {
		t.Error("labels of highlighted author hidden")
	}
	if !strings.Contains(svg, `<g id="labels-b" class="labels hidden">`) {
		t.Error("labels of other author visible")
	}
	if !strings.Contains(svg, `class="legend-entry selected" data-author="a"`) {
		t.Error("legend does not mark a")
	}
	if strings.Index(svg, `id="band-a"`) < strings.Index(svg, `id="band-b"`) {
		t.Error("highlighted band not drawn last")
	}
	if !strings.Contains(svg, `var current = "a";`) {
		t.Error("script does not start from the current selection")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(newSession(t), WithoutLegend(), WithoutScript()))
	if strings.Contains(svg, "<script") {
		t.Error("script present with WithoutScript")
	}
	if strings.Contains(svg, `class="legend"`) {
		t.Error("legend present with WithoutLegend")
	}
}

func TestRenderSVGEmptyChart(t *testing.T) {
	chart, err := river.Build(&dataset.Dataset{}, river.Options{})
	if err != nil {
		t.Fatal(err)
	}
	svg := string(RenderSVG(river.NewSession(chart)))
	if strings.Contains(svg, "<path") {
		t.Error("empty chart rendered a band")
	}
}

func TestRenderJSON(t *testing.T) {
	s := newSession(t)
	if _, err := s.Select("b"); err != nil {
		t.Fatal(err)
	}

	data, err := RenderJSON(s, WithJSONSamples())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.SessionID != s.ID {
		t.Errorf("SessionID = %q, want %q", out.SessionID, s.ID)
	}
	if len(out.Authors) != 2 || len(out.Bands) != 2 || len(out.Dates) != 2 {
		t.Fatalf("counts: authors=%d bands=%d dates=%d", len(out.Authors), len(out.Bands), len(out.Dates))
	}
	a := out.Bands[0]
	if a.AuthorID != "a" || a.Commands[0].Op != "M" || a.Commands[len(a.Commands)-1].Op != "Z" {
		t.Errorf("band a = %+v", a)
	}
	if len(a.Samples) != 2 || a.Samples[1].BackY != 54 {
		t.Errorf("band a samples = %+v", a.Samples)
	}
	if a.Labels[0].Text != "100" {
		t.Errorf("band a first label = %+v", a.Labels[0])
	}
	if out.Dates[1].Text != "2 JAN 1970" {
		t.Errorf("date text = %q", out.Dates[1].Text)
	}
	if !out.Selection.Set || out.Selection.Highlighted != "b" {
		t.Errorf("Selection = %+v", out.Selection)
	}
	if out.DrawOrder[len(out.DrawOrder)-1] != "labels:b" {
		t.Errorf("DrawOrder = %v", out.DrawOrder)
	}
}

func TestRenderJSONConsistentUnderSelect(t *testing.T) {
	s := newSession(t)
	if _, err := s.Select("a"); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 2000 {
			_, _ = s.Select([]string{"a", "b"}[i%2])
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		data, err := RenderJSON(s)
		if err != nil {
			t.Fatal(err)
		}
		var out jsonOutput
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatal(err)
		}
		if top := out.DrawOrder[len(out.DrawOrder)-1]; top != "labels:"+out.Selection.Highlighted {
			t.Fatalf("highlighted %s but %s drawn on top", out.Selection.Highlighted, top)
		}
	}
}

func TestRenderJSONWithoutSamples(t *testing.T) {
	data, err := RenderJSON(newSession(t))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"samples"`) {
		t.Error("samples exported without WithJSONSamples")
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		ts   int64
		want string
	}{
		{0, "1 JAN 1970"},
		{1700000000, "14 NOV 2023"},
		{951782400, "29 FEB 2000"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.ts); got != tt.want {
			t.Errorf("FormatDate(%d) = %q, want %q", tt.ts, got, tt.want)
		}
	}
}
