package sink

import (
	"encoding/json"

	"github.com/matzehuels/impactriver/pkg/render/river"
	"github.com/matzehuels/impactriver/pkg/render/river/geometry"
	"github.com/matzehuels/impactriver/pkg/render/river/selection"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	samples bool
}

// WithJSONSamples includes each band's raw layout samples in the output.
func WithJSONSamples() JSONOption { return func(r *jsonRenderer) { r.samples = true } }

type jsonOutput struct {
	SessionID     string          `json:"session_id"`
	Bounds        jsonRect        `json:"bounds"`
	MaxBucketSize float64         `json:"max_bucket_size"`
	Authors       []jsonAuthor    `json:"authors"`
	Bands         []jsonBand      `json:"bands"`
	Dates         []jsonDate      `json:"dates"`
	Selection     selection.State `json:"selection"`
	DrawOrder     []string        `json:"draw_order"`
	Warnings      []string        `json:"warnings,omitempty"`
}

type jsonRect struct {
	MinX   float64 `json:"min_x"`
	MinY   float64 `json:"min_y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonAuthor struct {
	ID      string `json:"author_id"`
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
	Color   string `json:"color"`
	HasBand bool   `json:"has_band"`
}

type jsonBand struct {
	AuthorID string        `json:"author_id"`
	Color    string        `json:"color"`
	Path     string        `json:"path"`
	Commands []jsonCommand `json:"commands"`
	Labels   []jsonLabel   `json:"labels"`
	Samples  []jsonSample  `json:"samples,omitempty"`
}

type jsonCommand struct {
	Op     string       `json:"op"`
	Points [][2]float64 `json:"points,omitempty"`
}

type jsonLabel struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

type jsonSample struct {
	Bucket int     `json:"bucket"`
	FrontY float64 `json:"front_y"`
	BackY  float64 `json:"back_y"`
	Size   float64 `json:"size"`
}

type jsonDate struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Date int64   `json:"date"`
	Text string  `json:"text"`
}

// RenderJSON exports the session's chart as a pretty-printed JSON document:
// legend entries, band outlines as both SVG path data and command lists,
// label placements, date labels, the selection state and the draw order.
//
// RenderJSON does not modify the session and is safe to call concurrently.
func RenderJSON(s *river.Session, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	c := s.Chart
	state, order := s.Snapshot()
	out := jsonOutput{
		SessionID:     s.ID,
		Bounds:        jsonRect{MinX: c.Bounds.MinX, MinY: c.Bounds.MinY, Width: c.Bounds.Width(), Height: c.Bounds.Height()},
		MaxBucketSize: c.MaxBucketSize,
		Authors:       make([]jsonAuthor, len(c.Authors)),
		Bands:         make([]jsonBand, len(c.Bands)),
		Dates:         make([]jsonDate, len(c.DateLabels)),
		Selection:     state,
		DrawOrder:     order,
	}
	for i, a := range c.Authors {
		out.Authors[i] = jsonAuthor{ID: a.ID, Name: a.Name, Message: a.Message, Color: a.Color, HasBand: a.HasBand}
	}
	for i, b := range c.Bands {
		out.Bands[i] = buildJSONBand(b, r.samples)
	}
	for i, d := range c.DateLabels {
		out.Dates[i] = jsonDate{X: d.X, Y: d.Y, Date: d.Date, Text: FormatDate(d.Date)}
	}
	for _, w := range c.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONBand(b river.Band, withSamples bool) jsonBand {
	jb := jsonBand{
		AuthorID: b.AuthorID,
		Color:    b.Color,
		Path:     b.Path.SVG(),
		Commands: make([]jsonCommand, len(b.Path.Commands)),
		Labels:   make([]jsonLabel, len(b.Labels)),
	}
	for i, cmd := range b.Path.Commands {
		jb.Commands[i] = jsonCommand{Op: cmd.Op.String(), Points: points(cmd.Points)}
	}
	for i, l := range b.Labels {
		jb.Labels[i] = jsonLabel{X: l.X, Y: l.Y, Text: l.Text}
	}
	if withSamples {
		for _, s := range b.Samples {
			jb.Samples = append(jb.Samples, jsonSample{Bucket: s.BucketIndex, FrontY: s.FrontY, BackY: s.BackY, Size: s.Size})
		}
	}
	return jb
}

func points(pts []geometry.Point) [][2]float64 {
	if len(pts) == 0 {
		return nil
	}
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}
