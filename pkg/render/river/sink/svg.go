package sink

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/impactriver/pkg/render/river"
	"github.com/matzehuels/impactriver/pkg/render/river/selection"
)

const (
	legendWidth     = 180
	legendRowHeight = 18
	legendSwatch    = 12
	canvasPadding   = 10
)

const riverCSS = `
    .band { stroke-width: 1; cursor: pointer; }
    .band-label { font: 9px Arial, sans-serif; fill: #fff; text-anchor: middle; pointer-events: none; }
    .date-label { font: 9px Arial, sans-serif; fill: #000; text-anchor: middle; }
    .legend-entry { cursor: pointer; }
    .legend-entry text { font: 12px Arial, sans-serif; fill: #333; }
    .legend-entry.selected text { font-weight: bold; }
    .legend-entry.selected rect { stroke: #000; stroke-width: 2; }
    .hidden { display: none; }`

// riverJS replays the selection directives in the browser: hide the previous
// labels, show the next, raise band and labels, then move the legend mark.
const riverJS = `
    var current = %s;
    function select(id) {
      if (id === current) return;
      if (current !== null) {
        var prev = document.getElementById('labels-' + current);
        if (prev) prev.classList.add('hidden');
      }
      var band = document.getElementById('band-' + id);
      var labels = document.getElementById('labels-' + id);
      if (labels) labels.classList.remove('hidden');
      if (band) band.parentNode.appendChild(band);
      if (labels) labels.parentNode.appendChild(labels);
      document.querySelectorAll('.legend-entry').forEach(e => e.classList.toggle('selected', e.dataset.author === id));
      current = id;
    }
    document.querySelectorAll('.band, .legend-entry').forEach(el => {
      el.addEventListener('mouseover', () => select(el.dataset.author));
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	legend bool
	script bool
	title  string
}

// WithoutLegend omits the author legend column.
func WithoutLegend() SVGOption { return func(r *svgRenderer) { r.legend = false } }

// WithoutScript omits the embedded interaction script, for static exports.
func WithoutScript() SVGOption { return func(r *svgRenderer) { r.script = false } }

// WithTitle sets the document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG renders the session's chart as a standalone SVG document.
// Bands are drawn in the session's current draw order and only the
// highlighted author's labels are visible.
func RenderSVG(s *river.Session, opts ...SVGOption) []byte {
	r := svgRenderer{legend: true, script: true}
	for _, opt := range opts {
		opt(&r)
	}

	c := s.Chart
	state, order := s.Snapshot()

	offsetX := float64(canvasPadding)
	if r.legend {
		offsetX += legendWidth
	}
	offsetX -= c.Bounds.MinX
	offsetY := canvasPadding - c.Bounds.MinY

	width := offsetX + c.Bounds.MaxX + canvasPadding
	height := c.Bounds.Height() + 2*canvasPadding
	if r.legend {
		height = max(height, float64(len(c.Authors)*legendRowHeight+2*canvasPadding))
	}
	scrollX := offsetX
	if n := len(c.DateLabels); n > 0 {
		scrollX += c.DateLabels[n-1].X
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-session="%s" data-scroll-x="%.0f">`+"\n",
		width, height, width, height, escapeXML(s.ID), scrollX)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", riverCSS)

	if r.legend {
		renderLegend(&buf, c, state)
	}

	fmt.Fprintf(&buf, `  <g class="river" transform="translate(%.1f,%.1f)">`+"\n", offsetX, offsetY)
	renderDrawList(&buf, c, order, state)
	renderDates(&buf, c)
	buf.WriteString("  </g>\n")

	if r.script {
		initial := "null"
		if state.Set {
			b, _ := json.Marshal(state.Highlighted)
			initial = string(b)
		}
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA["+riverJS+"\n  ]]></script>\n", initial)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLegend(buf *bytes.Buffer, c *river.Chart, state selection.State) {
	fmt.Fprintf(buf, `  <g class="legend" transform="translate(%d,%d)">`+"\n", canvasPadding, canvasPadding)
	for i, a := range c.Authors {
		class := "legend-entry"
		if state.Set && state.Highlighted == a.ID {
			class += " selected"
		}
		y := i * legendRowHeight
		fmt.Fprintf(buf, `    <g id="legend-%s" class="%s" data-author="%s">`, escapeXML(a.ID), class, escapeXML(a.ID))
		if a.Message != "" {
			fmt.Fprintf(buf, `<title>%s</title>`, escapeXML(a.Message))
		}
		fmt.Fprintf(buf, `<rect x="0" y="%d" width="%d" height="%d" fill="%s"/>`, y, legendSwatch, legendSwatch, a.Color)
		fmt.Fprintf(buf, `<text x="%d" y="%d">%s</text></g>`+"\n", legendSwatch+6, y+legendSwatch-1, escapeXML(a.Name))
	}
	buf.WriteString("  </g>\n")
}

func renderDrawList(buf *bytes.Buffer, c *river.Chart, order []string, state selection.State) {
	for _, item := range order {
		if id, ok := strings.CutPrefix(item, "band:"); ok {
			if b, ok := c.Band(id); ok {
				renderBand(buf, b)
			}
			continue
		}
		if id, ok := strings.CutPrefix(item, "labels:"); ok {
			if b, ok := c.Band(id); ok {
				renderLabels(buf, b, state.Set && state.Highlighted == id)
			}
		}
	}
}

func renderBand(buf *bytes.Buffer, b *river.Band) {
	fmt.Fprintf(buf, `    <path id="band-%s" class="band" data-author="%s" d="%s" fill="%s" stroke="%s"/>`+"\n",
		escapeXML(b.AuthorID), escapeXML(b.AuthorID), b.Path.SVG(), b.Color, b.Color)
}

func renderLabels(buf *bytes.Buffer, b *river.Band, visible bool) {
	class := "labels"
	if !visible {
		class += " hidden"
	}
	fmt.Fprintf(buf, `    <g id="labels-%s" class="%s">`+"\n", escapeXML(b.AuthorID), class)
	for _, l := range b.Labels {
		fmt.Fprintf(buf, `      <text class="band-label" x="%g" y="%g">%s</text>`+"\n", l.X, l.Y, escapeXML(l.Text))
	}
	buf.WriteString("    </g>\n")
}

func renderDates(buf *bytes.Buffer, c *river.Chart) {
	buf.WriteString(`    <g class="dates">` + "\n")
	for _, d := range c.DateLabels {
		fmt.Fprintf(buf, `      <text class="date-label" x="%g" y="%g">%s</text>`+"\n", d.X, d.Y, FormatDate(d.Date))
	}
	buf.WriteString("    </g>\n")
}

// FormatDate renders a unix timestamp as "2 JAN 2006" in UTC.
func FormatDate(ts int64) string {
	t := time.Unix(ts, 0).UTC()
	return fmt.Sprintf("%d %s %d", t.Day(), strings.ToUpper(t.Format("Jan")), t.Year())
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
