// Package sink provides output format renderers for river charts.
//
// # Overview
//
// A "sink" turns a [river.Session] into a final output format. Renderers take
// the session rather than the bare chart because the current selection
// decides which labels are visible and which band is on top.
//
//   - SVG: Standalone document with legend and hover interaction
//   - JSON: Chart data export for external tools
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws bands in draw order, hides every label group except the
// highlighted author's, writes date labels under each bucket and adds a
// legend column. The embedded script replays the selection directives on
// mouseover. The root element carries data-scroll-x, the x coordinate of the
// latest bucket, for viewers that scroll the chart into view.
//
//	svg := sink.RenderSVG(session, sink.WithTitle("my-repo"))
//
// # JSON Output
//
// [RenderJSON] exports legend entries, band outlines (as SVG path data and as
// move/line/cubic/close command lists), labels, dates, the selection state and
// the draw order.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render a static SVG and convert it via
// [render.ToPDF] and [render.ToPNG]. These require librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [river.Session]: github.com/matzehuels/impactriver/pkg/render/river.Session
// [render.ToPDF]: github.com/matzehuels/impactriver/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/impactriver/pkg/render.ToPNG
package sink
