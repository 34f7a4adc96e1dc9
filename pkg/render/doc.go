// Package render provides chart rendering for contribution data.
//
// # Overview
//
// This package contains the rendering pipeline that turns aggregated
// contribution datasets into visual output. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - River charts (in [river] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(session)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # River Charts
//
// The [river] subpackage lays out one flowing band per author across time
// buckets, with band thickness tracking contribution size.
//
// Key river subpackages:
//   - [river/layout]: Size scaling and per-bucket stacking
//   - [river/geometry]: Band outlines and label placement
//   - [river/palette]: Author colors
//   - [river/selection]: Exclusive highlighting and draw order
//   - [river/sink]: Output formats (SVG, JSON, PNG, PDF)
//
// [river]: github.com/matzehuels/impactriver/pkg/render/river
// [river/layout]: github.com/matzehuels/impactriver/pkg/render/river/layout
// [river/geometry]: github.com/matzehuels/impactriver/pkg/render/river/geometry
// [river/palette]: github.com/matzehuels/impactriver/pkg/render/river/palette
// [river/selection]: github.com/matzehuels/impactriver/pkg/render/river/selection
// [river/sink]: github.com/matzehuels/impactriver/pkg/render/river/sink
package render
