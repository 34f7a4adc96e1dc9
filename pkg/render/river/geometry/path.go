package geometry

import (
	"math"
	"strconv"
	"strings"
)

// Point is a position in user units. Y grows downward.
type Point struct {
	X, Y float64
}

// Op identifies a path drawing command.
type Op int

const (
	MoveTo Op = iota
	LineTo
	CubicTo
	Close
)

// String returns the SVG command letter.
func (o Op) String() string {
	switch o {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case CubicTo:
		return "C"
	case Close:
		return "Z"
	default:
		return "?"
	}
}

// Command is one drawing step. MoveTo and LineTo carry one point, CubicTo
// carries two control points followed by the end point, Close carries none.
type Command struct {
	Op     Op
	Points []Point
}

// Path is an ordered sequence of drawing commands.
type Path struct {
	Commands []Command
}

// IsZero reports whether the path has no commands.
func (p *Path) IsZero() bool { return len(p.Commands) == 0 }

func (p *Path) MoveTo(x, y float64) {
	p.Commands = append(p.Commands, Command{Op: MoveTo, Points: []Point{{x, y}}})
}

func (p *Path) LineTo(x, y float64) {
	p.Commands = append(p.Commands, Command{Op: LineTo, Points: []Point{{x, y}}})
}

func (p *Path) CubicTo(c1, c2, end Point) {
	p.Commands = append(p.Commands, Command{Op: CubicTo, Points: []Point{c1, c2, end}})
}

func (p *Path) Close() {
	p.Commands = append(p.Commands, Command{Op: Close})
}

// Closed reports whether the last command closes the path.
func (p *Path) Closed() bool {
	n := len(p.Commands)
	return n > 0 && p.Commands[n-1].Op == Close
}

// SVG renders the path as SVG path data, e.g. "M0,0L50,0C70,0,80,10,100,10Z".
func (p *Path) SVG() string {
	var b strings.Builder
	for _, c := range p.Commands {
		b.WriteString(c.Op.String())
		for i, pt := range c.Points {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(formatNum(pt.X))
			b.WriteByte(',')
			b.WriteString(formatNum(pt.Y))
		}
	}
	return b.String()
}

// Bounds returns the box enclosing every point of the path, control points
// included. The zero Rect is returned for an empty path.
func (p *Path) Bounds() Rect {
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	empty := true
	for _, c := range p.Commands {
		for _, pt := range c.Points {
			r = r.Extend(pt)
			empty = false
		}
	}
	if empty {
		return Rect{}
	}
	return r
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Extend returns the smallest Rect containing both r and pt.
func (r Rect) Extend(pt Point) Rect {
	return Rect{
		MinX: min(r.MinX, pt.X),
		MinY: min(r.MinY, pt.Y),
		MaxX: max(r.MaxX, pt.X),
		MaxY: max(r.MaxY, pt.Y),
	}
}

// Union returns the smallest Rect containing both boxes.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: min(r.MinX, o.MinX),
		MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX),
		MaxY: max(r.MaxY, o.MaxY),
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
