// Package palette assigns each author a deterministic band color.
//
// Colors come from an HSV walk: the hue advances by [HueStep] of a turn at a
// fixed brightness of [Brightness]. When the hue wraps, saturation drops by
// [SaturationStep]; when saturation is used up the walk starts over. That
// yields [Size] distinct colors before repeating.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/impactriver/pkg/dataset"
)

// Walk parameters.
const (
	HueStep        = 0.075
	SaturationStep = 0.2
	Brightness     = 0.75

	huesPerRound = 14 // ceil(1 / HueStep)
	rounds       = 5  // 1 / SaturationStep
)

// Size is the number of distinct colors before the sequence repeats.
const Size = huesPerRound * rounds

// Generator produces the color sequence. The zero value starts at the first
// color. A Generator is not safe for concurrent use.
type Generator struct {
	hue   int
	round int
}

// Next returns the next color as a colorful.Color.
func (g *Generator) Next() colorful.Color {
	h := float64(g.hue) * HueStep * 360
	s := 1 - float64(g.round)*SaturationStep
	c := colorful.Hsv(h, s, Brightness)

	g.hue++
	if g.hue == huesPerRound {
		g.hue = 0
		g.round = (g.round + 1) % rounds
	}
	return c
}

// NextHex returns the next color as "#rrggbb".
func (g *Generator) NextHex() string {
	return g.Next().Hex()
}

// Reset rewinds the generator to the first color.
func (g *Generator) Reset() {
	g.hue, g.round = 0, 0
}

// Assign maps each author id to a color in author-list order, using a fresh
// generator per call so repeated calls with the same list agree.
func Assign(authors []dataset.Author) map[string]string {
	var g Generator
	colors := make(map[string]string, len(authors))
	for _, a := range authors {
		colors[a.ID] = g.NextHex()
	}
	return colors
}

// Colors returns the first n colors of the sequence.
func Colors(n int) []string {
	var g Generator
	out := make([]string, n)
	for i := range out {
		out[i] = g.NextHex()
	}
	return out
}
