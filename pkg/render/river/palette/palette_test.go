package palette

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/impactriver/pkg/dataset"
)

func TestFirstColor(t *testing.T) {
	var g Generator
	if got := g.NextHex(); got != "#bf0000" {
		t.Errorf("first color = %s, want #bf0000", got)
	}
}

func TestAssignDeterministic(t *testing.T) {
	authors := []dataset.Author{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	first := Assign(authors)
	second := Assign(authors)
	for _, a := range authors {
		if first[a.ID] != second[a.ID] {
			t.Errorf("Assign()[%s] = %s then %s", a.ID, first[a.ID], second[a.ID])
		}
	}
	colors := Colors(3)
	for i, a := range authors {
		if first[a.ID] != colors[i] {
			t.Errorf("Assign()[%s] = %s, want palette[%d] = %s", a.ID, first[a.ID], i, colors[i])
		}
	}
}

func TestAssignFollowsOrder(t *testing.T) {
	ab := Assign([]dataset.Author{{ID: "a"}, {ID: "b"}})
	ba := Assign([]dataset.Author{{ID: "b"}, {ID: "a"}})
	if ab["a"] != ba["b"] || ab["b"] != ba["a"] {
		t.Errorf("colors should follow list order: %v vs %v", ab, ba)
	}
}

func TestColorsDistinct(t *testing.T) {
	colors := Colors(Size)
	seen := make(map[string]int, len(colors))
	parsed := make([]colorful.Color, len(colors))
	for i, hex := range colors {
		if j, dup := seen[hex]; dup {
			t.Fatalf("color %d (%s) repeats color %d", i, hex, j)
		}
		seen[hex] = i
		c, err := colorful.Hex(hex)
		if err != nil {
			t.Fatalf("colorful.Hex(%s): %v", hex, err)
		}
		parsed[i] = c
	}

	// Neighbours in assignment order must be perceptibly different.
	for i := 1; i < len(parsed); i++ {
		if d := parsed[i-1].DistanceCIEDE2000(parsed[i]); d < 0.01 {
			t.Errorf("colors %d and %d too close: %s %s (dE %.3f)", i-1, i, colors[i-1], colors[i], d)
		}
	}
}

func TestColorsRepeatAfterSize(t *testing.T) {
	colors := Colors(Size + 3)
	for i := 0; i < 3; i++ {
		if colors[Size+i] != colors[i] {
			t.Errorf("colors[%d] = %s, want repeat of colors[%d] = %s", Size+i, colors[Size+i], i, colors[i])
		}
	}
}

func TestReset(t *testing.T) {
	var g Generator
	first := g.NextHex()
	g.NextHex()
	g.Reset()
	if got := g.NextHex(); got != first {
		t.Errorf("after Reset() got %s, want %s", got, first)
	}
}
