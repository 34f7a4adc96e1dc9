// Package selection implements exclusive highlighting of one author.
//
// A [Controller] starts with nothing highlighted. [Controller.Select] moves
// the highlight to another author and produces a batch of directives for the
// renderer, in this order:
//
//  1. HideLabels(previous)
//  2. ShowLabels(next)
//  3. BringToFront(next)
//  4. MarkSelected(next)
//
// MarkSelected implicitly clears the previous legend mark. Authors listed in
// the legend but without a band only receive the directives that make sense
// for them. There is no deselect.
//
// The state change, the draw list reorder and delivery to the bound [Applier]
// happen under one lock, so a renderer never observes a half-applied batch.
package selection

import (
	"sync"

	"github.com/matzehuels/impactriver/pkg/errors"
)

// Kind identifies a renderer directive.
type Kind int

const (
	HideLabels Kind = iota
	ShowLabels
	BringToFront
	MarkSelected
)

var kindNames = [...]string{
	HideLabels:   "hide_labels",
	ShowLabels:   "show_labels",
	BringToFront: "bring_to_front",
	MarkSelected: "mark_selected",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown directive kind %q", text)
}

// Directive tells the renderer to change one author's presentation.
type Directive struct {
	Kind     Kind   `json:"kind"`
	AuthorID string `json:"author_id"`
}

// State is the highlight state. Set is false until the first selection.
type State struct {
	Highlighted string `json:"highlighted,omitempty"`
	Set         bool   `json:"set"`
}

// Batch is what an [Applier] receives for one transition.
type Batch struct {
	Directives []Directive `json:"directives"`
	State      State       `json:"state"`
	DrawOrder  []string    `json:"draw_order"`
}

// Applier receives directive batches. Apply runs while the controller lock is
// held and must not call back into the controller.
type Applier interface {
	Apply(Batch)
}

// ApplierFunc adapts a function to [Applier].
type ApplierFunc func(Batch)

// Apply calls f(b).
func (f ApplierFunc) Apply(b Batch) { f(b) }

// Controller owns the selection state of one rendered chart.
type Controller struct {
	mu      sync.Mutex
	state   State
	legend  map[string]struct{}
	banded  map[string]struct{}
	draw    *DrawList
	applier Applier
}

// NewController creates a controller for the given legend authors. bandOrder
// lists the authors that have a band, in initial draw order.
func NewController(legend, bandOrder []string) *Controller {
	c := &Controller{
		legend: make(map[string]struct{}, len(legend)),
		banded: make(map[string]struct{}, len(bandOrder)),
		draw:   NewDrawList(bandOrder),
	}
	for _, id := range legend {
		c.legend[id] = struct{}{}
	}
	for _, id := range bandOrder {
		c.banded[id] = struct{}{}
		c.legend[id] = struct{}{}
	}
	return c
}

// Bind sets the applier that receives future batches. A nil applier
// disables delivery.
func (c *Controller) Bind(a Applier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applier = a
}

// Select highlights authorID and returns the directives emitted. Selecting
// the author that is already highlighted emits nothing. An id that is not in
// the legend returns an INVALID_INPUT error and leaves the state unchanged.
func (c *Controller) Select(authorID string) ([]Directive, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.legend[authorID]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown author_id %q", authorID)
	}
	if c.state.Set && c.state.Highlighted == authorID {
		return nil, nil
	}

	directives := make([]Directive, 0, 4)
	if c.state.Set && c.hasBand(c.state.Highlighted) {
		directives = append(directives, Directive{HideLabels, c.state.Highlighted})
	}
	if c.hasBand(authorID) {
		directives = append(directives,
			Directive{ShowLabels, authorID},
			Directive{BringToFront, authorID},
		)
		c.draw.ToFront(BandDrawable(authorID), LabelsDrawable(authorID))
	}
	directives = append(directives, Directive{MarkSelected, authorID})
	c.state = State{Highlighted: authorID, Set: true}

	if c.applier != nil {
		c.applier.Apply(Batch{
			Directives: directives,
			State:      c.state,
			DrawOrder:  c.draw.Items(),
		})
	}
	return directives, nil
}

// State returns the current highlight state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// DrawOrder returns the current z-order, back to front.
func (c *Controller) DrawOrder() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draw.Items()
}

// Snapshot returns the highlight state and the z-order read under one lock,
// so the pair always reflects the same completed selection.
func (c *Controller) Snapshot() (State, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.draw.Items()
}

// LabelsVisible reports whether authorID's labels are currently shown.
func (c *Controller) LabelsVisible(authorID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Set && c.state.Highlighted == authorID && c.hasBand(authorID)
}

func (c *Controller) hasBand(id string) bool {
	_, ok := c.banded[id]
	return ok
}
