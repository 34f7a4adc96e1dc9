package river

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/impactriver/pkg/render/river/selection"
)

// SelectFunc is the callback renderers wire to hover and click events.
type SelectFunc func(authorID string) ([]selection.Directive, error)

// Session is one rendered chart together with its selection state.
// The chart is shared read-only; all mutation goes through Select.
type Session struct {
	ID        string
	Chart     *Chart
	CreatedAt time.Time

	controller *selection.Controller
}

// NewSession creates a session for chart with nothing highlighted.
func NewSession(chart *Chart) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Chart:      chart,
		CreatedAt:  time.Now().UTC(),
		controller: selection.NewController(chart.AuthorIDs(), chart.BandOrder()),
	}
}

// Select highlights authorID. See [selection.Controller.Select].
func (s *Session) Select(authorID string) ([]selection.Directive, error) {
	return s.controller.Select(authorID)
}

// SelectFunc returns Select as a callback value.
func (s *Session) SelectFunc() SelectFunc { return s.Select }

// Bind attaches the applier that receives directive batches.
func (s *Session) Bind(a selection.Applier) { s.controller.Bind(a) }

// State returns the current highlight state.
func (s *Session) State() selection.State { return s.controller.State() }

// DrawOrder returns the current z-order of drawables, back to front.
func (s *Session) DrawOrder() []string { return s.controller.DrawOrder() }

// Snapshot returns a consistent pair of highlight state and z-order.
// Renderers use it instead of State and DrawOrder.
func (s *Session) Snapshot() (selection.State, []string) { return s.controller.Snapshot() }

// LabelsVisible reports whether authorID's labels are shown.
func (s *Session) LabelsVisible(authorID string) bool {
	return s.controller.LabelsVisible(authorID)
}
