package selection

import (
	"slices"
	"sync"
	"testing"

	"github.com/matzehuels/impactriver/pkg/errors"
)

func TestSelectSequence(t *testing.T) {
	c := NewController([]string{"a", "b"}, []string{"a", "b"})

	var batches []Batch
	c.Bind(ApplierFunc(func(b Batch) { batches = append(batches, b) }))

	got, err := c.Select("a")
	if err != nil {
		t.Fatalf("Select(a) error: %v", err)
	}
	want := []Directive{
		{ShowLabels, "a"},
		{BringToFront, "a"},
		{MarkSelected, "a"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Select(a) = %v, want %v", got, want)
	}

	got, err = c.Select("b")
	if err != nil {
		t.Fatalf("Select(b) error: %v", err)
	}
	want = []Directive{
		{HideLabels, "a"},
		{ShowLabels, "b"},
		{BringToFront, "b"},
		{MarkSelected, "b"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Select(b) = %v, want %v", got, want)
	}

	if s := c.State(); !s.Set || s.Highlighted != "b" {
		t.Errorf("State() = %+v, want highlighted b", s)
	}
	if c.LabelsVisible("a") {
		t.Error("labels of a still visible")
	}
	if !c.LabelsVisible("b") {
		t.Error("labels of b not visible")
	}
	order := c.DrawOrder()
	if n := len(order); order[n-2] != "band:b" || order[n-1] != "labels:b" {
		t.Errorf("DrawOrder() = %v, want b band and labels on top", order)
	}

	if len(batches) != 2 {
		t.Fatalf("applier received %d batches, want 2", len(batches))
	}
	if last := batches[1]; last.State.Highlighted != "b" || !slices.Equal(last.Directives, want) {
		t.Errorf("last batch = %+v", last)
	}
}

func TestSelectSameAuthorNoop(t *testing.T) {
	c := NewController([]string{"a"}, []string{"a"})
	calls := 0
	c.Bind(ApplierFunc(func(Batch) { calls++ }))

	if _, err := c.Select("a"); err != nil {
		t.Fatal(err)
	}
	got, err := c.Select("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("reselect emitted %v", got)
	}
	if calls != 1 {
		t.Errorf("applier called %d times, want 1", calls)
	}
}

func TestSelectUnknownAuthor(t *testing.T) {
	c := NewController([]string{"a"}, []string{"a"})
	if _, err := c.Select("a"); err != nil {
		t.Fatal(err)
	}
	before := c.DrawOrder()

	_, err := c.Select("ghost")
	if !errors.IsInvalidInput(err) {
		t.Fatalf("Select(ghost) error = %v, want INVALID_INPUT", err)
	}
	if s := c.State(); s.Highlighted != "a" {
		t.Errorf("state changed to %+v", s)
	}
	if !slices.Equal(before, c.DrawOrder()) {
		t.Error("draw order changed on error")
	}
}

func TestSelectLegendOnlyAuthor(t *testing.T) {
	c := NewController([]string{"a", "quiet"}, []string{"a"})
	if _, err := c.Select("a"); err != nil {
		t.Fatal(err)
	}

	got, err := c.Select("quiet")
	if err != nil {
		t.Fatal(err)
	}
	want := []Directive{{HideLabels, "a"}, {MarkSelected, "quiet"}}
	if !slices.Equal(got, want) {
		t.Errorf("Select(quiet) = %v, want %v", got, want)
	}

	got, err = c.Select("a")
	if err != nil {
		t.Fatal(err)
	}
	want = []Directive{{ShowLabels, "a"}, {BringToFront, "a"}, {MarkSelected, "a"}}
	if !slices.Equal(got, want) {
		t.Errorf("Select(a) after quiet = %v, want %v", got, want)
	}
}

func TestSelectConcurrent(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	c := NewController(ids, ids)

	var mu sync.Mutex
	var inFlight, maxInFlight int
	c.Bind(ApplierFunc(func(Batch) {
		mu.Lock()
		inFlight++
		maxInFlight = max(maxInFlight, inFlight)
		inFlight--
		mu.Unlock()
	}))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Select(ids[i%len(ids)])
		}()
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Errorf("applier ran %d batches at once", maxInFlight)
	}
	s := c.State()
	top := c.DrawOrder()
	if top[len(top)-1] != LabelsDrawable(s.Highlighted) {
		t.Errorf("top drawable %s does not match highlighted %s", top[len(top)-1], s.Highlighted)
	}
}

func TestSnapshotConsistentUnderSelect(t *testing.T) {
	ids := []string{"a", "b"}
	c := NewController(ids, ids)
	if _, err := c.Select("a"); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 5000 {
			_, _ = c.Select(ids[i%2])
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		state, order := c.Snapshot()
		if top := order[len(order)-1]; top != LabelsDrawable(state.Highlighted) {
			t.Fatalf("snapshot torn: highlighted %s, top drawable %s", state.Highlighted, top)
		}
	}
}

func TestDrawList(t *testing.T) {
	d := NewDrawList([]string{"a", "b", "c"})
	want := []string{"band:a", "labels:a", "band:b", "labels:b", "band:c", "labels:c"}
	if !slices.Equal(d.Items(), want) {
		t.Fatalf("Items() = %v", d.Items())
	}

	d.ToFront(BandDrawable("a"), LabelsDrawable("a"), "band:zzz")
	want = []string{"band:b", "labels:b", "band:c", "labels:c", "band:a", "labels:a"}
	if !slices.Equal(d.Items(), want) {
		t.Errorf("after ToFront Items() = %v, want %v", d.Items(), want)
	}
	if d.Top() != "labels:a" || !d.Contains("band:c") || d.Contains("band:zzz") {
		t.Errorf("Top/Contains mismatch: %v", d.Items())
	}
	if (&DrawList{}).Top() != "" {
		t.Error("empty Top() not empty")
	}
}

func TestKindString(t *testing.T) {
	if HideLabels.String() != "hide_labels" || MarkSelected.String() != "mark_selected" || Kind(9).String() != "unknown" {
		t.Error("unexpected kind names")
	}
}
