package selection

import "slices"

const (
	bandPrefix   = "band:"
	labelsPrefix = "labels:"
)

// BandDrawable is the draw list id of an author's band outline.
func BandDrawable(authorID string) string { return bandPrefix + authorID }

// LabelsDrawable is the draw list id of an author's label group.
func LabelsDrawable(authorID string) string { return labelsPrefix + authorID }

// DrawList is the explicit z-order of drawables, back to front.
type DrawList struct {
	items []string
}

// NewDrawList creates a draw list holding each author's band followed by its
// labels, in the given order.
func NewDrawList(authorIDs []string) *DrawList {
	items := make([]string, 0, 2*len(authorIDs))
	for _, id := range authorIDs {
		items = append(items, BandDrawable(id), LabelsDrawable(id))
	}
	return &DrawList{items: items}
}

// Items returns a copy of the drawables, back to front.
func (d *DrawList) Items() []string {
	return slices.Clone(d.items)
}

// Top returns the frontmost drawable, or "" when empty.
func (d *DrawList) Top() string {
	if len(d.items) == 0 {
		return ""
	}
	return d.items[len(d.items)-1]
}

// Contains reports whether id is in the list.
func (d *DrawList) Contains(id string) bool {
	return slices.Contains(d.items, id)
}

// ToFront moves the named drawables to the front, keeping their relative
// order. Unknown ids are ignored.
func (d *DrawList) ToFront(ids ...string) {
	for _, id := range ids {
		i := slices.Index(d.items, id)
		if i < 0 {
			continue
		}
		d.items = append(slices.Delete(d.items, i, i+1), id)
	}
}
