// Package scroll decides when a card viewport must move to reveal the
// highlighted section and animates the move.
package scroll

// Bounds is the vertical extent of a section, in content lines.
type Bounds struct {
	Top    int
	Height int
}

// Bottom returns the first line below the section.
func (b Bounds) Bottom() int {
	return b.Top + b.Height
}

// Window is a viewport over Content lines, showing Height lines from Offset.
type Window struct {
	Offset  int
	Height  int
	Content int
}

// MaxOffset returns the largest offset that still fills the window.
func (w Window) MaxOffset() int {
	return max(w.Content-w.Height, 0)
}

// Contains reports whether b lies fully inside the visible part of w.
func (w Window) Contains(b Bounds) bool {
	return b.Top >= w.Offset && b.Bottom() <= w.Offset+w.Height
}

// Decide returns the offset that brings target's top edge into view. It
// reports false when target is already fully visible and nothing should move.
func Decide(target Bounds, w Window) (int, bool) {
	if w.Contains(target) {
		return w.Offset, false
	}

	offset := min(max(target.Top, 0), w.MaxOffset())
	if offset == w.Offset {
		return w.Offset, false
	}
	return offset, true
}
