package view

import "curve-viewer/pkg/geometry"

// ZoomHistory is the list of applied zoom rectangles with a pointer into it.
// Entries before the pointer have been applied; entries[Pointer-1] is the
// current view, and Pointer == 0 means the full data range. Entries at or
// beyond the pointer can be re-applied with Forward until a new rectangle
// is pushed.
type ZoomHistory struct {
	entries []geometry.Rect
	pointer int
	limit   int
}

// NewZoomHistory returns an empty history keeping at most limit entries.
// A limit <= 0 keeps every entry.
func NewZoomHistory(limit int) *ZoomHistory {
	return &ZoomHistory{limit: limit}
}

// Push discards any entries beyond the pointer, appends r and advances the
// pointer to it. The oldest entries are dropped once the limit is exceeded.
func (h *ZoomHistory) Push(r geometry.Rect) {
	h.entries = append(h.entries[:h.pointer], r)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = append([]geometry.Rect(nil), h.entries[len(h.entries)-h.limit:]...)
	}
	h.pointer = len(h.entries)
}

// Back moves the pointer one step back. It returns the rectangle to show
// and whether one exists; ok false with moved true means the full range.
func (h *ZoomHistory) Back() (r geometry.Rect, ok, moved bool) {
	if h.pointer == 0 {
		return geometry.Rect{}, false, false
	}
	h.pointer--
	r, ok = h.Current()
	return r, ok, true
}

// Forward re-applies the next entry, if any.
func (h *ZoomHistory) Forward() (geometry.Rect, bool) {
	if h.pointer >= len(h.entries) {
		return geometry.Rect{}, false
	}
	h.pointer++
	return h.entries[h.pointer-1], true
}

// Current returns the rectangle at the pointer, or false at the full range.
func (h *ZoomHistory) Current() (geometry.Rect, bool) {
	if h.pointer == 0 {
		return geometry.Rect{}, false
	}
	return h.entries[h.pointer-1], true
}

// Clear drops every entry.
func (h *ZoomHistory) Clear() {
	h.entries = nil
	h.pointer = 0
}

func (h *ZoomHistory) Len() int     { return len(h.entries) }
func (h *ZoomHistory) Pointer() int { return h.pointer }

// Entries returns a copy of the stored rectangles.
func (h *ZoomHistory) Entries() []geometry.Rect {
	return append([]geometry.Rect(nil), h.entries...)
}
