package view

import "curve-viewer/internal/dataset"

// Pen selects how a curve is stroked.
type Pen int

const (
	PenNormal Pen = iota
	PenSubset
	PenSelected
	PenHover
)

func (p Pen) String() string {
	switch p {
	case PenNormal:
		return "normal"
	case PenSubset:
		return "subset"
	case PenSelected:
		return "selected"
	case PenHover:
		return "hover"
	default:
		return "unknown"
	}
}

// ZHover is the draw order of the hovered curve, above every policy order.
const ZHover = 5

// PenFor returns the pen and draw order of curve id given the subset and
// selection. An empty subset counts every curve as a member. Selected curves
// take the selected pen regardless of subset membership.
func PenFor(id dataset.ID, subset, selected dataset.IDSet) (Pen, int) {
	inSubset := subset.Len() == 0 || subset.Has(id)
	inSelected := selected.Has(id)

	pen := PenNormal
	if inSubset {
		pen = PenSubset
	}
	if inSelected {
		pen = PenSelected
	}
	return pen, b2i(inSubset) + b2i(inSelected)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
