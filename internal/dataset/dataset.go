// Package dataset holds the curves shown by the viewer together with the
// subset and selection sets that overlay them.
package dataset

import (
	"errors"
	"fmt"
	"sort"

	"curve-viewer/pkg/geometry"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrShapeMismatch  = errors.New("curve length does not match the x domain")
	ErrLengthMismatch = errors.New("number of ids does not match number of curves")
	ErrDuplicateID    = errors.New("duplicate curve id")
)

// ID identifies a curve. It is assigned by the data source and is stable
// for the lifetime of a dataset.
type ID int64

// Curve is one row of the source table drawn against the shared x domain.
// Curves are immutable once created.
type Curve struct {
	ID  ID
	Row int // row index in the source table
	X   []float64
	Y   []float64
}

// Len returns the number of samples.
func (c *Curve) Len() int {
	return len(c.X)
}

// Point returns sample i.
func (c *Curve) Point(i int) geometry.Point2D {
	return geometry.Point2D{X: c.X[i], Y: c.Y[i]}
}

// Dataset is an ordered collection of curves sharing one x domain, plus the
// subset overlay and the current selection.
type Dataset struct {
	curves   []*Curve
	index    map[ID]int
	subset   IDSet
	selected IDSet
}

// New builds a dataset from a shared x domain, one y row per curve and the
// row ids. x does not need to be sorted: it is sorted once and the same
// permutation is applied to every row. The inputs are not retained.
func New(x []float64, ys [][]float64, ids []ID) (*Dataset, error) {
	if len(ids) != len(ys) {
		return nil, fmt.Errorf("%w: %d ids for %d curves", ErrLengthMismatch, len(ids), len(ys))
	}

	xs := make([]float64, len(x))
	copy(xs, x)
	perm := make([]int, len(xs))
	floats.Argsort(xs, perm)

	d := &Dataset{
		curves:   make([]*Curve, 0, len(ys)),
		index:    make(map[ID]int, len(ys)),
		subset:   NewIDSet(),
		selected: NewIDSet(),
	}
	for row, y := range ys {
		if len(y) != len(xs) {
			return nil, fmt.Errorf("%w: row %d has %d samples, domain has %d", ErrShapeMismatch, row, len(y), len(xs))
		}
		id := ids[row]
		if _, dup := d.index[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
		}

		sorted := make([]float64, len(y))
		for i, p := range perm {
			sorted[i] = y[p]
		}
		d.index[id] = len(d.curves)
		d.curves = append(d.curves, &Curve{ID: id, Row: row, X: xs, Y: sorted})
	}
	return d, nil
}

// Len returns the number of curves.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.curves)
}

// Curves returns the curves in enumeration order. The slice must not be modified.
func (d *Dataset) Curves() []*Curve {
	if d == nil {
		return nil
	}
	return d.curves
}

// Curve returns curve i.
func (d *Dataset) Curve(i int) *Curve {
	return d.curves[i]
}

// IndexOf returns the enumeration index of the curve with the given id.
func (d *Dataset) IndexOf(id ID) (int, bool) {
	if d == nil {
		return 0, false
	}
	i, ok := d.index[id]
	return i, ok
}

// Has reports whether id belongs to the dataset.
func (d *Dataset) Has(id ID) bool {
	_, ok := d.IndexOf(id)
	return ok
}

// Subset returns the subset overlay. An empty subset means every curve is in it.
func (d *Dataset) Subset() IDSet {
	return d.subset
}

// SetSubset replaces the subset overlay. Ids that are not part of the
// dataset are dropped; nil clears the subset.
func (d *Dataset) SetSubset(ids []ID) {
	d.subset = d.known(ids)
}

// Selected returns the selected ids.
func (d *Dataset) Selected() IDSet {
	return d.selected
}

// SetSelected replaces the selection. Ids that are not part of the dataset are dropped.
func (d *Dataset) SetSelected(ids IDSet) {
	d.selected = d.known(ids.Slice())
}

// SelectedRows returns the source rows of the selected curves in ascending order.
func (d *Dataset) SelectedRows() []int {
	if d == nil || d.selected.Len() == 0 {
		return []int{}
	}
	rows := make([]int, 0, d.selected.Len())
	for id := range d.selected {
		rows = append(rows, d.curves[d.index[id]].Row)
	}
	sort.Ints(rows)
	return rows
}

// SelectedCurves returns the selected curves ordered by source row, or nil
// when nothing is selected.
func (d *Dataset) SelectedCurves() []*Curve {
	rows := d.SelectedRows()
	if len(rows) == 0 {
		return nil
	}
	byRow := make(map[int]*Curve, len(rows))
	for id := range d.selected {
		c := d.curves[d.index[id]]
		byRow[c.Row] = c
	}
	out := make([]*Curve, 0, len(rows))
	for _, r := range rows {
		out = append(out, byRow[r])
	}
	return out
}

// Bounds returns the data-space rectangle spanning every sample of every
// curve. It returns false for a dataset without samples.
func (d *Dataset) Bounds() (geometry.Rect, bool) {
	if d.Len() == 0 || d.curves[0].Len() == 0 {
		return geometry.Rect{}, false
	}
	xs := d.curves[0].X
	minY, maxY := floats.Min(d.curves[0].Y), floats.Max(d.curves[0].Y)
	for _, c := range d.curves[1:] {
		minY = min(minY, floats.Min(c.Y))
		maxY = max(maxY, floats.Max(c.Y))
	}
	return geometry.RectFromCorners(
		geometry.Point2D{X: xs[0], Y: minY},
		geometry.Point2D{X: xs[len(xs)-1], Y: maxY},
	), true
}

func (d *Dataset) known(ids []ID) IDSet {
	s := NewIDSet()
	for _, id := range ids {
		if d.Has(id) {
			s.Add(id)
		}
	}
	return s
}
