package view

import "curve-viewer/pkg/geometry"

// Mode is the current interaction mode of the plot.
type Mode int

const (
	ModePanning Mode = iota
	ModeZooming
)

func (m Mode) String() string {
	switch m {
	case ModePanning:
		return "panning"
	case ModeZooming:
		return "zooming"
	default:
		return "unknown"
	}
}

// Cursor is the pointer shape requested from the renderer.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorCrosshair
)

// Button identifies a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
)

// Modifier is a bit set of keyboard modifiers held during a pointer event.
type Modifier int

const (
	ModifierShift Modifier = 1 << iota
	ModifierControl
	ModifierAlt
	ModifierSuper
)

// Additive reports whether the modifier set asks to extend the selection.
func (m Modifier) Additive() bool {
	return m&ModifierControl != 0
}

// PointerEvent is a click or press at a position in widget pixels.
type PointerEvent struct {
	Pos       geometry.Point2D
	Button    Button
	Modifiers Modifier
}

// DragPhase marks the progress of a drag gesture.
type DragPhase int

const (
	DragStart DragPhase = iota
	DragMove
	DragEnd
)

// DragEvent reports a drag gesture in widget pixels. Start is where the
// button went down; Delta is the motion since the previous event of the
// same gesture.
type DragEvent struct {
	Phase     DragPhase
	Button    Button
	Modifiers Modifier
	Start     geometry.Point2D
	Pos       geometry.Point2D
	Delta     geometry.Point2D
}
