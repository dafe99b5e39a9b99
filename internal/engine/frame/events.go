package frame

import (
	"github.com/Faultbox/batchforge/internal/engine/camera"
	"github.com/Faultbox/batchforge/internal/engine/picking"
	"github.com/Faultbox/batchforge/pkg/math"
)

// Key is a keyboard scancode.
type Key uint32

// KeyState is the edge a key event reports.
type KeyState int

const (
	KeyPressed KeyState = iota
	KeyReleased
)

// KeyEvent is one key edge seen this frame.
type KeyEvent struct {
	Key   Key
	State KeyState
}

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

// ClickState is a per-button state machine. A press moves the button to
// MouseClicked and a release to MouseReleased; NextFrame then settles them
// into MouseHeld and MouseNotHeld.
type ClickState int

const (
	MouseNotHeld ClickState = iota
	MouseClicked
	MouseHeld
	MouseReleased
)

func (s ClickState) String() string {
	switch s {
	case MouseClicked:
		return "clicked"
	case MouseHeld:
		return "held"
	case MouseReleased:
		return "released"
	}
	return "not-held"
}

func (s ClickState) next() ClickState {
	switch s {
	case MouseClicked:
		return MouseHeld
	case MouseReleased:
		return MouseNotHeld
	}
	return s
}

// Events is the input snapshot systems read each frame.
type Events struct {
	keys []KeyEvent

	// ScreenMouse is the pointer in normalized device coordinates.
	ScreenMouse math.Vec2
	// WorldMouse is ScreenMouse offset by the camera's x and y. It is only
	// meaningful for an unrotated 2D camera.
	WorldMouse  math.Vec2
	Buttons     [3]ClickState
	AspectRatio float32
	// MouseRay is the world-space direction under the pointer.
	MouseRay math.Vec3
}

// NewEvents returns an empty snapshot with a square aspect ratio.
func NewEvents() *Events {
	return &Events{AspectRatio: 1}
}

// PushKey records a key edge.
func (e *Events) PushKey(k Key, s KeyState) {
	e.keys = append(e.keys, KeyEvent{Key: k, State: s})
}

// Keys returns the key edges recorded this frame.
func (e *Events) Keys() []KeyEvent {
	return e.keys
}

// KeyState returns the state of the first event for k this frame.
func (e *Events) KeyState(k Key) (KeyState, bool) {
	for _, ev := range e.keys {
		if ev.Key == k {
			return ev.State, true
		}
	}
	return 0, false
}

// IsKeyPressed reports whether k went down this frame.
func (e *Events) IsKeyPressed(k Key) bool {
	s, ok := e.KeyState(k)
	return ok && s == KeyPressed
}

// IsKeyReleased reports whether k came up this frame.
func (e *Events) IsKeyReleased(k Key) bool {
	s, ok := e.KeyState(k)
	return ok && s == KeyReleased
}

// ClearKeys drops this frame's key edges.
func (e *Events) ClearKeys() {
	e.keys = e.keys[:0]
}

// Press records a button going down.
func (e *Events) Press(b MouseButton) {
	e.Buttons[b] = MouseClicked
}

// Release records a button coming up.
func (e *Events) Release(b MouseButton) {
	e.Buttons[b] = MouseReleased
}

// Button returns the click state of b.
func (e *Events) Button(b MouseButton) ClickState {
	return e.Buttons[b]
}

func (e *Events) LeftClicked() bool { return e.Buttons[ButtonLeft] == MouseClicked }
func (e *Events) LeftHeld() bool    { return e.Buttons[ButtonLeft] == MouseHeld }

// SetMouse stores the pointer position in normalized device coordinates.
func (e *Events) SetMouse(ndc math.Vec2) {
	e.ScreenMouse = ndc
}

// UpdateWorldMouse offsets the screen mouse by the camera position.
func (e *Events) UpdateWorldMouse(cam *camera.Camera) {
	e.WorldMouse = e.ScreenMouse.Add(cam.Position.XY())
}

// UpdateAspectRatio stores width / height. A zero height is ignored.
func (e *Events) UpdateAspectRatio(width, height int) {
	if height <= 0 {
		return
	}
	e.AspectRatio = float32(width) / float32(height)
}

// CalculateMouseRay updates MouseRay from the current screen mouse.
func (e *Events) CalculateMouseRay(proj, view math.Mat4) {
	e.MouseRay = picking.MouseRayDirection(e.ScreenMouse, proj, view)
}

// NextFrame clears key edges and advances every button's click state.
func (e *Events) NextFrame() {
	e.ClearKeys()
	for i := range e.Buttons {
		e.Buttons[i] = e.Buttons[i].next()
	}
}
