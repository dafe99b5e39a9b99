package frame

import (
	"testing"

	"github.com/Faultbox/batchforge/internal/engine/camera"
	"github.com/Faultbox/batchforge/pkg/math"
)

func TestKeys(t *testing.T) {
	e := NewEvents()
	e.PushKey(4, KeyPressed)
	e.PushKey(5, KeyReleased)
	e.PushKey(4, KeyReleased)

	if !e.IsKeyPressed(4) {
		t.Error("first event for key 4 was a press")
	}
	if e.IsKeyReleased(4) {
		t.Error("only the first event for a key counts")
	}
	if !e.IsKeyReleased(5) || e.IsKeyPressed(5) {
		t.Error("key 5 should read as released")
	}
	if _, ok := e.KeyState(6); ok {
		t.Error("key 6 was never seen")
	}

	e.NextFrame()
	if len(e.Keys()) != 0 || e.IsKeyPressed(4) {
		t.Error("keys survived NextFrame")
	}
}

func TestClickStateMachine(t *testing.T) {
	e := NewEvents()
	steps := []struct {
		action func()
		want   ClickState
	}{
		{func() { e.Press(ButtonLeft) }, MouseClicked},
		{e.NextFrame, MouseHeld},
		{e.NextFrame, MouseHeld},
		{func() { e.Release(ButtonLeft) }, MouseReleased},
		{e.NextFrame, MouseNotHeld},
		{e.NextFrame, MouseNotHeld},
	}
	for i, s := range steps {
		s.action()
		if got := e.Button(ButtonLeft); got != s.want {
			t.Fatalf("step %d: state = %v, want %v", i, got, s.want)
		}
	}
}

func TestButtonsIndependent(t *testing.T) {
	e := NewEvents()
	e.Press(ButtonRight)
	e.NextFrame()

	if e.Button(ButtonRight) != MouseHeld {
		t.Errorf("right = %v, want held", e.Button(ButtonRight))
	}
	if e.Button(ButtonLeft) != MouseNotHeld || e.LeftHeld() {
		t.Error("right button changed the left button's state")
	}

	e.Press(ButtonLeft)
	if !e.LeftClicked() {
		t.Error("LeftClicked should be true right after a press")
	}
}

func TestWorldMouse(t *testing.T) {
	e := NewEvents()
	e.SetMouse(math.Vec2{X: 0.5, Y: -0.5})
	e.UpdateWorldMouse(camera.New(math.Vec3{X: 10, Y: 20, Z: 30}, 0, 0))

	if e.WorldMouse != (math.Vec2{X: 10.5, Y: 19.5}) {
		t.Errorf("WorldMouse = %v", e.WorldMouse)
	}
}

func TestAspectRatio(t *testing.T) {
	e := NewEvents()
	if e.AspectRatio != 1 {
		t.Errorf("default aspect = %v", e.AspectRatio)
	}
	e.UpdateAspectRatio(1920, 1080)
	if e.AspectRatio < 1.777 || e.AspectRatio > 1.778 {
		t.Errorf("aspect = %v", e.AspectRatio)
	}
	e.UpdateAspectRatio(100, 0)
	if e.AspectRatio < 1.777 {
		t.Error("zero height changed the aspect ratio")
	}
}
