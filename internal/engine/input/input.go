// Package input pumps SDL2 events into the per-frame event state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/batchforge/internal/engine/frame"
	"github.com/Faultbox/batchforge/internal/engine/picking"
	"github.com/Faultbox/batchforge/internal/logger"
)

// Keys used by the app loop.
const (
	KeyEscape = frame.Key(sdl.SCANCODE_ESCAPE)
	KeyF1     = frame.Key(sdl.SCANCODE_F1)
	KeyF12    = frame.Key(sdl.SCANCODE_F12)
	KeyW      = frame.Key(sdl.SCANCODE_W)
	KeyA      = frame.Key(sdl.SCANCODE_A)
	KeyS      = frame.Key(sdl.SCANCODE_S)
	KeyD      = frame.Key(sdl.SCANCODE_D)
	KeyQ      = frame.Key(sdl.SCANCODE_Q)
	KeyE      = frame.Key(sdl.SCANCODE_E)
)

// Input translates SDL events for one window.
type Input struct {
	width, height int
	log           *zap.Logger
}

// New creates an input pump for a window of the given size.
func New(width, height int) *Input {
	return &Input{width: width, height: height, log: logger.Named("input")}
}

// Pump drains the SDL queue into ctx.Events. It returns false once the
// user asked to quit.
func (in *Input) Pump(ctx *frame.Context) bool {
	running := true
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			running = false

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				in.width, in.height = int(e.Data1), int(e.Data2)
				ctx.Resize(in.width, in.height)
				in.log.Debug("window resized", zap.Int("width", in.width), zap.Int("height", in.height))
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			state := frame.KeyPressed
			if e.Type == sdl.KEYUP {
				state = frame.KeyReleased
			}
			ctx.Events.PushKey(frame.Key(e.Keysym.Scancode), state)

		case *sdl.MouseMotionEvent:
			ctx.Events.SetMouse(picking.NormalizeMouse(float32(e.X), float32(e.Y), in.width, in.height))

		case *sdl.MouseButtonEvent:
			b, ok := button(e.Button)
			if !ok {
				continue
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ctx.Events.Press(b)
			} else {
				ctx.Events.Release(b)
			}
		}
	}
	return running
}

// Size returns the last known window size.
func (in *Input) Size() (int, int) {
	return in.width, in.height
}

func button(b uint8) (frame.MouseButton, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return frame.ButtonLeft, true
	case sdl.BUTTON_MIDDLE:
		return frame.ButtonMiddle, true
	case sdl.BUTTON_RIGHT:
		return frame.ButtonRight, true
	}
	return 0, false
}
