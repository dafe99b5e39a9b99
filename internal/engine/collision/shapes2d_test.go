package collision

import (
	"testing"

	"github.com/Faultbox/batchforge/internal/engine/instance"
	"github.com/Faultbox/batchforge/pkg/math"
)

func TestNewBox2DOrdersCorners(t *testing.T) {
	b := NewBox2D(math.Vec2{X: 1, Y: -1}, math.Vec2{X: -1, Y: 1})
	if b.XMin != -1 || b.XMax != 1 || b.YMin != -1 || b.YMax != 1 {
		t.Errorf("box = %+v", b)
	}
	if !b.Enabled {
		t.Error("new box should be enabled")
	}
}

func TestBox2DContainsBoundary(t *testing.T) {
	b := NewBox2D(math.Vec2{X: -1, Y: -1}, math.Vec2{X: 1, Y: 1})

	tests := []struct {
		name string
		p    math.Vec2
		want bool
	}{
		{"center", math.Vec2{}, true},
		{"just inside x_max", math.Vec2{X: 0.999}, true},
		{"on x_max", math.Vec2{X: 1}, false},
		{"just inside y_max", math.Vec2{Y: 0.999}, true},
		{"on y_max", math.Vec2{Y: 1}, false},
		{"on x_min", math.Vec2{X: -1}, false},
		{"on y_min", math.Vec2{Y: -1}, false},
		{"outside", math.Vec2{X: 2, Y: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBox2DCheckCollision(t *testing.T) {
	b := NewBox2D(math.Vec2{X: -0.5, Y: -0.5}, math.Vec2{X: 0.5, Y: 0.5})
	inst := instance.At(math.Vec3{X: 0.2, Y: 0.4})

	tests := []struct {
		name string
		ctx  MouseContext
		want bool
	}{
		// x = 0 + 0.2, y = (0 + 0.4) / 1
		{"inside at aspect 1", MouseContext{AspectRatio: 1}, true},
		// y = (0.4 + 0.4) / 2 = 0.4
		{"aspect divides y only", MouseContext{Mouse: math.Vec2{Y: 0.4}, AspectRatio: 2}, true},
		// y = 0.8 at aspect 1
		{"same mouse at aspect 1 misses", MouseContext{Mouse: math.Vec2{Y: 0.4}, AspectRatio: 1}, false},
		// x = 0.3 + 0.2 lands on x_max
		{"projected onto edge", MouseContext{Mouse: math.Vec2{X: 0.3}, AspectRatio: 1}, false},
		{"zero aspect treated as 1", MouseContext{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.CheckCollision(inst, tt.ctx); got != tt.want {
				t.Errorf("CheckCollision = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCircle2D(t *testing.T) {
	c := NewCircle2D(math.Vec2{X: 1, Y: 1}, 1)

	tests := []struct {
		p    math.Vec2
		want bool
	}{
		{math.Vec2{X: 1, Y: 1}, true},
		{math.Vec2{X: 1.5, Y: 1.5}, true},
		{math.Vec2{X: 2, Y: 1}, false},
		{math.Vec2{X: 0, Y: 0}, false},
	}
	for _, tt := range tests {
		if got := c.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	inst := instance.At(math.Vec3{X: 0.5, Y: 0.5})
	if !c.CheckCollision(inst, MouseContext{Mouse: math.Vec2{X: 0.5, Y: 0.5}, AspectRatio: 1}) {
		t.Error("projected mouse at circle center should collide")
	}
}

func TestDisabled2D(t *testing.T) {
	box := NewBox2D(math.Vec2{X: -1, Y: -1}, math.Vec2{X: 1, Y: 1})
	circle := NewCircle2D(math.Vec2{}, 1)
	ctx := MouseContext{AspectRatio: 1}
	inst := instance.New()

	offInst := inst
	offInst.Enabled = false
	if box.CheckCollision(offInst, ctx) || circle.CheckCollision(offInst, ctx) {
		t.Error("disabled instance collided")
	}

	box.Enabled = false
	circle.Enabled = false
	if box.CheckCollision(inst, ctx) || box.Contains(math.Vec2{}) {
		t.Error("disabled box collided")
	}
	if circle.CheckCollision(inst, ctx) || circle.Contains(math.Vec2{}) {
		t.Error("disabled circle collided")
	}
}
