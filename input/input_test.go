package input

import (
	"testing"

	"github.com/EngoEngine/glm"
	"github.com/go-gl/glfw/v3.3/glfw"

	"wgpu_lessons/camera"
)

type recorder struct {
	keys    []camera.Key
	deltas  [][2]float32
	pressed map[camera.Key]bool
	w, h    int
}

func (r *recorder) HandleKey(key camera.Key) { r.keys = append(r.keys, key) }

func (r *recorder) HandleMouseMotion(dx, dy float32) {
	r.deltas = append(r.deltas, [2]float32{dx, dy})
}

func (r *recorder) Resize(w, h int) { r.w, r.h = w, h }

type holdingRecorder struct {
	recorder
}

func (r *holdingRecorder) Press(key camera.Key) {
	if r.pressed == nil {
		r.pressed = map[camera.Key]bool{}
	}
	r.pressed[key] = true
}

func (r *holdingRecorder) Release(key camera.Key) { delete(r.pressed, key) }

func TestQueuePollDrains(t *testing.T) {
	var q Queue
	q.Push(KeyDown{Key: camera.KeyForward})
	q.Push(Quit{})
	if q.Len() != 2 {
		t.Fatalf("expected 2 queued events, got %d", q.Len())
	}
	events := q.Poll()
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
	}
	if q.Len() != 0 || len(q.Poll()) != 0 {
		t.Error("expected queue to be empty after Poll")
	}
}

func TestDispatchStepMode(t *testing.T) {
	d := NewDispatcher(700, 700, false)
	r := &recorder{}
	res := d.Dispatch([]Event{
		KeyDown{Key: camera.KeyForward},
		KeyDown{Key: camera.KeyForward, Repeat: true},
		KeyUp{Key: camera.KeyForward},
		MouseMotion{X: 360, Y: 340},
	}, r)

	if len(r.keys) != 2 {
		t.Errorf("expected press and repeat to step twice, got %v", r.keys)
	}
	if len(r.deltas) != 1 || r.deltas[0] != [2]float32{10, -10} {
		t.Errorf("expected delta (10,-10), got %v", r.deltas)
	}
	if res.Quit || !res.Moved || res.Resized {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestDispatchContinuousMode(t *testing.T) {
	d := NewDispatcher(700, 700, true)
	r := &holdingRecorder{}
	d.Dispatch([]Event{
		KeyDown{Key: camera.KeyLeft},
		KeyDown{Key: camera.KeyUp},
		KeyDown{Key: camera.KeyUp, Repeat: true},
		KeyUp{Key: camera.KeyUp},
	}, r)
	if len(r.keys) != 0 {
		t.Errorf("continuous mode should not step, got %v", r.keys)
	}
	if !r.pressed[camera.KeyLeft] || r.pressed[camera.KeyUp] {
		t.Errorf("unexpected held set %v", r.pressed)
	}
}

func TestDispatchContinuousFallsBackToSteps(t *testing.T) {
	d := NewDispatcher(700, 700, true)
	r := &recorder{}
	d.Dispatch([]Event{KeyDown{Key: camera.KeyBack}}, r)
	if len(r.keys) != 1 {
		t.Errorf("receiver without Press/Release should get steps, got %v", r.keys)
	}
}

func TestDispatchResizeRecenters(t *testing.T) {
	d := NewDispatcher(700, 700, false)
	r := &recorder{}
	res := d.Dispatch([]Event{
		Resize{Width: 800, Height: 600},
		MouseMotion{X: 400, Y: 300},
		Quit{},
	}, r)
	if !res.Resized || !res.Quit {
		t.Errorf("unexpected result %+v", res)
	}
	if r.w != 800 || r.h != 600 {
		t.Errorf("receiver not resized: %dx%d", r.w, r.h)
	}
	// The cursor was still at the old center when it moved.
	if r.deltas[0] != [2]float32{50, -50} {
		t.Errorf("expected delta (50,-50) from the old center, got %v", r.deltas[0])
	}
	if x, y := d.Center(); x != 400 || y != 300 {
		t.Errorf("expected center (400,300), got (%v,%v)", x, y)
	}

	d.Dispatch([]Event{MouseMotion{X: 400, Y: 300}}, r)
	if r.deltas[1] != [2]float32{0, 0} {
		t.Errorf("expected zero delta at new center, got %v", r.deltas[1])
	}
}

func TestDispatchMotionWithinBatch(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   [][2]float32
	}{
		{
			name:   "two steps right",
			events: []Event{MouseMotion{X: 360, Y: 350}, MouseMotion{X: 370, Y: 350}},
			want:   [][2]float32{{10, 0}, {10, 0}},
		},
		{
			name: "out and back",
			events: []Event{
				MouseMotion{X: 350, Y: 330},
				MouseMotion{X: 340, Y: 330},
				MouseMotion{X: 350, Y: 350},
			},
			want: [][2]float32{{0, -20}, {-10, 0}, {10, 20}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(700, 700, false)
			r := &recorder{}
			d.Dispatch(tt.events, r)
			if len(r.deltas) != len(tt.want) {
				t.Fatalf("got %d deltas, want %d", len(r.deltas), len(tt.want))
			}
			for i := range tt.want {
				if r.deltas[i] != tt.want[i] {
					t.Errorf("delta %d = %v, want %v", i, r.deltas[i], tt.want[i])
				}
			}
		})
	}
}

// A movement split across callbacks turns the camera as far as the same
// movement reported once.
func TestDispatchSplitMotionMatchesSingle(t *testing.T) {
	split := camera.New(700, 700, glm.Vec3{0, 0, 2})
	NewDispatcher(700, 700, false).Dispatch([]Event{
		MouseMotion{X: 360, Y: 350},
		MouseMotion{X: 370, Y: 350},
	}, split)

	single := camera.New(700, 700, glm.Vec3{0, 0, 2})
	NewDispatcher(700, 700, false).Dispatch([]Event{MouseMotion{X: 370, Y: 350}}, single)

	for i := 0; i < 3; i++ {
		if diff := split.Orientation[i] - single.Orientation[i]; diff > 1e-5 || diff < -1e-5 {
			t.Fatalf("split orientation %v, single %v", split.Orientation, single.Orientation)
		}
	}
}

func TestDefaultKeymap(t *testing.T) {
	m := DefaultKeymap()
	tests := map[glfw.Key]camera.Key{
		glfw.KeyW:         camera.KeyForward,
		glfw.KeyS:         camera.KeyBack,
		glfw.KeyA:         camera.KeyLeft,
		glfw.KeyD:         camera.KeyRight,
		glfw.KeySpace:     camera.KeyUp,
		glfw.KeyLeftShift: camera.KeyDown,
		glfw.KeyQ:         camera.KeyNone,
	}
	for k, want := range tests {
		if got := m.Lookup(k); got != want {
			t.Errorf("Lookup(%d) = %v, want %v", k, got, want)
		}
	}
}

func TestParseGLFWKey(t *testing.T) {
	tests := []struct {
		name string
		key  glfw.Key
		ok   bool
	}{
		{"W", glfw.KeyW, true},
		{"z", glfw.KeyZ, true},
		{"5", glfw.Key5, true},
		{"Space", glfw.KeySpace, true},
		{" LeftShift ", glfw.KeyLeftShift, true},
		{"Hyper", glfw.KeyUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := ParseGLFWKey(tt.name)
			if (err == nil) != tt.ok {
				t.Fatalf("unexpected error state: %v", err)
			}
			if k != tt.key {
				t.Errorf("expected %d, got %d", tt.key, k)
			}
		})
	}
}

func TestParseKeymap(t *testing.T) {
	m, err := ParseKeymap(map[string]string{"forward": "Up", "back": "Down"})
	if err != nil {
		t.Fatal(err)
	}
	if m.Lookup(glfw.KeyUp) != camera.KeyForward || m.Lookup(glfw.KeyDown) != camera.KeyBack {
		t.Errorf("overrides not applied: %v", m)
	}
	if m.Lookup(glfw.KeyW) != camera.KeyNone {
		t.Error("replaced default should be unbound")
	}
	if m.Lookup(glfw.KeyA) != camera.KeyLeft {
		t.Error("untouched default should remain")
	}

	if _, err := ParseKeymap(map[string]string{"jump": "J"}); err == nil {
		t.Error("expected error for unknown movement")
	}
	if _, err := ParseKeymap(map[string]string{"forward": "A"}); err == nil {
		t.Error("expected error for key bound twice")
	}
}
