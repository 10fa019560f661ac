// Package camera implements a free first-person camera: an eye position and
// a look direction driven by key steps and mouse deltas, producing a
// view-projection matrix per frame.
package camera

import (
	"errors"

	"github.com/EngoEngine/glm"
	"github.com/EngoEngine/math"
)

const (
	DefaultSpeed       = 0.1
	DefaultSensitivity = 100
)

// degenerateAxis is the squared length under which orientation × up is
// treated as the zero vector.
const degenerateAxis = 1e-12

var (
	ErrInvalidClip        = errors.New("camera: near must be > 0 and far must be > near")
	ErrInvalidFOV         = errors.New("camera: field of view must be within (0, 180) degrees")
	ErrDegenerateViewport = errors.New("camera: viewport has a zero dimension")
)

// UniformSink receives a named 4x4 matrix for the active shader program.
type UniformSink interface {
	SetMat4(name string, m glm.Mat4) error
}

// Pose is a snapshot of where the camera is and where it looks.
type Pose struct {
	Position    glm.Vec3
	Orientation glm.Vec3
}

type Camera struct {
	Position    glm.Vec3 // Eye position
	Orientation glm.Vec3 // Unit look direction
	Up          glm.Vec3 // Reference up, also the yaw axis

	Width, Height int

	Speed       float32 // World units per step, or per second in Update
	Sensitivity float32 // Degrees per viewport-normalized pixel

	// MaxPitch limits the elevation above or below the horizon, in degrees.
	// Zero leaves pitch unclamped so the camera can roll over the pole.
	MaxPitch float32

	held map[Key]bool
}

func New(width, height int, position glm.Vec3) *Camera {
	return &Camera{
		Position:    position,
		Orientation: glm.Vec3{0, 0, -1},
		Up:          glm.Vec3{0, 1, 0},
		Width:       width,
		Height:      height,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
		held:        map[Key]bool{},
	}
}

// Resize updates the viewport used for the aspect ratio and mouse scaling.
func (c *Camera) Resize(width, height int) {
	c.Width = width
	c.Height = height
}

func (c *Camera) Pose() Pose {
	return Pose{Position: c.Position, Orientation: c.Orientation}
}

// right returns normalize(orientation × up). It reports false when the two
// are parallel and the cross product cannot be normalized.
func (c *Camera) right() (glm.Vec3, bool) {
	axis := c.Orientation.Cross(&c.Up)
	if axis.Dot(&axis) < degenerateAxis {
		return glm.Vec3{}, false
	}
	return axis.Normalized(), true
}

func (c *Camera) direction(key Key) (glm.Vec3, bool) {
	switch key {
	case KeyForward:
		return c.Orientation, true
	case KeyBack:
		return c.Orientation.Mul(-1), true
	case KeyLeft:
		r, ok := c.right()
		return r.Mul(-1), ok
	case KeyRight:
		return c.right()
	case KeyUp:
		return c.Up, true
	case KeyDown:
		return c.Up.Mul(-1), true
	}
	return glm.Vec3{}, false
}

func (c *Camera) move(key Key, dist float32) {
	dir, ok := c.direction(key)
	if !ok {
		return
	}
	step := dir.Mul(dist)
	c.Position = c.Position.Add(&step)
}

// HandleKey moves the camera one step of Speed. Keys without a movement
// binding are ignored.
func (c *Camera) HandleKey(key Key) {
	c.move(key, c.Speed)
}

// Press marks key as held for Update.
func (c *Camera) Press(key Key) {
	if !key.Valid() {
		return
	}
	if c.held == nil {
		c.held = map[Key]bool{}
	}
	c.held[key] = true
}

func (c *Camera) Release(key Key) {
	delete(c.held, key)
}

// Held reports whether key is currently pressed.
func (c *Camera) Held(key Key) bool {
	return c.held[key]
}

// Update moves the camera by Speed*dt along every held key, so Speed reads
// as world units per second.
func (c *Camera) Update(dt float32) {
	if dt <= 0 {
		return
	}
	for key := KeyForward; key <= KeyDown; key++ {
		if c.held[key] {
			c.move(key, c.Speed*dt)
		}
	}
}

// HandleMouseMotion turns a cursor displacement from the viewport center
// into a pitch about the camera's right axis followed by a yaw about Up.
// Both axes come from the orientation before the event. The event is
// dropped when the viewport is empty or the orientation is parallel to Up.
func (c *Camera) HandleMouseMotion(dx, dy float32) {
	if c.Width <= 0 || c.Height <= 0 {
		return
	}
	pitchAxis, ok := c.right()
	if !ok {
		return
	}
	up := c.Up.Normalized()

	pitch := c.Sensitivity * dy / float32(c.Height)
	yaw := c.Sensitivity * dx / float32(c.Width)

	o := c.Orientation
	pitchRot := glm.QuatRotate(radians(-pitch), &pitchAxis)
	pitched := pitchRot.Rotate(&o)
	if c.MaxPitch > 0 && c.exceedsPitch(&o, &pitched, &up) {
		pitched = o
	}

	yawRot := glm.QuatRotate(radians(-yaw), &up)
	rotated := yawRot.Rotate(&pitched)

	n := rotated.Len()
	if !(n > 0) {
		return
	}
	c.Orientation = rotated.Mul(1 / n)
}

// exceedsPitch reports whether next lies further from the horizon than
// MaxPitch and further than prev did.
func (c *Camera) exceedsPitch(prev, next, up *glm.Vec3) bool {
	limit := math.Sin(radians(c.MaxPitch))
	elev := math.Abs(next.Dot(up) / next.Len())
	return elev > limit && elev > math.Abs(prev.Dot(up)/prev.Len())
}

// View is the right-handed look-at matrix from Position along Orientation.
func (c *Camera) View() glm.Mat4 {
	target := c.Position.Add(&c.Orientation)
	return glm.LookAtV(&c.Position, &target, &c.Up)
}

// Aspect returns width/height in floating point.
func (c *Camera) Aspect() (float32, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return 0, ErrDegenerateViewport
	}
	return float32(c.Width) / float32(c.Height), nil
}

// Projection is the right-handed perspective matrix for the current viewport.
func (c *Camera) Projection(fovDeg, near, far float32) (glm.Mat4, error) {
	aspect, err := c.Aspect()
	if err != nil {
		return glm.Mat4{}, err
	}
	return Perspective(fovDeg, aspect, near, far)
}

// ViewProjection returns projection * view. Nothing is cached.
func (c *Camera) ViewProjection(fovDeg, near, far float32) (glm.Mat4, error) {
	proj, err := c.Projection(fovDeg, near, far)
	if err != nil {
		return glm.Mat4{}, err
	}
	view := c.View()
	return proj.Mul4(&view), nil
}

// Upload writes the view-projection matrix into the named uniform of sink.
func (c *Camera) Upload(sink UniformSink, uniform string, fovDeg, near, far float32) error {
	m, err := c.ViewProjection(fovDeg, near, far)
	if err != nil {
		return err
	}
	return sink.SetMat4(uniform, m)
}

// Perspective validates the clip parameters and builds a right-handed
// perspective projection with a vertical field of view in degrees.
func Perspective(fovDeg, aspect, near, far float32) (glm.Mat4, error) {
	if !(fovDeg > 0 && fovDeg < 180) {
		return glm.Mat4{}, ErrInvalidFOV
	}
	if !(near > 0) || !(far > near) {
		return glm.Mat4{}, ErrInvalidClip
	}
	return glm.Perspective(radians(fovDeg), aspect, near, far), nil
}

func radians(deg float32) float32 {
	return deg * math.Pi / 180
}
