package input

import "wgpu_lessons/camera"

// Receiver is anything that can take camera key steps and mouse deltas.
type Receiver interface {
	HandleKey(key camera.Key)
	HandleMouseMotion(dx, dy float32)
}

// Holder tracks held keys for time-scaled movement.
type Holder interface {
	Press(key camera.Key)
	Release(key camera.Key)
}

type resizer interface {
	Resize(width, height int)
}

// Result summarizes one dispatched batch.
type Result struct {
	Quit bool
	// Moved is set when the batch had mouse motion and the cursor should be
	// re-centered.
	Moved   bool
	Resized bool
}

// Dispatcher routes batches of events to a Receiver. Mouse positions are
// turned into deltas from the viewport center, where the cursor must be
// at the start of every batch.
type Dispatcher struct {
	// Continuous routes KeyDown/KeyUp to Press/Release when the receiver
	// is a Holder; otherwise each KeyDown, repeats included, is one step.
	Continuous bool

	width, height int
}

func NewDispatcher(width, height int, continuous bool) *Dispatcher {
	return &Dispatcher{Continuous: continuous, width: width, height: height}
}

// Center returns the cursor position that produces a zero delta.
func (d *Dispatcher) Center() (x, y float64) {
	return float64(d.width) / 2, float64(d.height) / 2
}

func (d *Dispatcher) Dispatch(events []Event, r Receiver) Result {
	var res Result
	holder, canHold := r.(Holder)
	hold := d.Continuous && canHold

	// The cursor sits at the center when the batch starts; later motion
	// events in the same batch are measured from the previous position.
	lastX, lastY := d.Center()

	for _, e := range events {
		switch e := e.(type) {
		case Quit:
			res.Quit = true
		case KeyDown:
			if hold {
				if !e.Repeat {
					holder.Press(e.Key)
				}
				continue
			}
			r.HandleKey(e.Key)
		case KeyUp:
			if hold {
				holder.Release(e.Key)
			}
		case MouseMotion:
			r.HandleMouseMotion(float32(e.X-lastX), float32(e.Y-lastY))
			lastX, lastY = e.X, e.Y
			res.Moved = true
		case Resize:
			// Positions already reported stay relative to the old center.
			d.width, d.height = e.Width, e.Height
			if rs, ok := r.(resizer); ok {
				rs.Resize(e.Width, e.Height)
			}
			res.Resized = true
		}
	}
	return res
}
