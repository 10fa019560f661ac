// Package input turns window callbacks into a per-frame batch of typed
// events and routes them to anything that can receive key and mouse input.
package input

import "wgpu_lessons/camera"

type Event interface {
	event()
}

// Quit asks the frame loop to stop after the current batch.
type Quit struct{}

type KeyDown struct {
	Key    camera.Key
	Repeat bool
}

type KeyUp struct {
	Key camera.Key
}

// MouseMotion carries the absolute cursor position in window pixels.
type MouseMotion struct {
	X, Y float64
}

type Resize struct {
	Width, Height int
}

func (Quit) event()        {}
func (KeyDown) event()     {}
func (KeyUp) event()       {}
func (MouseMotion) event() {}
func (Resize) event()      {}

// Queue collects events between polls. Window callbacks run on the thread
// that polls, so no locking is needed.
type Queue struct {
	events []Event
}

func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Poll returns everything pushed since the last call and empties the queue.
func (q *Queue) Poll() []Event {
	events := q.events
	q.events = nil
	return events
}

func (q *Queue) Len() int {
	return len(q.events)
}
