package mirror

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/EngoEngine/glm"
	"github.com/sony/gobreaker"

	"wgpu_lessons/camera"
	"wgpu_lessons/logging"
)

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte("not gob")); err == nil {
		t.Fatal("expected error")
	}
}

func TestEncodeKeepsPose(t *testing.T) {
	want := Message{Frame: 7, Pose: camera.Pose{
		Position:    glm.Vec3{1, 2, 3},
		Orientation: glm.Vec3{0, 0, -1},
	}}
	data, err := Encode(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	s := NewServer(logging.Discard())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return s, strings.TrimPrefix(ts.URL, "http://")
}

func TestBroadcast(t *testing.T) {
	s, host := startServer(t)

	if err := s.Broadcast(camera.Pose{}); err != nil {
		t.Fatalf("broadcast without clients: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, host)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.ID != 0 {
		t.Errorf("first client id = %d", c.ID)
	}
	if n := s.Clients(); n != 1 {
		t.Fatalf("Clients() = %d, want 1", n)
	}

	pose := camera.Pose{Position: glm.Vec3{0, 0, 2}, Orientation: glm.Vec3{0, 0, -1}}
	got := make(chan Message, 1)
	go c.Recv(func(m Message) {
		select {
		case got <- m:
		default:
		}
	})
	if err := s.Broadcast(pose); err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-got:
		if m.Pose != pose {
			t.Errorf("pose = %+v, want %+v", m.Pose, pose)
		}
		if m.Frame != 1 {
			t.Errorf("frame = %d, want 1", m.Frame)
		}
	case <-ctx.Done():
		t.Fatal("no pose received")
	}
}

func TestClientDisconnect(t *testing.T) {
	s, host := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, host)
	if err != nil {
		t.Fatal(err)
	}
	c.Close()

	for s.Clients() != 0 {
		if ctx.Err() != nil {
			t.Fatal("closed client still registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDialRetryTripsBreaker(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	host := ln.Addr().String()
	ln.Close()

	cb := NewBreaker(logging.Discard(), 2, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err = DialRetry(ctx, cb, host, 10*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if cb.State() != gobreaker.StateOpen {
		t.Errorf("breaker state = %v, want open", cb.State())
	}
}

func TestServeStopsWithContext(t *testing.T) {
	s := NewServer(logging.Discard())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dcancel()
	c, err := Dial(dctx, ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-dctx.Done():
		t.Fatal("Serve did not return")
	}
}

func TestBroadcastDropsStalledClient(t *testing.T) {
	s := NewServer(logging.Discard())
	// Nothing drains this client's queue.
	stalled := &client{send: make(chan []byte, 1), done: make(chan struct{})}
	s.clients[0] = stalled

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			s.Broadcast(camera.Pose{})
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a stalled client")
	}

	if n := s.Clients(); n != 0 {
		t.Errorf("Clients() = %d, want stalled client dropped", n)
	}
	select {
	case <-stalled.done:
	default:
		t.Error("stalled client was not stopped")
	}
}

func TestWatchEndsWithContext(t *testing.T) {
	_, host := startServer(t)
	dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dcancel()
	c, err := Dial(dctx, host)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, func(Message) {}) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch = %v, want context.Canceled", err)
		}
	case <-dctx.Done():
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchEndsWithServer(t *testing.T) {
	s, host := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, host)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, func(Message) {}) }()
	s.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch = %v, want nil on normal close", err)
		}
	case <-ctx.Done():
		t.Fatal("Watch did not return after server close")
	}
}
