package mirror

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"

	"wgpu_lessons/logging"
)

type Client struct {
	ID   int
	conn *websocket.Conn
}

// NewBreaker trips after maxFails consecutive failed dials and stays open
// for timeout before a trial dial is let through.
func NewBreaker(log *logging.Logger, maxFails uint32, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mirror-dial",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// URL builds the websocket address of a mirror listening on host.
func URL(host string) string {
	u := url.URL{Scheme: "ws", Host: host, Path: Path}
	return u.String()
}

// Dial connects to the mirror at host and reads the id greeting.
func Dial(ctx context.Context, host string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, URL(host), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", host, err)
	}
	_, message, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read greeting: %w", err)
	}
	id, err := strconv.Atoi(string(message))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("bad greeting %q: %w", message, err)
	}
	return &Client{ID: id, conn: conn}, nil
}

// DialRetry keeps dialing through cb until it connects or ctx is done.
// While the breaker is open attempts fail fast and the loop waits out delay.
func DialRetry(ctx context.Context, cb *gobreaker.CircuitBreaker, host string, delay time.Duration) (*Client, error) {
	for {
		v, err := cb.Execute(func() (interface{}, error) {
			return Dial(ctx, host)
		})
		if err == nil {
			return v.(*Client), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Recv calls f for every pose until the connection closes. A normal close
// returns nil.
func (c *Client) Recv(f func(Message)) error {
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		m, err := Decode(data)
		if err != nil {
			return err
		}
		f(m)
	}
}

// Watch is Recv that also ends when ctx is done, by closing the
// connection. It returns ctx.Err() in that case.
func (c *Client) Watch(ctx context.Context, f func(Message)) error {
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	err := c.Recv(f)
	if !stop() {
		return ctx.Err()
	}
	return err
}

func (c *Client) Close() error {
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return c.conn.Close()
}
