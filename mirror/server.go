package mirror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"wgpu_lessons/camera"
	"wgpu_lessons/logging"
)

// Path is the websocket route poses are served on.
const Path = "/pose"

const writeWait = time.Second

// Server fans each published pose out to every connected client. A slow
// or broken client is dropped rather than stalling the render loop.
type Server struct {
	log      *logging.Logger
	router   *mux.Router
	upgrader websocket.Upgrader

	lock    sync.Mutex
	clients map[int]*client
	idGen   int
	frame   uint64
}

// client owns one connection; only its writer goroutine writes to it.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// sendBuffer is how many poses a client may fall behind before it is
// dropped.
const sendBuffer = 16

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *client) writeLoop(greeting []byte) {
	defer c.conn.Close()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, greeting); err != nil {
		return
	}
	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

func NewServer(log *logging.Logger) *Server {
	s := &Server{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[int]*client),
	}
	s.router = mux.NewRouter()
	s.router.HandleFunc(Path, s.serveWS).Methods(http.MethodGet)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mirror listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		s.Close()
	}()
	s.log.Info("mirror listening", "addr", ln.Addr().String(), "path", Path)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mirror serve: %w", err)
	}
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("mirror upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(conn)
	s.lock.Lock()
	id := s.idGen
	s.idGen++
	s.clients[id] = c
	s.lock.Unlock()

	// The first message tells the client its id.
	go c.writeLoop([]byte(fmt.Sprintf("%d", id)))
	s.log.Debug("mirror client connected", "client", id, "remote", r.RemoteAddr)

	// Watchers only listen; reading detects the close.
	for {
		mt, _, err := conn.ReadMessage()
		if err != nil || mt == websocket.CloseMessage {
			break
		}
	}
	s.drop(id)
	s.log.Debug("mirror client disconnected", "client", id)
}

func (s *Server) drop(id int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if c, ok := s.clients[id]; ok {
		c.stop()
		delete(s.clients, id)
	}
}

// Clients reports the number of connected watchers.
func (s *Server) Clients() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.clients)
}

// Broadcast queues p for every client without blocking. A client whose
// queue is full is dropped. It is a no-op with no clients.
func (s *Server) Broadcast(p camera.Pose) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.clients) == 0 {
		return nil
	}
	s.frame++
	data, err := Encode(Message{Frame: s.frame, Pose: p})
	if err != nil {
		return err
	}
	for id, c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.log.Debug("mirror client too slow", "client", id)
			c.stop()
			delete(s.clients, id)
		}
	}
	return nil
}

// Close disconnects every client.
func (s *Server) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for id, c := range s.clients {
		c.stop()
		delete(s.clients, id)
	}
}
