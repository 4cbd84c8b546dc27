// Package sensorbridge streams device orientation from a phone to the viewer.
// The phone opens the page served by the bridge, which reports its platform,
// asks for motion access when told to and forwards deviceorientation events
// over a websocket. The bridge is a control.SensorSource.
package sensorbridge

import (
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-explorer/engine/control"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/ttacon/chalk"
)

// ErrNoClient is returned when no phone is connected.
var ErrNoClient = errors.New("sensorbridge: no phone connected")

//go:embed sensor.html
var sensorPage []byte

const (
	writeWait   = 5 * time.Second
	sendBacklog = 16
)

type serverImpl struct {
	mu *sync.Mutex

	addr     string
	certFile string
	keyFile  string

	logWriter io.Writer
	onChange  func()

	router     *mux.Router
	upgrader   websocket.Upgrader
	httpServer *http.Server

	clients []*client // connection order, the last one is active
	fn      func(control.OrientationSample)
}

// Server is the phone-facing side of the bridge.
type Server interface {
	control.SensorSource

	// Handler returns the HTTP handler serving the phone page and the websocket.
	//
	// Returns:
	//   - http.Handler: the bridge router
	Handler() http.Handler

	// ListenAndServe serves until ctx is done or the listener fails. TLS is used
	// when a certificate pair is configured.
	//
	// Parameters:
	//   - ctx: stops the server when done
	//
	// Returns:
	//   - error: the listener failure, nil after a clean stop
	ListenAndServe(ctx context.Context) error

	// Clients returns the number of connected phones.
	//
	// Returns:
	//   - int: connected phone count
	Clients() int

	// Close disconnects every phone and stops the listener.
	Close()
}

var _ Server = &serverImpl{}

// NewServer creates a bridge. It does not listen until ListenAndServe; Handler can
// be mounted on another server instead.
//
// Parameters:
//   - options: functional options to configure the server
//
// Returns:
//   - Server: the bridge
func NewServer(options ...ServerBuilderOption) Server {
	s := &serverImpl{
		mu:        &sync.Mutex{},
		addr:      ":8443",
		logWriter: os.Stdout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, option := range options {
		option(s)
	}

	router := mux.NewRouter()
	router.Handle("/", handlers.CombinedLoggingHandler(s.logWriter,
		http.HandlerFunc(s.handlePage),
	)).Methods("GET")
	router.Handle("/ws", handlers.CombinedLoggingHandler(s.logWriter,
		http.HandlerFunc(s.handleWebsocket),
	)).Methods("GET")
	s.router = router

	return s
}

func (s *serverImpl) Handler() http.Handler {
	return s.router
}

func (s *serverImpl) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	secure := s.certFile != "" && s.keyFile != ""
	errCh := make(chan error, 1)
	go func() {
		if secure {
			errCh <- srv.ListenAndServeTLS(s.certFile, s.keyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	scheme := "http"
	if secure {
		scheme = "https"
	}
	log.Print(chalk.Green)
	log.Printf("[Bridge] open %s://<this machine>%s on the phone", scheme, s.addr)
	log.Print(chalk.Reset)
	if !secure {
		log.Print(chalk.Yellow)
		log.Println("[Bridge] serving without TLS: phones will refuse motion access")
		log.Print(chalk.Reset)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "listen on %s", s.addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	}
}

func (s *serverImpl) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *serverImpl) Close() {
	s.mu.Lock()
	clients := append([]*client(nil), s.clients...)
	srv := s.httpServer
	s.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	if srv != nil {
		srv.Close()
	}
}

// --- control.SensorSource ---

func (s *serverImpl) Platform() control.Platform {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.activeLocked(); c != nil && c.hello {
		return c.platform
	}
	return control.Platform{}
}

func (s *serverImpl) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeLocked()
	return c != nil && c.hello
}

// RequestPermission asks the active phone to show its motion-access prompt and
// waits for the answer.
func (s *serverImpl) RequestPermission(ctx context.Context) (bool, error) {
	s.mu.Lock()
	c := s.activeLocked()
	if c == nil || !c.hello {
		s.mu.Unlock()
		return false, ErrNoClient
	}
	select {
	case <-c.perm:
	default:
	}
	s.mu.Unlock()

	if !c.enqueue(command(TypePermissionRequest)) {
		return false, errors.Wrap(ErrNoClient, "send permission request")
	}

	select {
	case m := <-c.perm:
		if m.Error != "" {
			return false, errors.Errorf("phone %s: %s", c.id, m.Error)
		}
		return m.Granted, nil
	case <-c.done:
		return false, ErrNoClient
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (s *serverImpl) Subscribe(fn func(control.OrientationSample)) {
	s.mu.Lock()
	s.fn = fn
	c := s.activeLocked()
	s.mu.Unlock()
	if c != nil {
		c.enqueue(command(TypeSubscribe))
	}
}

func (s *serverImpl) Unsubscribe() {
	s.mu.Lock()
	s.fn = nil
	c := s.activeLocked()
	s.mu.Unlock()
	if c != nil {
		c.enqueue(command(TypeUnsubscribe))
	}
}

// --- http ---

func (s *serverImpl) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(sensorPage)
}

func (s *serverImpl) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("[Bridge] upgrade: ", err)
		return
	}

	c := newClient(uuid.Must(uuid.NewV4()).String(), conn)
	previous := s.register(c)
	if previous != nil {
		previous.enqueue(command(TypeUnsubscribe))
	}
	log.Printf("[Bridge] phone %s connected from %s", c.id, r.RemoteAddr)

	go c.writePump()
	defer func() {
		s.unregister(c)
		c.close()
		log.Printf("[Bridge] phone %s disconnected", c.id)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Bridge] phone %s: %v", c.id, err)
			}
			return
		}
		s.dispatch(c, data)
	}
}

func (s *serverImpl) dispatch(c *client, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("[Bridge] phone %s sent malformed frame: %v", c.id, err)
		return
	}

	switch env.Type {
	case TypeHello:
		var m HelloMessage
		if err := json.Unmarshal(data, &m); err != nil {
			log.Printf("[Bridge] phone %s sent malformed hello: %v", c.id, err)
			return
		}
		s.mu.Lock()
		c.platform = m.Platform.Platform()
		c.hello = true
		resubscribe := s.activeLocked() == c && s.fn != nil
		s.mu.Unlock()
		log.Printf("[Bridge] phone %s platform %+v", c.id, m.Platform)
		if resubscribe {
			c.enqueue(command(TypeSubscribe))
		}
		s.changed()

	case TypePermission:
		var m PermissionMessage
		if err := json.Unmarshal(data, &m); err != nil {
			log.Printf("[Bridge] phone %s sent malformed permission: %v", c.id, err)
			return
		}
		select {
		case c.perm <- m:
		default:
		}

	case TypeOrientation:
		var m OrientationMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return
		}
		s.mu.Lock()
		fn := s.fn
		if s.activeLocked() != c {
			fn = nil
		}
		s.mu.Unlock()
		if fn != nil {
			fn(m.Sample())
		}

	default:
		log.Printf("[Bridge] phone %s sent unknown message %q", c.id, env.Type)
	}
}

// activeLocked returns the most recently connected phone. Caller must hold the mutex.
func (s *serverImpl) activeLocked() *client {
	if len(s.clients) == 0 {
		return nil
	}
	return s.clients[len(s.clients)-1]
}

// register makes c the active phone and returns the one it replaces.
func (s *serverImpl) register(c *client) *client {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.activeLocked()
	s.clients = append(s.clients, c)
	return previous
}

func (s *serverImpl) unregister(c *client) {
	s.mu.Lock()
	wasActive := s.activeLocked() == c
	for i, other := range s.clients {
		if other == c {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			break
		}
	}
	next := s.activeLocked()
	resubscribe := wasActive && next != nil && next.hello && s.fn != nil
	s.mu.Unlock()

	if resubscribe {
		next.enqueue(command(TypeSubscribe))
	}
	s.changed()
}

func (s *serverImpl) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

type client struct {
	id   string
	conn *websocket.Conn

	send chan []byte
	perm chan PermissionMessage
	done chan struct{}
	once sync.Once

	// guarded by the server mutex
	platform control.Platform
	hello    bool
}

func newClient(id string, conn *websocket.Conn) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBacklog),
		perm: make(chan PermissionMessage, 1),
		done: make(chan struct{}),
	}
}

// enqueue queues msg for the write pump without blocking. Returns false if the
// phone is gone or its backlog is full.
func (c *client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		log.Print(chalk.Yellow)
		log.Printf("[Bridge] phone %s backlog full, dropping message", c.id)
		log.Print(chalk.Reset)
		return false
	}
}

// writePump is the only writer on the connection.
func (c *client) writePump() {
	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
