package control

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Server exposes the controller over HTTP and websockets.
type Server struct {
	mux        *http.ServeMux
	controller *Controller
	logger     *slog.Logger
	upgrader   websocket.Upgrader

	done     chan struct{}
	doneOnce sync.Once
	clients  sync.WaitGroup
}

// NewServer creates a configured HTTP server.
func NewServer(controller *Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mux:        http.NewServeMux(),
		controller: controller,
		logger:     logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		done: make(chan struct{}),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/topics", s.handleTopics)
	s.mux.HandleFunc("GET /api/colors", s.handleColors)
	s.mux.HandleFunc("POST /api/control", s.handleControl)
	s.mux.HandleFunc("GET /ws", s.handleWebsocket)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("control server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Close disconnects websocket clients and waits for them to finish.
func (s *Server) Close() {
	s.doneOnce.Do(func() { close(s.done) })
	s.clients.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTopics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Topics())
}

func (s *Server) handleColors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Colors())
}

// POST /api/control applies one JSON message.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageSize)

	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, Ack{OK: false, Error: "invalid message: " + err.Error()})
		return
	}

	ack, err := s.apply(msg)
	writeJSON(w, statusFor(err), ack)
}

func (s *Server) apply(msg Message) (Ack, error) {
	ack := Ack{Topic: msg.Topic, OK: true}
	err := s.controller.Apply(msg)
	if err != nil {
		ack.OK = false
		ack.Error = err.Error()
	}
	return ack, err
}

func statusFor(err error) int {
	var ce *wordclock.ConfigError
	var se *types.SinkError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnknownTopic):
		return http.StatusNotFound
	case errors.As(err, &ce), errors.As(err, &se):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// GET /ws upgrades to a websocket that accepts one Message per text frame
// and answers each with an Ack.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &wsClient{
		server:  s,
		conn:    conn,
		send:    make(chan Ack, 16),
		closed:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	s.clients.Add(2)
	go c.writePump()
	go c.readPump()
}

// wsClient is one websocket connection
type wsClient struct {
	server  *Server
	conn    *websocket.Conn
	send    chan Ack
	closed  chan struct{}
	stopped chan struct{}
}

// readPump pumps messages from the websocket connection to the controller
func (c *wsClient) readPump() {
	defer func() {
		close(c.closed)
		c.conn.Close()
		c.server.clients.Done()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Warn("websocket read failed", "err", err)
			}
			return
		}

		var msg Message
		ack := Ack{OK: false}
		if err := json.Unmarshal(data, &msg); err != nil {
			ack.Error = "invalid message: " + err.Error()
		} else {
			ack, _ = c.server.apply(msg)
		}

		select {
		case c.send <- ack:
		case <-c.stopped:
			return
		case <-c.server.done:
			return
		}
	}
}

// writePump pumps acks to the websocket connection and keeps it alive
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.stopped)
		c.conn.Close()
		c.server.clients.Done()
	}()

	for {
		select {
		case <-c.closed:
			return
		case <-c.server.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case ack := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ack); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
