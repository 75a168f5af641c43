//go:build !wasm
// +build !wasm

// Package live pushes diagrams to preview browsers over websockets. Every
// connection owns a diagram element sized to the client's box.
package live

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/recera/dotrender/pkg/diagram"
	"github.com/recera/dotrender/pkg/renderer/html"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 16
)

// Server handles websocket connections of preview clients
type Server struct {
	upgrader websocket.Upgrader
	renderer diagram.Renderer
	observer diagram.Observer
	log      *zap.Logger

	mu         sync.RWMutex
	sessions   map[string]*Session
	content    string
	hasContent bool
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithObserver receives the render events of every session
func WithObserver(o diagram.Observer) Option {
	return func(s *Server) { s.observer = o }
}

// WithCheckOrigin overrides the origin check of the websocket upgrade
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// NewServer creates a live preview server rendering through r
func NewServer(r diagram.Renderer, opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		renderer: r,
		log:      zap.NewNop(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServeHTTP upgrades the request and runs a session until the client leaves
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	session := s.newSession(conn)
	s.log.Info("session opened", zap.String("session", session.ID))

	session.run()

	s.removeSession(session.ID)
	s.log.Info("session closed", zap.String("session", session.ID))
}

// Broadcast sets the diagram content of every current and future session
func (s *Server) Broadcast(content string) {
	s.mu.Lock()
	s.content = content
	s.hasContent = true
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.Unlock()

	for _, session := range sessions {
		session.element.SetContent(content)
	}
}

// SessionCount returns the number of connected clients
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close disconnects every client
func (s *Server) Close() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.Unlock()

	for _, session := range sessions {
		session.close()
	}
}

func (s *Server) newSession(conn *websocket.Conn) *Session {
	session := &Session{
		ID:     uuid.NewString(),
		conn:   conn,
		target: html.NewTarget("dot-render"),
		send:   make(chan Message, sendBuffer),
		done:   make(chan struct{}),
	}
	session.log = s.log.With(zap.String("session", session.ID))
	session.element = diagram.New(s.renderer, session.target,
		diagram.WithLogger(session.log),
		diagram.WithObserver(func(ev diagram.Event) {
			session.onEvent(ev)
			if s.observer != nil {
				s.observer(ev)
			}
		}))

	s.mu.Lock()
	s.sessions[session.ID] = session
	content, ok := s.content, s.hasContent
	s.mu.Unlock()

	session.enqueue(Message{Type: TypeHello, Session: session.ID})
	if ok {
		session.element.SetContent(content)
	}
	return session
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
