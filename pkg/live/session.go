//go:build !wasm
// +build !wasm

package live

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/recera/dotrender/pkg/diagram"
	"github.com/recera/dotrender/pkg/renderer/html"
)

// Session is one connected preview client
type Session struct {
	ID string

	conn    *websocket.Conn
	element *diagram.Element
	target  *html.Target
	log     *zap.Logger

	send      chan Message
	done      chan struct{}
	closeOnce sync.Once
}

// run starts the writer and reads client messages until the connection ends
func (s *Session) run() {
	defer s.close()

	go s.writer()

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("unexpected close", zap.Error(err))
			}
			return
		}
		s.handle(msg)
	}
}

func (s *Session) handle(msg Message) {
	switch msg.Type {
	case TypeResize:
		s.log.Debug("client resized",
			zap.Float64("width", msg.Width),
			zap.Float64("height", msg.Height))
		s.element.SetWidth(msg.Width)
		s.element.SetHeight(msg.Height)
	default:
		s.log.Debug("ignoring message", zap.String("type", msg.Type))
	}
}

// onEvent turns render outcomes into client messages
func (s *Session) onEvent(ev diagram.Event) {
	switch ev.Kind {
	case diagram.EventApplied:
		svg, err := s.target.Markup()
		if err != nil {
			s.log.Warn("failed to serialize diagram", zap.Error(err))
			return
		}
		s.enqueue(Message{
			Type:   TypeRender,
			Seq:    ev.Seq,
			Width:  ev.Size.Width,
			Height: ev.Size.Height,
			SVG:    svg,
		})
	case diagram.EventFailed:
		s.enqueue(Message{Type: TypeError, Seq: ev.Seq, Error: ev.Err.Error()})
	}
}

// enqueue never blocks the render path; a client that cannot keep up
// misses intermediate diagrams
func (s *Session) enqueue(msg Message) {
	select {
	case <-s.done:
	case s.send <- msg:
	default:
		s.log.Warn("send buffer full, dropping message", zap.String("type", msg.Type))
	}
}

func (s *Session) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.log.Warn("failed to write message", zap.Error(err))
				s.close()
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}

		case <-s.done:
			return
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
		s.element.Close()
	})
}
