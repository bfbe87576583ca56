// Package realtime implements the WebSocket transport: one Session per
// connection, a Registry fanning broadcasts out to the sessions
// subscribed to a game or belonging to a user, and a bounded snapshot
// cache of each game's public state, so a freshly-subscribing session's
// game_state is built without reloading that public part (its seat and
// private view are still read through the ViewSource).
package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"nommie/internal/protocol"
)

const sendBuffer = 32

// Heartbeat timings, configurable at process start via Configure and held
// fixed for the process lifetime afterward; every Session reads them at
// pump-start time.
var (
	writeWait  = 10 * time.Second
	pongWait   = 40 * time.Second
	pingPeriod = 20 * time.Second // must be < pongWait
)

// Configure overrides the heartbeat timings used by every Session created
// afterward. Call once during process wiring, before accepting
// connections.
func Configure(write, pong, ping time.Duration) {
	writeWait = write
	pongWait = pong
	pingPeriod = ping
}

// Session wraps one upgraded WebSocket connection. Per the cyclic-
// reference design, it never holds a pointer back to its Registry: it
// only stores the topics it has subscribed to, and the Registry looks
// sessions up by id when it needs to reach them.
type Session struct {
	ID     protocol.SessionID
	UserID int64

	conn *websocket.Conn
	send chan []byte
	log  logrus.FieldLogger

	mu     sync.Mutex
	topics map[protocol.Topic]struct{}
}

func NewSession(id protocol.SessionID, userID int64, conn *websocket.Conn, log logrus.FieldLogger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		ID:     id,
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		log:    log,
		topics: make(map[protocol.Topic]struct{}),
	}
}

func (s *Session) addTopic(t protocol.Topic)    { s.mu.Lock(); s.topics[t] = struct{}{}; s.mu.Unlock() }
func (s *Session) removeTopic(t protocol.Topic) { s.mu.Lock(); delete(s.topics, t); s.mu.Unlock() }

func (s *Session) Topics() []protocol.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.Topic, 0, len(s.topics))
	for t := range s.topics {
		out = append(out, t)
	}
	return out
}

// Enqueue drops the frame if the session's outbound buffer is full
// instead of blocking the broadcaster on one slow reader.
func (s *Session) Enqueue(frame []byte) bool {
	select {
	case s.send <- frame:
		return true
	default:
		s.log.WithField("session_id", s.ID).Warn("realtime: dropping frame, session send buffer full")
		return false
	}
}

// WritePump drains the session's send channel to the socket and emits
// periodic pings; it owns the only goroutine allowed to write to conn.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump drains client frames until the connection closes; handler is
// invoked once per decoded frame. It owns the only goroutine allowed to
// read from conn, per gorilla/websocket's single-reader requirement.
func (s *Session) ReadPump(handler func(typ protocol.FrameType, frame any)) {
	defer close(s.send)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		typ, frame, err := protocol.DecodeClientFrame(raw)
		if err != nil {
			s.log.WithError(err).WithField("session_id", s.ID).Debug("realtime: dropping malformed frame")
			continue
		}
		handler(typ, frame)
	}
}
