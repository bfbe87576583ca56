package realtime

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"nommie/internal/domain"
	"nommie/internal/protocol"
)

var errProtocolMismatch = errors.New("realtime: client hello protocol mismatch")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Authenticator resolves the caller's user_id from the upgrade request,
// e.g. from a session cookie or bearer token. The realtime layer does not
// own authentication; it only needs the result.
type Authenticator func(r *http.Request) (userID int64, ok bool)

// Handler upgrades a request to a WebSocket connection and runs its
// session for as long as the socket stays open.
type Handler struct {
	registry *Registry
	bcast    *Broadcast
	members  ViewSource
	auth     Authenticator
	log      logrus.FieldLogger
}

func NewHandler(registry *Registry, bcast *Broadcast, members ViewSource, auth Authenticator, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{registry: registry, bcast: bcast, members: members, auth: auth, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("realtime: websocket upgrade failed")
		return
	}

	sess := NewSession(protocol.NewSessionID(), userID, conn, h.log)
	h.registry.Add(sess)
	defer h.registry.Remove(sess)

	go sess.WritePump()

	if err := sess.handshake(); err != nil {
		h.log.WithError(err).WithField("session_id", sess.ID).Debug("realtime: handshake failed")
		close(sess.send)
		return
	}

	sess.ReadPump(func(typ protocol.FrameType, frame any) {
		h.dispatch(context.Background(), sess, typ, frame)
	})
}

func (h *Handler) dispatch(ctx context.Context, sess *Session, typ protocol.FrameType, frame any) {
	switch typ {
	case protocol.FrameSubscribe:
		f := frame.(protocol.Subscribe)
		if f.Topic.Kind == protocol.TopicGame {
			if _, derr := h.members.RequireMember(ctx, uint64(f.Topic.ID), sess.UserID); derr != nil {
				h.sendError(sess, derr)
				return
			}
		}
		ack := h.registry.Subscribe(sess, f.Topic)
		h.send(sess, protocol.EncodeAck, ack)
		if f.Topic.Kind == protocol.TopicGame {
			if snap, ok := h.bcast.SnapshotFor(ctx, uint64(f.Topic.ID), sess.UserID); ok {
				sess.Enqueue(snap)
			}
		}
	case protocol.FrameUnsubscribe:
		f := frame.(protocol.Unsubscribe)
		ack := h.registry.Unsubscribe(sess, f.Topic)
		h.send(sess, protocol.EncodeAck, ack)
	default:
		h.log.WithField("type", typ).WithField("session_id", sess.ID).Debug("realtime: unexpected frame after handshake")
	}
}

func (h *Handler) send(sess *Session, encode func(protocol.Ack) ([]byte, error), ack protocol.Ack) {
	raw, err := encode(ack)
	if err != nil {
		h.log.WithError(err).Warn("realtime: failed to encode ack frame")
		return
	}
	sess.Enqueue(raw)
}

// sendError turns a domain error into an error frame, e.g. the
// Forbidden(NOT_A_MEMBER) rejection a subscribe to a game a session's user
// isn't seated in gets.
func (h *Handler) sendError(sess *Session, derr *domain.Error) {
	raw, err := protocol.EncodeError(protocol.ErrorFrame{Code: string(derr.Code), Message: derr.Message})
	if err != nil {
		h.log.WithError(err).Warn("realtime: failed to encode error frame")
		return
	}
	sess.Enqueue(raw)
}

// handshake reads exactly one client frame and requires it to be a hello
// at a protocol version this build speaks, then replies with hello_ack.
// Ack-before-game_state (property 6) holds because subscribe frames can
// only be dispatched from ReadPump, which only starts after handshake
// returns.
func (s *Session) handshake() error {
	_, raw, err := s.conn.ReadMessage()
	if err != nil {
		return err
	}
	typ, frame, err := protocol.DecodeClientFrame(raw)
	if err != nil {
		return err
	}
	hello, ok := frame.(protocol.Hello)
	if typ != protocol.FrameHello || !ok || hello.Protocol != protocol.Protocol {
		ack, _ := protocol.EncodeError(protocol.ErrorFrame{Code: "protocol_mismatch", Message: "unsupported protocol version"})
		s.Enqueue(ack)
		return errProtocolMismatch
	}
	raw, err = protocol.EncodeHelloAck(protocol.HelloAck{Protocol: protocol.Protocol, UserID: s.UserID})
	if err != nil {
		return err
	}
	s.Enqueue(raw)
	return nil
}
