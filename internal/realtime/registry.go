package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"

	"nommie/internal/protocol"
)

// Registry is the process-wide session directory: sessions indexed by
// topic (for game_state/your_turn fan-out) and by user (for addressing a
// specific viewer's every open tab). It is one of the three pieces of
// global mutable state the design notes call out explicitly, alongside
// the snapshot cache and the database pool.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[protocol.SessionID]*Session
	byTopic   map[protocol.Topic]map[protocol.SessionID]struct{}
	byUser    map[int64]map[protocol.SessionID]struct{}
	snapshots *SnapshotCache
	log       logrus.FieldLogger
}

func NewRegistry(snapshots *SnapshotCache, log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		sessions:  make(map[protocol.SessionID]*Session),
		byTopic:   make(map[protocol.Topic]map[protocol.SessionID]struct{}),
		byUser:    make(map[int64]map[protocol.SessionID]struct{}),
		snapshots: snapshots,
		log:       log,
	}
}

// Add registers a freshly connected session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	if r.byUser[s.UserID] == nil {
		r.byUser[s.UserID] = make(map[protocol.SessionID]struct{})
	}
	r.byUser[s.UserID][s.ID] = struct{}{}
}

// Remove unregisters a session and drops it from every topic it had
// subscribed to.
func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s.ID)
	if set, ok := r.byUser[s.UserID]; ok {
		delete(set, s.ID)
		if len(set) == 0 {
			delete(r.byUser, s.UserID)
		}
	}
	for _, topic := range s.Topics() {
		if set, ok := r.byTopic[topic]; ok {
			delete(set, s.ID)
			if len(set) == 0 {
				delete(r.byTopic, topic)
			}
		}
	}
}

// Subscribe adds topic to a session's set and returns an Ack frame ready
// to send. The registry, not the session, owns the topic index, so a
// session only ever stores the token (the topic value itself) rather
// than a back-pointer to the registry.
func (r *Registry) Subscribe(s *Session, topic protocol.Topic) protocol.Ack {
	r.mu.Lock()
	if r.byTopic[topic] == nil {
		r.byTopic[topic] = make(map[protocol.SessionID]struct{})
	}
	r.byTopic[topic][s.ID] = struct{}{}
	r.mu.Unlock()
	s.addTopic(topic)
	return protocol.Ack{Command: protocol.AckSubscribe, Topic: topic}
}

// Unsubscribe removes topic from a session's set.
func (r *Registry) Unsubscribe(s *Session, topic protocol.Topic) protocol.Ack {
	r.mu.Lock()
	if set, ok := r.byTopic[topic]; ok {
		delete(set, s.ID)
		if len(set) == 0 {
			delete(r.byTopic, topic)
		}
	}
	r.mu.Unlock()
	s.removeTopic(topic)
	return protocol.Ack{Command: protocol.AckUnsubscribe, Topic: topic}
}

// sessionsFor returns a snapshot of the sessions subscribed to topic.
func (r *Registry) sessionsFor(topic protocol.Topic) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byTopic[topic]
	out := make([]*Session, 0, len(set))
	for id := range set {
		if s, ok := r.sessions[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// BroadcastRaw fans a pre-encoded frame out to every session subscribed
// to topic, per property 6's non-decreasing-version ordering: callers
// must encode with a version that is monotonic for the topic.
func (r *Registry) BroadcastRaw(topic protocol.Topic, frame []byte) {
	for _, s := range r.sessionsFor(topic) {
		s.Enqueue(frame)
	}
}

// BroadcastTopicPerUser fans a frame out to every session subscribed to
// topic, building that frame once per distinct user_id among them (a
// user's frame differs by seat, but never by which of their own sessions
// receives it).
func (r *Registry) BroadcastTopicPerUser(topic protocol.Topic, build func(userID int64) []byte) {
	sessions := r.sessionsFor(topic)
	frames := make(map[int64][]byte, len(sessions))
	for _, s := range sessions {
		frame, ok := frames[s.UserID]
		if !ok {
			frame = build(s.UserID)
			frames[s.UserID] = frame
		}
		if frame != nil {
			s.Enqueue(frame)
		}
	}
}

// BroadcastToUser sends frame to every session of userID, whatever its
// subscriptions, except excl (used to avoid echoing a your_turn notice back
// to the session whose own command caused it, when that is undesired).
func (r *Registry) BroadcastToUser(userID int64, frame []byte, excl protocol.SessionID) {
	r.mu.RLock()
	ids := make([]protocol.SessionID, 0, len(r.byUser[userID]))
	for id := range r.byUser[userID] {
		if id != excl {
			ids = append(ids, id)
		}
	}
	sessions := make([]*Session, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.sessions[id]; ok {
			sessions = append(sessions, s)
		}
	}
	r.mu.RUnlock()
	for _, s := range sessions {
		s.Enqueue(frame)
	}
}
