package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nommie/internal/protocol"
)

func newTestSession(id protocol.SessionID, userID int64) *Session {
	return NewSession(id, userID, nil, nil)
}

func drain(t *testing.T, s *Session) [][]byte {
	t.Helper()
	var out [][]byte
	for {
		select {
		case frame := <-s.send:
			out = append(out, frame)
		default:
			return out
		}
	}
}

func TestRegistrySubscribeBroadcastsToAllMembers(t *testing.T) {
	r := NewRegistry(NewSnapshotCache(), nil)
	topic := protocol.Topic{Kind: protocol.TopicGame, ID: 1}

	a := newTestSession("a", 100)
	b := newTestSession("b", 200)
	r.Add(a)
	r.Add(b)
	r.Subscribe(a, topic)
	r.Subscribe(b, topic)

	r.BroadcastRaw(topic, []byte("hello"))

	require.Equal(t, [][]byte{[]byte("hello")}, drain(t, a))
	require.Equal(t, [][]byte{[]byte("hello")}, drain(t, b))
}

func TestRegistryUnsubscribeStopsDelivery(t *testing.T) {
	r := NewRegistry(NewSnapshotCache(), nil)
	topic := protocol.Topic{Kind: protocol.TopicGame, ID: 1}

	a := newTestSession("a", 100)
	r.Add(a)
	r.Subscribe(a, topic)
	r.Unsubscribe(a, topic)

	r.BroadcastRaw(topic, []byte("hello"))
	require.Empty(t, drain(t, a))
}

func TestRegistryRemoveClearsTopicAndUserIndexes(t *testing.T) {
	r := NewRegistry(NewSnapshotCache(), nil)
	topic := protocol.Topic{Kind: protocol.TopicGame, ID: 1}

	a := newTestSession("a", 100)
	r.Add(a)
	r.Subscribe(a, topic)
	r.Remove(a)

	r.BroadcastRaw(topic, []byte("hello"))
	require.Empty(t, drain(t, a))

	r.BroadcastToUser(100, []byte("direct"), "")
	require.Empty(t, drain(t, a))
}

func TestBroadcastTopicPerUserBuildsOncePerDistinctUser(t *testing.T) {
	r := NewRegistry(NewSnapshotCache(), nil)
	topic := protocol.Topic{Kind: protocol.TopicGame, ID: 1}

	// Two sessions belonging to the same user, one belonging to another.
	a1 := newTestSession("a1", 100)
	a2 := newTestSession("a2", 100)
	b := newTestSession("b", 200)
	r.Add(a1)
	r.Add(a2)
	r.Add(b)
	r.Subscribe(a1, topic)
	r.Subscribe(a2, topic)
	r.Subscribe(b, topic)

	builds := 0
	r.BroadcastTopicPerUser(topic, func(userID int64) []byte {
		builds++
		return []byte{byte(userID)}
	})

	require.Equal(t, 2, builds, "one build per distinct user_id, not per session")
	require.Equal(t, drain(t, a1), drain(t, a2))
}

func TestBroadcastToUserExcludesGivenSession(t *testing.T) {
	r := NewRegistry(NewSnapshotCache(), nil)

	a := newTestSession("a", 100)
	b := newTestSession("b", 100)
	r.Add(a)
	r.Add(b)

	r.BroadcastToUser(100, []byte("x"), a.ID)

	require.Empty(t, drain(t, a))
	require.Equal(t, [][]byte{[]byte("x")}, drain(t, b))
}
