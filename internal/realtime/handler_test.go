package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"nommie/internal/protocol"
)

func newTestHandler(views *fakeViews) (*Handler, *Registry) {
	snapshots := NewSnapshotCache()
	registry := NewRegistry(snapshots, nil)
	bcast := NewBroadcast(registry, snapshots, views, nil, nil)
	return NewHandler(registry, bcast, views, nil, nil), registry
}

func TestDispatchSubscribeRejectsNonMember(t *testing.T) {
	views := &fakeViews{seatByUser: map[int64]int{}}
	h, registry := newTestHandler(views)
	topic := protocol.Topic{Kind: protocol.TopicGame, ID: 42}

	sess := newTestSession("a", 999)
	registry.Add(sess)

	h.dispatch(context.Background(), sess, protocol.FrameSubscribe, protocol.Subscribe{Topic: topic})

	frames := drain(t, sess)
	require.Len(t, frames, 1, "a rejected subscribe gets exactly one error frame, no ack and no snapshot")

	var env protocol.Envelope
	require.NoError(t, json.Unmarshal(frames[0], &env))
	require.Equal(t, protocol.FrameError, env.Type)

	require.Empty(t, registry.sessionsFor(topic), "a non-member must not be added to the topic")
}

func TestDispatchSubscribeAdmitsMember(t *testing.T) {
	views := &fakeViews{
		public:     json.RawMessage(`{"phase":"bidding"}`),
		seatByUser: map[int64]int{100: 2},
	}
	h, registry := newTestHandler(views)
	topic := protocol.Topic{Kind: protocol.TopicGame, ID: 42}

	sess := newTestSession("a", 100)
	registry.Add(sess)

	h.dispatch(context.Background(), sess, protocol.FrameSubscribe, protocol.Subscribe{Topic: topic})

	frames := drain(t, sess)
	require.Len(t, frames, 2, "a member gets an ack followed by a game_state snapshot")

	var ackEnv protocol.Envelope
	require.NoError(t, json.Unmarshal(frames[0], &ackEnv))
	require.Equal(t, protocol.FrameAck, ackEnv.Type)

	var stateEnv protocol.Envelope
	require.NoError(t, json.Unmarshal(frames[1], &stateEnv))
	require.Equal(t, protocol.FrameGameState, stateEnv.Type)

	require.Contains(t, registry.sessionsFor(topic), sess)
}
