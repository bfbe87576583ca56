package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"nommie/internal/domain"
	"nommie/internal/protocol"
)

// fakeViews is a ViewSource stub so Broadcast can be exercised without a
// database: PublicView/PrivateView/SeatForUser are each answered from a
// small in-memory table keyed by the values the test cares about.
type fakeViews struct {
	public     json.RawMessage
	version    int32
	seatByUser map[int64]int
	publicErr  *domain.Error
	calls      int
}

func (f *fakeViews) PublicView(ctx context.Context, gameID uint64) (json.RawMessage, int32, *domain.Error) {
	f.calls++
	if f.publicErr != nil {
		return nil, 0, f.publicErr
	}
	return f.public, f.version, nil
}

func (f *fakeViews) PrivateView(ctx context.Context, gameID uint64, seat int) (json.RawMessage, *domain.Error) {
	return json.RawMessage(`{"seat":` + string(rune('0'+seat)) + `}`), nil
}

func (f *fakeViews) SeatForUser(ctx context.Context, gameID uint64, userID int64) (int, bool, *domain.Error) {
	seat, ok := f.seatByUser[userID]
	return seat, ok, nil
}

func (f *fakeViews) RequireMember(ctx context.Context, gameID uint64, userID int64) (int, *domain.Error) {
	seat, ok := f.seatByUser[userID]
	if !ok {
		return 0, domain.ErrNotAMember(gameID)
	}
	return seat, nil
}

func TestBroadcastGameStateSendsOneFramePerSubscribedUser(t *testing.T) {
	views := &fakeViews{
		public:     json.RawMessage(`{"phase":"bidding"}`),
		version:    7,
		seatByUser: map[int64]int{100: 0, 200: 1},
	}
	snapshots := NewSnapshotCache()
	registry := NewRegistry(snapshots, nil)
	bcast := NewBroadcast(registry, snapshots, views, nil, nil)

	topic := protocol.Topic{Kind: protocol.TopicGame, ID: 42}
	a := newTestSession("a", 100)
	b := newTestSession("b", 200)
	registry.Add(a)
	registry.Add(b)
	registry.Subscribe(a, topic)
	registry.Subscribe(b, topic)
	drain(t, a)
	drain(t, b)

	bcast.BroadcastGameState(42, 7)

	framesA := drain(t, a)
	framesB := drain(t, b)
	require.Len(t, framesA, 1)
	require.Len(t, framesB, 1)
	require.NotEqual(t, framesA[0], framesB[0], "each seat's frame carries its own viewer hand")

	public, version, ok := snapshots.Get(42)
	require.True(t, ok)
	require.Equal(t, int32(7), version)
	require.JSONEq(t, `{"phase":"bidding"}`, string(public))
}

func TestSnapshotForUsesCacheWhenPresent(t *testing.T) {
	views := &fakeViews{seatByUser: map[int64]int{100: 2}}
	snapshots := NewSnapshotCache()
	snapshots.Put(42, 9, json.RawMessage(`{"phase":"trick"}`))
	registry := NewRegistry(snapshots, nil)
	bcast := NewBroadcast(registry, snapshots, views, nil, nil)

	frame, ok := bcast.SnapshotFor(context.Background(), 42, 100)
	require.True(t, ok)
	require.NotEmpty(t, frame)
	require.Equal(t, 0, views.calls, "cached snapshot must not trigger a fresh PublicView render")
}

func TestSnapshotForFallsBackToFreshRenderOnMiss(t *testing.T) {
	views := &fakeViews{
		public:     json.RawMessage(`{"phase":"bidding"}`),
		version:    1,
		seatByUser: map[int64]int{100: 0},
	}
	snapshots := NewSnapshotCache()
	registry := NewRegistry(snapshots, nil)
	bcast := NewBroadcast(registry, snapshots, views, nil, nil)

	frame, ok := bcast.SnapshotFor(context.Background(), 42, 100)
	require.True(t, ok)
	require.NotEmpty(t, frame)
	require.Equal(t, 1, views.calls)

	_, _, cached := snapshots.Get(42)
	require.True(t, cached, "a fresh render should populate the cache for the next subscriber")
}
