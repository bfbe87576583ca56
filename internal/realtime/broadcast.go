package realtime

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"nommie/internal/domain"
	"nommie/internal/protocol"
	"nommie/internal/store"
)

// ViewSource is the slice of the orchestrator the realtime layer needs to
// render frames: the seat-independent public view, one seat's private
// view, and which seat (if any) a user occupies. Depending on this
// interface instead of *service.Orchestrator keeps the realtime package
// free to be exercised against a fake in tests.
type ViewSource interface {
	PublicView(ctx context.Context, gameID uint64) (json.RawMessage, int32, *domain.Error)
	PrivateView(ctx context.Context, gameID uint64, seat int) (json.RawMessage, *domain.Error)
	SeatForUser(ctx context.Context, gameID uint64, userID int64) (int, bool, *domain.Error)
	RequireMember(ctx context.Context, gameID uint64, userID int64) (int, *domain.Error)
}

// Broadcast implements service.Broadcaster against a Registry, rendering
// one frame per subscribed user so each seat only ever sees its own hand.
type Broadcast struct {
	registry    *Registry
	snapshots   *SnapshotCache
	views       ViewSource
	memberships *store.MembershipRepo
	log         logrus.FieldLogger
}

func NewBroadcast(registry *Registry, snapshots *SnapshotCache, views ViewSource, memberships *store.MembershipRepo, log logrus.FieldLogger) *Broadcast {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Broadcast{registry: registry, snapshots: snapshots, views: views, memberships: memberships, log: log}
}

// BroadcastGameState renders the current public view once and a private
// view per distinct subscribed user, then fans the resulting frames out
// to that game's topic. version is accepted for interface symmetry with
// the orchestration layer's optimistic-lock counter; the authoritative
// version stamped on the frame is whatever PublicView reads fresh, since a
// second command can race ahead between the commit and this broadcast.
func (b *Broadcast) BroadcastGameState(gameID uint64, version int32) {
	ctx := context.Background()
	topic := protocol.Topic{Kind: protocol.TopicGame, ID: int64(gameID)}
	public, actualVersion, derr := b.views.PublicView(ctx, gameID)
	if derr != nil {
		b.log.WithError(derr).WithField("game_id", gameID).Warn("realtime: failed to render public view for broadcast")
		return
	}
	b.snapshots.Put(gameID, actualVersion, public)

	b.registry.BroadcastTopicPerUser(topic, func(userID int64) []byte {
		return b.frameFor(ctx, gameID, topic, actualVersion, public, userID)
	})
}

// NotifyTurn sends a your_turn frame to every session of the user
// occupying seat, whether or not that session is subscribed to the game.
func (b *Broadcast) NotifyTurn(gameID uint64, version int32, seat int) {
	ctx := context.Background()
	rows, derr := b.memberships.ListByGame(ctx, gameID)
	if derr != nil {
		return
	}
	for _, m := range rows {
		if m.TurnOrder != seat {
			continue
		}
		frame, err := protocol.EncodeYourTurn(protocol.YourTurn{GameID: int64(gameID), Version: version})
		if err != nil {
			b.log.WithError(err).Warn("realtime: failed to encode your_turn frame")
			return
		}
		b.registry.BroadcastToUser(int64(m.UserID), frame, "")
		return
	}
}

func (b *Broadcast) frameFor(ctx context.Context, gameID uint64, topic protocol.Topic, version int32, public json.RawMessage, userID int64) []byte {
	viewer := json.RawMessage(`{}`)
	if seat, ok, derr := b.views.SeatForUser(ctx, gameID, userID); derr == nil && ok {
		if v, derr := b.views.PrivateView(ctx, gameID, seat); derr == nil {
			viewer = v
		}
	}
	frame, err := protocol.EncodeGameState(protocol.GameState{Topic: topic, Version: version, Game: public, Viewer: viewer})
	if err != nil {
		b.log.WithError(err).Warn("realtime: failed to encode game_state frame")
		return nil
	}
	return frame
}

// SnapshotFor builds the frame a freshly subscribing session should
// receive immediately after its ack: the cached public view if present
// (saving a database round trip for the shared part), else a freshly
// rendered one, combined with that user's own private view.
func (b *Broadcast) SnapshotFor(ctx context.Context, gameID uint64, userID int64) ([]byte, bool) {
	topic := protocol.Topic{Kind: protocol.TopicGame, ID: int64(gameID)}
	public, version, ok := b.snapshots.Get(gameID)
	if !ok {
		var derr *domain.Error
		public, version, derr = b.views.PublicView(ctx, gameID)
		if derr != nil {
			return nil, false
		}
		b.snapshots.Put(gameID, version, public)
	}
	frame := b.frameFor(ctx, gameID, topic, version, public, userID)
	return frame, frame != nil
}
