// Package service implements the orchestration layer: the command handlers
// that load a round, apply one domain operation, persist the resulting
// deltas under a guarded Game update, and broadcast the new version. It is
// the only layer that touches both internal/domain and internal/store.
package service

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"nommie/internal/ai"
	"nommie/internal/cards"
	"nommie/internal/domain"
	"nommie/internal/rng"
	"nommie/internal/store"
)

// Broadcaster is implemented by the realtime layer. The orchestrator
// depends only on this interface so that command handlers never import
// internal/realtime, mirroring the teacher's separation between table
// logic and its network transport.
type Broadcaster interface {
	BroadcastGameState(gameID uint64, version int32)
	NotifyTurn(gameID uint64, version int32, seat int)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastGameState(uint64, int32) {}
func (noopBroadcaster) NotifyTurn(uint64, int32, int)    {}

// Orchestrator holds the global mutable state the design notes call out
// explicitly: the in-process cache of rounds currently in progress, kept
// alongside (never instead of) the durable rows in Postgres. The cache
// lets every mutating command operate on the pure domain.RoundState
// in-memory and persist only the facts that must survive a restart,
// instead of re-marshaling the whole round on every play. It is
// rebuilt on demand from persisted rows when cold (process restart,
// cache eviction), at the cost of losing a trick that was only
// partially played when the process died: the Trick/Play rows are
// written atomically on a trick's fourth play, so recovery always
// resumes at the start of the in-progress trick. See DESIGN.md.
type Orchestrator struct {
	db              *store.Database
	games           *store.GameRepo
	rounds          *store.RoundRepo
	memberships     *store.MembershipRepo
	ai              *ai.Factory
	log             logrus.FieldLogger
	bcast           Broadcaster
	maxAIIterations int

	mu     sync.Mutex
	active map[uint64]*cachedRound
	seeds  map[uint64]rng.GameSeed
}

type cachedRound struct {
	round *domain.RoundState
	row   *store.RoundRow
}

// defaultMaxAIIterations is used when maxAIIterations is left at its zero
// value, so existing callers that don't pass one keep working.
const defaultMaxAIIterations = 2000

func NewOrchestrator(db *store.Database, games *store.GameRepo, rounds *store.RoundRepo, memberships *store.MembershipRepo, factory *ai.Factory, maxAIIterations int, log logrus.FieldLogger) *Orchestrator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if maxAIIterations <= 0 {
		maxAIIterations = defaultMaxAIIterations
	}
	return &Orchestrator{
		db:              db,
		games:           games,
		rounds:          rounds,
		memberships:     memberships,
		ai:              factory,
		log:             log,
		bcast:           noopBroadcaster{},
		maxAIIterations: maxAIIterations,
		active:          make(map[uint64]*cachedRound),
		seeds:           make(map[uint64]rng.GameSeed),
	}
}

// SetBroadcaster wires the realtime layer in after construction: the
// realtime Broadcast takes the orchestrator as its ViewSource, so it can
// only be built once the orchestrator exists.
func (o *Orchestrator) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = noopBroadcaster{}
	}
	o.bcast = b
}

func (o *Orchestrator) gameSeed(ctx context.Context, gameID uint64, raw []byte) rng.GameSeed {
	o.mu.Lock()
	defer o.mu.Unlock()
	if seed, ok := o.seeds[gameID]; ok {
		return seed
	}
	var seed rng.GameSeed
	copy(seed[:], raw)
	o.seeds[gameID] = seed
	return seed
}

func (o *Orchestrator) cached(gameID uint64) (*cachedRound, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	cr, ok := o.active[gameID]
	return cr, ok
}

func (o *Orchestrator) store(gameID uint64, cr *cachedRound) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active[gameID] = cr
}

func (o *Orchestrator) evict(gameID uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.active, gameID)
}

// loadRound returns the in-progress round for gameID, from cache if
// present, else rebuilt from persisted rows for the game's current round.
func (o *Orchestrator) loadRound(ctx context.Context, gameID uint64, game *store.GameRow) (*cachedRound, *domain.Error) {
	if cr, ok := o.cached(gameID); ok && game.CurrentRound != nil && cr.row.RoundNo == *game.CurrentRound {
		return cr, nil
	}
	if game.CurrentRound == nil {
		return nil, domain.ErrPhaseMismatch(domain.PhaseBidding, domain.PhaseInit)
	}
	row, derr := o.rounds.LoadRoundByNo(ctx, gameID, *game.CurrentRound)
	if derr != nil {
		return nil, derr
	}
	hands, derr := o.rounds.LoadHands(ctx, row.ID)
	if derr != nil {
		return nil, derr
	}
	bids, derr := o.rounds.LoadBids(ctx, row.ID)
	if derr != nil {
		return nil, derr
	}
	tricks, derr := o.rounds.LoadTricks(ctx, row.ID)
	if derr != nil {
		return nil, derr
	}

	rs := domain.NewRound(row.RoundNo, row.HandSize, row.DealerSeat, hands)
	rs.Bids = bids
	rs.Turn = (row.DealerSeat + 1 + len(bids)) % domain.SeatCount
	if len(bids) == domain.SeatCount {
		rs.Phase = domain.PhaseTrumpSelect
		rs.Turn = domain.BidWinner(bids)
	}
	if row.Trump != nil {
		trump, err := trumpFromStored(*row.Trump)
		if err != nil {
			return nil, domain.ErrDataCorruption("round %d: %s", row.RoundNo, err.Error())
		}
		rs.Trump = &trump
		rs.Phase = domain.PhaseTrick
		rs.TrickNo = len(tricks)
		rs.CompletedTricks = tricks
		for _, tr := range tricks {
			for _, p := range tr.Plays {
				rs.Played[p.Seat] = append(rs.Played[p.Seat], p.Card)
			}
		}
		rs.Leader = (row.DealerSeat + 1) % domain.SeatCount
		rs.Turn = rs.Leader
		if len(tricks) > 0 {
			last := tricks[len(tricks)-1]
			rs.Leader = last.Winner
			rs.Turn = last.Winner
		}
		if rs.TrickNo >= rs.HandSize {
			rs.Phase = domain.PhaseScoring
		}
	}

	cr := &cachedRound{round: rs, row: row}
	o.store(gameID, cr)
	return cr, nil
}

func trumpFromStored(name string) (cards.Trump, error) {
	for _, t := range cards.AllTrumps() {
		if t.String() == name {
			return t, nil
		}
	}
	return cards.Trump{}, domain.ErrDataCorruption("unknown stored trump %q", name)
}
