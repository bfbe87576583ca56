package realtime

import (
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"
)

// snapshotCapacity bounds the cache to the working set of concurrently
// live games a single process is expected to host; older entries are
// evicted least-recently-used rather than left to grow unbounded.
const snapshotCapacity = 64

// snapshot is the last-built public (seat-independent) game view for a
// game, kept so a freshly-subscribing session's shared payload doesn't
// need a fresh database round trip; the seat-specific viewer payload is
// still built per subscriber since hands differ by seat.
type snapshot struct {
	public  json.RawMessage
	version int32
}

// SnapshotCache is one of the three places of global mutable state the
// design notes sanction, alongside the session registry and the database
// pool.
type SnapshotCache struct {
	cache *lru.Cache[uint64, snapshot]
}

func NewSnapshotCache() *SnapshotCache {
	cache, err := lru.New[uint64, snapshot](snapshotCapacity)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// snapshotCapacity never is.
		panic(err)
	}
	return &SnapshotCache{cache: cache}
}

// Put records the latest public view for gameID. A write with a version
// older than what's cached is ignored, since concurrent command handlers
// can race to publish and the newest version must win.
func (c *SnapshotCache) Put(gameID uint64, version int32, public json.RawMessage) {
	if existing, ok := c.cache.Get(gameID); ok && existing.version > version {
		return
	}
	c.cache.Add(gameID, snapshot{public: public, version: version})
}

// Get returns the cached public view for gameID, if any.
func (c *SnapshotCache) Get(gameID uint64) (json.RawMessage, int32, bool) {
	s, ok := c.cache.Get(gameID)
	if !ok {
		return nil, 0, false
	}
	return s.public, s.version, true
}
