package universe

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	sharedredis "starfield-server/internal/shared/redis"
)

// DefaultCacheMaxChunks bounds the in-memory chunk cache when no explicit
// capacity is configured. An infinite universe otherwise means unbounded
// memory.
const DefaultCacheMaxChunks = 4096

type chunkKey struct {
	IX, IY int
}

type cacheEntry struct {
	key   chunkKey
	chunk *Chunk
}

// Manager owns the chunk cache of one universe. GetChunk generates on
// first access and memoizes; Peek never generates. Reads and writes are
// guarded by a single mutex (single-writer generation), and the cache
// evicts least-recently-used chunks beyond its capacity.
//
// Neighbor collision checks consult only chunks currently cached here,
// so whether a star placement attempt succeeds can depend on visitation
// order. Chunk content itself is always a pure function of (seed,
// settings, ix, iy).
type Manager struct {
	mu        sync.RWMutex
	gen       generator
	cache     map[chunkKey]*list.Element
	order     *list.List // front = most recently used
	maxChunks int

	shared *sharedredis.Client // optional second-level cache, may be nil
	logger *slog.Logger
}

// NewManager builds a manager for the given clamped settings. A nil
// shared client disables the second-level cache.
func NewManager(settings Settings, presets *Presets, maxChunks int, shared *sharedredis.Client, logger *slog.Logger) *Manager {
	if maxChunks <= 0 {
		maxChunks = DefaultCacheMaxChunks
	}
	m := &Manager{
		cache:     make(map[chunkKey]*list.Element),
		order:     list.New(),
		maxChunks: maxChunks,
		shared:    shared,
		logger:    logger.With("component", "chunk_manager", "seed", settings.Seed),
	}
	m.gen = generator{
		settings:  settings.Clamp(),
		presets:   presets,
		neighbors: m.starsNearLocked,
	}
	return m
}

// Settings returns the clamped settings this manager generates with.
func (m *Manager) Settings() Settings {
	return m.gen.settings
}

// GetChunk returns the chunk at (ix, iy), generating and caching it on
// first access. Repeated calls return the identical cached value.
func (m *Manager) GetChunk(ix, iy int) *Chunk {
	key := chunkKey{IX: ix, IY: iy}

	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.cache[key]; ok {
		m.order.MoveToFront(el)
		return el.Value.(*cacheEntry).chunk
	}

	chunk := m.fetchShared(key)
	if chunk == nil {
		start := time.Now()
		chunk = m.gen.generateChunk(ix, iy)
		m.logger.Debug("Chunk generated",
			"ix", ix, "iy", iy,
			"stars", len(chunk.Stars),
			"planets", len(chunk.Planets),
			"duration", time.Since(start),
		)
		m.storeShared(key, chunk)
	}

	m.insert(key, chunk)
	return chunk
}

// Peek returns the cached chunk at (ix, iy) or nil. It never generates
// and never promotes the chunk in the eviction order.
func (m *Manager) Peek(ix, iy int) *Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if el, ok := m.cache[chunkKey{IX: ix, IY: iy}]; ok {
		return el.Value.(*cacheEntry).chunk
	}
	return nil
}

// Resolve looks up an entity by its stable deep-link id, generating the
// owning chunk if needed.
func (m *Manager) Resolve(id string) (*ResolvedEntity, error) {
	ref, err := ParseRef(id)
	if err != nil {
		return nil, err
	}
	return ref.resolve(m)
}

// Warm pre-generates the inclusive chunk rectangle [x0,x1]×[y0,y1] from a
// background goroutine, so a renderer can request a viewport ahead of
// time instead of stalling a frame on many cold chunks. It stops early
// when ctx is cancelled; individual chunks are never aborted mid-build.
func (m *Manager) Warm(ctx context.Context, x0, y0, x1, y1 int) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	go func() {
		for iy := y0; iy <= y1; iy++ {
			for ix := x0; ix <= x1; ix++ {
				if ctx.Err() != nil {
					return
				}
				m.GetChunk(ix, iy)
			}
		}
	}()
}

// CachedChunks returns the number of chunks currently resident.
func (m *Manager) CachedChunks() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.order.Len()
}

// insert adds a chunk and evicts the LRU tail past capacity. Caller holds
// the write lock.
func (m *Manager) insert(key chunkKey, chunk *Chunk) {
	m.cache[key] = m.order.PushFront(&cacheEntry{key: key, chunk: chunk})
	for m.order.Len() > m.maxChunks {
		tail := m.order.Back()
		entry := tail.Value.(*cacheEntry)
		m.order.Remove(tail)
		delete(m.cache, entry.key)
		m.logger.Debug("Chunk evicted", "ix", entry.key.IX, "iy", entry.key.IY)
	}
}

// starsNearLocked collects the stars of every cached chunk within the
// Chebyshev radius of (ix, iy), excluding the center chunk. Used only for
// placement collision checks; lookups do not touch the LRU order. Caller
// already holds the write lock via GetChunk.
func (m *Manager) starsNearLocked(ix, iy, radius int) []*Star {
	var stars []*Star
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if el, ok := m.cache[chunkKey{IX: ix + dx, IY: iy + dy}]; ok {
				stars = append(stars, el.Value.(*cacheEntry).chunk.Stars...)
			}
		}
	}
	return stars
}

// Second-level cache. Chunks are deterministic, so sharing them across
// instances is purely an optimization; a miss or a redis outage only
// costs a regeneration. This is a cache, not persistence: nothing here
// survives a FLUSHALL and nothing is ever read back as authoritative
// state.

const sharedCacheTTL = 6 * time.Hour

func (m *Manager) sharedKey(key chunkKey) string {
	s := m.gen.settings
	return fmt.Sprintf("starfield:chunk:%s:%g:%g:%d,%d", s.Seed, s.StarDensity, s.PlanetDensity, key.IX, key.IY)
}

func (m *Manager) fetchShared(key chunkKey) *Chunk {
	if m.shared == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	data, err := m.shared.Get(ctx, m.sharedKey(key)).Bytes()
	if err != nil {
		return nil
	}

	var chunk Chunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		m.logger.Warn("Discarding undecodable shared chunk", "ix", key.IX, "iy", key.IY, "error", err)
		return nil
	}
	chunk.reindex()
	return &chunk
}

func (m *Manager) storeShared(key chunkKey, chunk *Chunk) {
	if m.shared == nil {
		return
	}
	data, err := json.Marshal(chunk)
	if err != nil {
		m.logger.Warn("Failed to encode chunk for shared cache", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := m.shared.Set(ctx, m.sharedKey(key), data, sharedCacheTTL).Err(); err != nil {
		m.logger.Debug("Shared cache write failed", "error", err)
	}
}
