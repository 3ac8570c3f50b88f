package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/pkg/common"
)

// MemoryStore is an in-process TTL cache with LRU eviction when full.
type MemoryStore struct {
	config *config.Config
	mu     sync.Mutex
	store  map[string]memoryEntry
	stats  memoryStats
	done   chan struct{}
}

type memoryEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type memoryStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewMemoryStore builds the store and starts its cleanup goroutine.
func NewMemoryStore(cfg *config.Config) *MemoryStore {
	m := &MemoryStore{
		config: cfg,
		store:  make(map[string]memoryEntry),
		done:   make(chan struct{}),
	}
	go m.startCleanup()

	common.LogInfo("parse cache initialized",
		zap.String("backend", "memory"),
		zap.Int("max_size", cfg.Cache.MaxSize),
		zap.Duration("ttl", cfg.Cache.TTL),
		zap.Duration("cleanup_interval", cfg.Cache.CleanupInterval),
	)
	return m
}

// Get returns the cached value for the input, or ErrCacheDisabled on miss.
func (m *MemoryStore) Get(ctx context.Context, input string) (string, error) {
	key := hashKey(input)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return "", common.ErrCacheDisabled
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return "", common.ErrCacheDisabled
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++
	common.LogCacheHit("memory", key)
	return entry.value, nil
}

// Set stores a value, evicting expired then least-used entries when full.
func (m *MemoryStore) Set(ctx context.Context, input, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.config.Cache.MaxSize {
		m.cleanupLocked()
		if len(m.store) >= m.config.Cache.MaxSize {
			m.evictLRULocked()
		}
		if len(m.store) >= m.config.Cache.MaxSize {
			m.stats.errors++
			common.LogWarn("parse cache full", zap.Int("size", len(m.store)))
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	m.store[hashKey(input)] = memoryEntry{
		value:      value,
		expiresAt:  now.Add(m.config.Cache.TTL),
		lastAccess: now,
	}
	return nil
}

func (m *MemoryStore) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanupLocked()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryStore) cleanupLocked() {
	now := time.Now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}
	if count > 0 {
		common.LogDebug("expired parse cache entries removed",
			zap.Int("count", count),
			zap.Int("remaining", len(m.store)),
		)
	}
}

func (m *MemoryStore) evictLRULocked() {
	var victim string
	var victimAccess time.Time
	var victimCount int
	for key, entry := range m.store {
		if victim == "" ||
			entry.accessCount < victimCount ||
			(entry.accessCount == victimCount && entry.lastAccess.Before(victimAccess)) {
			victim = key
			victimAccess = entry.lastAccess
			victimCount = entry.accessCount
		}
	}
	if victim != "" {
		delete(m.store, victim)
		m.stats.evictions++
	}
}

// Stats reports hit/miss counters for the health endpoint.
func (m *MemoryStore) Stats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.stats.hits + m.stats.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"backend":   "memory",
		"size":      len(m.store),
		"max_size":  m.config.Cache.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": ratio,
	}
}

// Close stops the cleanup goroutine and drops all entries.
func (m *MemoryStore) Close() error {
	close(m.done)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]memoryEntry)
	return nil
}
