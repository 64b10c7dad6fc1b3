package services

import (
	"sync"
	"time"

	"netgauge/internal/models"
)

// SnapshotCache keeps the last on-demand counter snapshot with a short TTL
// so bursts of HTTP requests don't hammer the OS counter tables.
type SnapshotCache struct {
	mu        sync.RWMutex
	snapshot  models.Snapshot
	fetchedAt time.Time
	ttl       time.Duration
}

var snapshotCache = &SnapshotCache{
	ttl: 1 * time.Second,
}

// SetCacheTTL sets the snapshot cache time-to-live.
func SetCacheTTL(duration time.Duration) {
	snapshotCache.mu.Lock()
	defer snapshotCache.mu.Unlock()
	snapshotCache.ttl = duration
}

func (sc *SnapshotCache) isValid() bool {
	return sc.snapshot != nil && time.Since(sc.fetchedAt) < sc.ttl
}

// GetCachedNetStats returns a recent snapshot for the agent's effective
// selection, fetching fresh counters only when the cache has expired.
func GetCachedNetStats() models.Snapshot {
	snapshotCache.mu.RLock()
	if snapshotCache.isValid() {
		defer snapshotCache.mu.RUnlock()
		return snapshotCache.snapshot
	}
	snapshotCache.mu.RUnlock()

	// Fetch fresh counters outside the lock
	snapshot := GetNetStats(ResolveSelection())

	snapshotCache.mu.Lock()
	snapshotCache.snapshot = snapshot
	snapshotCache.fetchedAt = time.Now()
	snapshotCache.mu.Unlock()

	return snapshot
}

// ClearCache drops the cached snapshot.
func ClearCache() {
	snapshotCache.mu.Lock()
	defer snapshotCache.mu.Unlock()
	snapshotCache.snapshot = nil
}
