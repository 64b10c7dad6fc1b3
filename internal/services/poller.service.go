package services

import (
	"log"
	"sync"
	"time"

	"netgauge/internal/models"
	"netgauge/internal/tracker"
)

// PollerCache holds the latest poll result for the HTTP and WebSocket
// layers.
type PollerCache struct {
	mu          sync.RWMutex
	status      models.NetStatus
	lastUpdated time.Time
	running     bool
}

var poller = &PollerCache{}

// StartPoller starts the background polling loop: fetch local counters for
// the effective selection, merge in a WAN sample when one is available, and
// run everything through a single DeltaTracker so local and remote sources
// share one delta stream. The tracker lives on this goroutine and is never
// touched from anywhere else.
func StartPoller(interval time.Duration) {
	poller.mu.Lock()
	if poller.running {
		poller.mu.Unlock()
		return // Already running
	}
	poller.running = true
	poller.mu.Unlock()

	go func() {
		deltaTracker := tracker.New(interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			poller.mu.RLock()
			running := poller.running
			poller.mu.RUnlock()
			if !running {
				return
			}

			collectOnce(deltaTracker)
		}
	}()

	log.Printf("Net poller started (interval: %v)", interval)
}

// StopPoller stops the background poller.
func StopPoller() {
	poller.mu.Lock()
	poller.running = false
	poller.mu.Unlock()
	log.Println("Net poller stopped")
}

// collectOnce runs one polling cycle. All fetches happen before the lock is
// taken so slow SNMP round-trips never block readers.
func collectOnce(deltaTracker *tracker.DeltaTracker) {
	snapshot := GetNetStats(ResolveSelection())

	var wanStats *models.WanStats
	if svc := GetWanService(); svc != nil {
		if sample, ok := svc.Sample(); ok {
			wanStats = &sample
			snapshot = append(snapshot, sample.InterfaceStats)
		}
	}

	deltas := deltaTracker.Update(snapshot)
	now := time.Now()

	status := models.NetStatus{
		Interfaces: snapshot,
		Deltas:     deltas,
		Wan:        wanStats,
		Timestamp:  now,
	}

	poller.mu.Lock()
	poller.status = status
	poller.lastUpdated = now
	poller.mu.Unlock()

	RecordThroughput(status)
}

// GetCachedStatus returns the most recent poll result and when it was
// taken.
func GetCachedStatus() (models.NetStatus, time.Time) {
	poller.mu.RLock()
	defer poller.mu.RUnlock()
	return poller.status, poller.lastUpdated
}

// GetAggregateRates sums the latest per-interface deltas into total rx/tx
// rates in bytes per second.
func GetAggregateRates() (rxRate, txRate float64) {
	status, _ := GetCachedStatus()
	for _, d := range status.Deltas {
		rxRate += d.RxRate()
		txRate += d.TxRate()
	}
	return rxRate, txRate
}
