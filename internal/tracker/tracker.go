// Package tracker converts cumulative interface counters into per-interval
// deltas, handling counter resets and 32/64-bit wraparound.
package tracker

import (
	"time"

	"netgauge/internal/models"
)

type lastSeen struct {
	rxBytes   uint64
	txBytes   uint64
	sampledAt time.Time
}

// DeltaTracker holds the last observed counters per interface. One tracker
// belongs to one logical poller; it is a single mutable accumulator and is
// not internally synchronized. State is never expired automatically: an
// interface that disappears just stops appearing in the output, and its
// stale entry stays until overwritten or the tracker is discarded.
type DeltaTracker struct {
	previous map[string]lastSeen
	interval time.Duration
}

// New creates a tracker. interval is the nominal polling interval, reported
// as the elapsed time on the first observation of each interface (when no
// previous sample exists to measure against).
func New(interval time.Duration) *DeltaTracker {
	return &DeltaTracker{
		previous: make(map[string]lastSeen),
		interval: interval,
	}
}

// Update computes one delta per interface in the snapshot, in snapshot
// order, and stores the snapshot as the new baseline.
//
// The first observation of an interface yields a zero delta, never a
// spurious huge one. A counter running backwards means the interface was
// reinitialized or the counter wrapped; the delta is clamped to zero rather
// than guessing the wrap distance, trading one under-reported interval for
// never showing a wildly wrong spike. The new counters become the baseline
// unconditionally, so the next interval is measured against the latest
// observation even right after a reset.
func (t *DeltaTracker) Update(stats models.Snapshot) []models.Delta {
	deltas := make([]models.Delta, 0, len(stats))

	for _, s := range stats {
		prev, seen := t.previous[s.Interface]
		t.previous[s.Interface] = lastSeen{
			rxBytes:   s.RxBytes,
			txBytes:   s.TxBytes,
			sampledAt: s.SampledAt,
		}

		if !seen {
			deltas = append(deltas, models.Delta{
				Interface: s.Interface,
				RxDelta:   0,
				TxDelta:   0,
				Kind:      s.Kind,
				Elapsed:   t.interval,
			})
			continue
		}

		elapsed := s.SampledAt.Sub(prev.sampledAt)
		if elapsed <= 0 {
			elapsed = t.interval
		}

		deltas = append(deltas, models.Delta{
			Interface: s.Interface,
			RxDelta:   saturatingSub(s.RxBytes, prev.rxBytes),
			TxDelta:   saturatingSub(s.TxBytes, prev.txBytes),
			Kind:      s.Kind,
			Elapsed:   elapsed,
		})
	}

	return deltas
}

// Tracked returns how many interfaces currently have a stored baseline.
func (t *DeltaTracker) Tracked() int {
	return len(t.previous)
}

func saturatingSub(now, prev uint64) uint64 {
	if now < prev {
		return 0
	}
	return now - prev
}
