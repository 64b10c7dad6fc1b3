package services

import (
	"log"
	"sync"
	"time"

	"netgauge/internal/models"
)

// HistoryCollector keeps an in-memory throughput time series fed by the
// poller. This is presentation-layer state: the core tracks nothing beyond
// the delta baseline.
type HistoryCollector struct {
	mu            sync.RWMutex
	points        []models.ThroughputPoint
	maxDataPoints int
}

var historyCollector = &HistoryCollector{
	points:        []models.ThroughputPoint{},
	maxDataPoints: 600, // 10 minutes at a 1s polling interval
}

// SetHistoryLimit changes how many points are retained.
func SetHistoryLimit(max int) {
	if max <= 0 {
		return
	}
	historyCollector.mu.Lock()
	defer historyCollector.mu.Unlock()
	historyCollector.maxDataPoints = max
	if len(historyCollector.points) > max {
		historyCollector.points = historyCollector.points[len(historyCollector.points)-max:]
	}
	log.Printf("History limit set to %d points", max)
}

// RecordThroughput appends one poll result to the series.
func RecordThroughput(status models.NetStatus) {
	var rxRate, txRate float64
	for _, d := range status.Deltas {
		rxRate += d.RxRate()
		txRate += d.TxRate()
	}

	point := models.ThroughputPoint{
		Timestamp: status.Timestamp,
		RxRate:    rxRate,
		TxRate:    txRate,
		Deltas:    status.Deltas,
	}

	historyCollector.mu.Lock()
	defer historyCollector.mu.Unlock()

	historyCollector.points = append(historyCollector.points, point)
	if len(historyCollector.points) > historyCollector.maxDataPoints {
		historyCollector.points = historyCollector.points[1:]
	}
}

// GetHistory returns the points within the given trailing window.
func GetHistory(duration time.Duration) models.HistoryWindow {
	historyCollector.mu.RLock()
	defer historyCollector.mu.RUnlock()

	cutoff := time.Now().Add(-duration)
	window := models.HistoryWindow{}

	for _, p := range historyCollector.points {
		if p.Timestamp.After(cutoff) {
			window.Points = append(window.Points, p)
		}
	}

	return window
}

// GetLatestThroughput returns the most recent point, or nil when nothing
// has been recorded yet.
func GetLatestThroughput() *models.ThroughputPoint {
	historyCollector.mu.RLock()
	defer historyCollector.mu.RUnlock()

	if len(historyCollector.points) == 0 {
		return nil
	}
	return &historyCollector.points[len(historyCollector.points)-1]
}
