package models

import "time"

// ThroughputPoint is a single point in the throughput time series: the
// aggregate rates across all polled interfaces plus the per-interface
// deltas behind them.
type ThroughputPoint struct {
	Timestamp time.Time `json:"timestamp"`
	RxRate    float64   `json:"rx_rate"` // bytes/sec
	TxRate    float64   `json:"tx_rate"` // bytes/sec
	Deltas    []Delta   `json:"deltas,omitempty"`
}

// HistoryWindow holds time-series throughput data for dashboards.
type HistoryWindow struct {
	Points []ThroughputPoint `json:"points"`
}
