package models

import "time"

// Delta is the throughput of one interface over one polling interval.
// Deltas are never negative: a counter reset or wraparound is reported as
// zero for that interval rather than a fabricated wrapped value.
type Delta struct {
	Interface string        `json:"interface"`
	RxDelta   uint64        `json:"rx_delta"`
	TxDelta   uint64        `json:"tx_delta"`
	Kind      InterfaceKind `json:"kind"`
	Elapsed   time.Duration `json:"elapsed"`
}

// RxRate returns the receive throughput in bytes per second.
func (d Delta) RxRate() float64 {
	if d.Elapsed <= 0 {
		return 0
	}
	return float64(d.RxDelta) / d.Elapsed.Seconds()
}

// TxRate returns the transmit throughput in bytes per second.
func (d Delta) TxRate() float64 {
	if d.Elapsed <= 0 {
		return 0
	}
	return float64(d.TxDelta) / d.Elapsed.Seconds()
}
