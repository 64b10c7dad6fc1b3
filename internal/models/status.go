package models

import "time"

// NetStatus combines the latest snapshot and deltas for the dashboard.
type NetStatus struct {
	Interfaces Snapshot  `json:"interfaces"`
	Deltas     []Delta   `json:"deltas"`
	Wan        *WanStats `json:"wan,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
