package models

import (
	"fmt"
	"net"
	"strconv"
)

// Target identifies an SNMP agent: address, UDP port and community string.
// It is an opaque endpoint/credential pair and is never persisted.
type Target struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Community string `json:"-"`
}

// Addr returns the UDP dial address for the target.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// Validate checks the target before any network call is made. An invalid
// target is a configuration error and fails fast, it is never retried.
func (t Target) Validate() error {
	if t.Host == "" {
		return fmt.Errorf("snmp target: empty host")
	}
	if t.Port <= 0 || t.Port > 65535 {
		return fmt.Errorf("snmp target: invalid port %d", t.Port)
	}
	if t.Community == "" {
		return fmt.Errorf("snmp target: empty community string")
	}
	return nil
}

// WanStats holds remote interface counters in the same shape as local
// InterfaceStats, so the same DeltaTracker handles both, plus the resolved
// interface index on the router.
type WanStats struct {
	InterfaceStats
	IfIndex int `json:"if_index"`
}
