package models

import "time"

// InterfaceKind tells consumers whether a sample came from a local NIC
// or from a remote router polled over SNMP.
type InterfaceKind string

const (
	KindNet InterfaceKind = "net"
	KindWan InterfaceKind = "wan"
)

// InterfaceStats represents cumulative byte counters for one interface.
// Counters are monotonically non-decreasing within a boot cycle; a smaller
// value than the previous sample means the counter reset or wrapped.
type InterfaceStats struct {
	Interface string        `json:"interface"`
	RxBytes   uint64        `json:"rx_bytes"`
	TxBytes   uint64        `json:"tx_bytes"`
	Kind      InterfaceKind `json:"kind"`
	SampledAt time.Time     `json:"sampled_at"`
}

// Snapshot is an ordered collection of interface counters captured at one
// instant. It is owned by the caller of a fetch operation; nothing in the
// core holds on to it.
type Snapshot []InterfaceStats

// InterfaceSet is a selection filter over interface names. An empty set
// means "select nothing"; callers that want everything pass the full
// enumerated list explicitly.
type InterfaceSet map[string]struct{}

// NewInterfaceSet builds a set from a list of names.
func NewInterfaceSet(names ...string) InterfaceSet {
	set := make(InterfaceSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Add inserts a name into the set.
func (s InterfaceSet) Add(name string) {
	s[name] = struct{}{}
}

// Contains reports whether name is in the set. Matching is case-sensitive
// and exact, no globbing.
func (s InterfaceSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the set members as a slice (order unspecified).
func (s InterfaceSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}
