// Package netstats normalizes per-OS network counter sources into a uniform
// snapshot shape. Exactly one platform adapter is compiled into a given
// binary: the Linux /proc/net/dev table, the BSD-style interface list on
// darwin, or the Windows interface counter table.
package netstats

import (
	"sync/atomic"

	"netgauge/internal/models"
)

var queryFailures atomic.Uint64

// FetchNetStats returns cumulative counters for every selected interface.
// An empty selection is an explicit "select nothing" and yields an empty
// snapshot; callers that want all interfaces pass the ListInterfaces result.
// Selected names absent from the system are silently ignored. A failure to
// query one interface never aborts the call: the interface is omitted and
// the failure is logged and counted out-of-band.
func FetchNetStats(selected models.InterfaceSet) models.Snapshot {
	if len(selected) == 0 {
		return models.Snapshot{}
	}
	return fetchNetStats(selected)
}

// ListInterfaces enumerates the available interface names in the order the
// OS reports them.
func ListInterfaces() ([]string, error) {
	return listInterfaces()
}

// QueryFailures returns the number of per-interface query failures seen
// since process start.
func QueryFailures() uint64 {
	return queryFailures.Load()
}
