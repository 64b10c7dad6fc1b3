// Package wan retrieves byte counters for a router interface over SNMP,
// using the standard interfaces MIB, and can discover which interface index
// is the WAN side by matching its description.
package wan

import (
	"fmt"
	"log"
	"strings"
	"time"

	"netgauge/internal/models"
	"netgauge/internal/snmp"
)

// Interface MIB columns (RFC 1213): ifDescr names the rows, ifInOctets and
// ifOutOctets are the cumulative byte counters, all indexed by ifIndex.
var (
	oidIfDescr     = snmp.MustOID("1.3.6.1.2.1.2.2.1.2")
	oidIfInOctets  = snmp.MustOID("1.3.6.1.2.1.2.2.1.10")
	oidIfOutOctets = snmp.MustOID("1.3.6.1.2.1.2.2.1.16")
)

// snmpClient is the slice of *snmp.Client the fetcher needs; tests inject a
// fake.
type snmpClient interface {
	Get(target models.Target, oid snmp.OID) (snmp.Value, bool, error)
	Walk(target models.Target, prefix snmp.OID, fn func(snmp.VarBind) error) error
}

// Fetcher composes the SNMP client with the interface MIB.
type Fetcher struct {
	client snmpClient
}

// NewFetcher wraps an SNMP client.
func NewFetcher(client *snmp.Client) *Fetcher {
	return &Fetcher{client: client}
}

// DetectInterfaceIndex walks the ifDescr table and returns the index and
// description of the first interface whose description contains fragment
// (case-sensitive substring). This is a discovery aid, not a guarantee:
// no match, or a failed walk, comes back as found == false.
func (f *Fetcher) DetectInterfaceIndex(target models.Target, fragment string) (index int, name string, found bool) {
	err := f.client.Walk(target, oidIfDescr, func(vb snmp.VarBind) error {
		descr, ok := vb.Value.AsString()
		if !ok || !strings.Contains(descr, fragment) {
			return nil
		}
		// ifIndex is the final arc of the ifDescr row OID.
		index = int(vb.OID[len(vb.OID)-1])
		name = descr
		found = true
		return snmp.ErrStopWalk
	})
	if err != nil {
		log.Printf("[WAN] ifDescr walk against %s failed: %v", target.Addr(), err)
		return 0, "", false
	}
	return index, name, found
}

// FetchWanStats reads the in/out octet counters for one interface index.
// Both gets must succeed; partial WAN stats are useless to the consumer, so
// either failure fails the fetch.
func (f *Fetcher) FetchWanStats(target models.Target, index int, name string) (models.WanStats, error) {
	rxBytes, err := f.counter(target, oidIfInOctets, index)
	if err != nil {
		return models.WanStats{}, fmt.Errorf("wan rx counter: %w", err)
	}
	txBytes, err := f.counter(target, oidIfOutOctets, index)
	if err != nil {
		return models.WanStats{}, fmt.Errorf("wan tx counter: %w", err)
	}

	return models.WanStats{
		InterfaceStats: models.InterfaceStats{
			Interface: name,
			RxBytes:   rxBytes,
			TxBytes:   txBytes,
			Kind:      models.KindWan,
			SampledAt: time.Now(),
		},
		IfIndex: index,
	}, nil
}

func (f *Fetcher) counter(target models.Target, column snmp.OID, index int) (uint64, error) {
	value, ok, err := f.client.Get(target, column.Append(uint32(index)))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("no value at %s.%d", column, index)
	}
	v, ok := value.AsUint64()
	if !ok {
		return 0, fmt.Errorf("non-counter value at %s.%d", column, index)
	}
	return v, nil
}
