//go:build windows

package netstats

import (
	"log"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"

	"netgauge/internal/models"
)

// gopsutil reads the Windows interface counter table (GetIfEntry over the
// adapter list), so names here are the adapter aliases users see in
// Control Panel.

func fetchNetStats(selected models.InterfaceSet) models.Snapshot {
	counters, err := psnet.IOCounters(true)
	if err != nil {
		queryFailures.Add(1)
		log.Printf("[NET] Could not read interface counter table: %v", err)
		return models.Snapshot{}
	}

	now := time.Now()
	stats := models.Snapshot{}
	for _, counter := range counters {
		if !selected.Contains(counter.Name) {
			continue
		}
		stats = append(stats, models.InterfaceStats{
			Interface: counter.Name,
			RxBytes:   counter.BytesRecv,
			TxBytes:   counter.BytesSent,
			Kind:      models.KindNet,
			SampledAt: now,
		})
	}
	return stats
}

func listInterfaces() ([]string, error) {
	counters, err := psnet.IOCounters(true)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(counters))
	for _, counter := range counters {
		names = append(names, counter.Name)
	}
	return names, nil
}
