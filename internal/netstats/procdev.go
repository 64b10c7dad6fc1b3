package netstats

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"netgauge/internal/models"
)

// parseProcNetDev parses the /proc/net/dev text table. Each data line looks
// like:
//
//	eth0: 123456 100 0 0 0 0 0 0 654321 90 0 0 0 0 0 0
//
// with receive counters first (bytes at column 0 after the colon) and
// transmit counters second (bytes at column 8). The first two lines are
// headers. Malformed lines are skipped and counted as query failures so one
// bad row never hides the rest of the table.
func parseProcNetDev(r io.Reader, selected models.InterfaceSet, now time.Time) models.Snapshot {
	stats := models.Snapshot{}

	scanner := bufio.NewScanner(r)
	for i := 0; i < 2 && scanner.Scan(); i++ {
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)

		if !selected.Contains(name) {
			continue
		}

		fields := strings.Fields(rest)
		if len(fields) < 16 {
			queryFailures.Add(1)
			log.Printf("[NET] Skipping malformed /proc/net/dev row for %s (%d fields)", name, len(fields))
			continue
		}

		rxBytes, rxErr := strconv.ParseUint(fields[0], 10, 64)
		txBytes, txErr := strconv.ParseUint(fields[8], 10, 64)
		if rxErr != nil || txErr != nil {
			queryFailures.Add(1)
			log.Printf("[NET] Skipping unparsable counters for %s", name)
			continue
		}

		stats = append(stats, models.InterfaceStats{
			Interface: name,
			RxBytes:   rxBytes,
			TxBytes:   txBytes,
			Kind:      models.KindNet,
			SampledAt: now,
		})
	}

	return stats
}

// listProcNetDev returns the interface names from a /proc/net/dev table in
// file order.
func listProcNetDev(r io.Reader) []string {
	var names []string

	scanner := bufio.NewScanner(r)
	for i := 0; i < 2 && scanner.Scan(); i++ {
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, _, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}

	return names
}
