//go:build linux

package netstats

import (
	"fmt"
	"log"
	"os"
	"time"

	"netgauge/internal/models"
)

const procNetDev = "/proc/net/dev"

func fetchNetStats(selected models.InterfaceSet) models.Snapshot {
	f, err := os.Open(procNetDev)
	if err != nil {
		queryFailures.Add(1)
		log.Printf("[NET] Could not open %s: %v", procNetDev, err)
		return models.Snapshot{}
	}
	defer f.Close()

	return parseProcNetDev(f, selected, time.Now())
}

func listInterfaces() ([]string, error) {
	f, err := os.Open(procNetDev)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", procNetDev, err)
	}
	defer f.Close()

	return listProcNetDev(f), nil
}
