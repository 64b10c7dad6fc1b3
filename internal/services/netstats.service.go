package services

import (
	"log"
	"sync"

	"netgauge/internal/models"
	"netgauge/internal/netstats"
)

// selectionState holds the agent's interface selection. With no configured
// names the agent explicitly opts into "all interfaces" by enumerating and
// selecting everything each poll; the core itself treats an empty set as
// "select nothing".
type selectionState struct {
	mu         sync.RWMutex
	configured models.InterfaceSet
	all        bool
}

var selection = &selectionState{
	configured: models.InterfaceSet{},
	all:        true,
}

// InitSelection sets the interface selection from configuration. An empty
// list puts the agent in all-interfaces mode.
func InitSelection(names []string) {
	selection.mu.Lock()
	defer selection.mu.Unlock()

	selection.configured = models.NewInterfaceSet(names...)
	selection.all = len(names) == 0

	if selection.all {
		log.Printf("[NET] Polling all enumerated interfaces")
	} else {
		log.Printf("[NET] Polling selected interfaces: %v", names)
	}
}

// ResolveSelection returns the effective selection for the next poll.
func ResolveSelection() models.InterfaceSet {
	selection.mu.RLock()
	all := selection.all
	configured := selection.configured
	selection.mu.RUnlock()

	if !all {
		return configured
	}

	names, err := netstats.ListInterfaces()
	if err != nil {
		log.Printf("[NET] Could not enumerate interfaces: %v", err)
		return models.InterfaceSet{}
	}
	return models.NewInterfaceSet(names...)
}

// GetInterfaces returns the enumerated interface names.
func GetInterfaces() ([]string, error) {
	return netstats.ListInterfaces()
}

// GetNetStats fetches a counter snapshot for the given selection.
func GetNetStats(selected models.InterfaceSet) models.Snapshot {
	return netstats.FetchNetStats(selected)
}
