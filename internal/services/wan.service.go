package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"netgauge/internal/models"
	"netgauge/internal/snmp"
	"netgauge/internal/wan"
)

// WanService polls a remote router's WAN interface over SNMP and hands the
// samples to the same tracker that handles local interfaces.
type WanService struct {
	mu        sync.RWMutex
	client    *snmp.Client
	fetcher   *wan.Fetcher
	target    models.Target
	fragment  string
	available bool
	ifIndex   int
	ifName    string
	detected  bool
}

var wanService *WanService

// InitWanService validates the SNMP target and probes it once. An invalid
// target is a configuration error and is returned immediately; an
// unreachable agent is just logged, since WAN polling is optional.
func InitWanService(target models.Target, fragment string, timeout time.Duration) (*WanService, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	client := snmp.NewClient()
	if timeout > 0 {
		client.Timeout = timeout
	}

	svc := &WanService{
		client:   client,
		fetcher:  wan.NewFetcher(client),
		target:   target,
		fragment: fragment,
	}

	svc.available = client.IsAvailable(target)
	if !svc.available {
		log.Printf("[WAN] SNMP agent at %s not responding; WAN polling disabled until it appears", target.Addr())
	} else {
		log.Printf("[WAN] SNMP agent at %s is available", target.Addr())
		svc.detect()
	}

	wanService = svc
	return svc, nil
}

// detect resolves the WAN interface index by fragment. Caller holds no
// lock; detect takes it.
func (s *WanService) detect() {
	index, name, found := s.fetcher.DetectInterfaceIndex(s.target, s.fragment)

	s.mu.Lock()
	defer s.mu.Unlock()
	if found {
		s.ifIndex = index
		s.ifName = name
		s.detected = true
		log.Printf("[WAN] Detected WAN interface %q (ifIndex %d) matching %q", name, index, s.fragment)
	} else {
		log.Printf("[WAN] No interface matching %q found on %s", s.fragment, s.target.Addr())
	}
}

// Sample fetches the current WAN counters. The second return is false when
// WAN polling is inactive or this interval's fetch failed. The consumer
// shows "no data this interval", nothing aborts.
func (s *WanService) Sample() (models.WanStats, bool) {
	s.mu.RLock()
	available, detected := s.available, s.detected
	index, name := s.ifIndex, s.ifName
	s.mu.RUnlock()

	if !available || !detected {
		return models.WanStats{}, false
	}

	stats, err := s.fetcher.FetchWanStats(s.target, index, name)
	if err != nil {
		log.Printf("[WAN] Fetch failed: %v", err)
		return models.WanStats{}, false
	}
	return stats, true
}

// Detect re-runs WAN interface discovery with a caller-supplied fragment
// and reports the result without changing the polled interface.
func (s *WanService) Detect(fragment string) (int, string, bool) {
	return s.fetcher.DetectInterfaceIndex(s.target, fragment)
}

// Status describes the service for the HTTP layer.
func (s *WanService) Status() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"target":    s.target.Addr(),
		"available": s.available,
		"detected":  s.detected,
		"if_index":  s.ifIndex,
		"if_name":   s.ifName,
	}
}

// Recheck probes availability again and retries detection if the agent
// came back.
func (s *WanService) Recheck() bool {
	available := s.client.IsAvailable(s.target)

	s.mu.Lock()
	s.available = available
	detected := s.detected
	s.mu.Unlock()

	if available && !detected {
		s.detect()
	}
	return available
}

// GetWanService returns the initialized service, or nil when no SNMP
// target is configured.
func GetWanService() *WanService {
	return wanService
}

// ErrWanDisabled is returned by HTTP handlers when no SNMP target is
// configured at all.
var ErrWanDisabled = fmt.Errorf("wan polling is not configured")
