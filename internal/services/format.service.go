package services

import "fmt"

// HumanBytesPerSec renders a byte rate as B/s, KB/s, MB/s or GB/s.
func HumanBytesPerSec(rate float64) string {
	switch {
	case rate < 1024:
		return fmt.Sprintf("%.0f B/s", rate)
	case rate < 1024*1024:
		return fmt.Sprintf("%.2f KB/s", rate/1024)
	case rate < 1024*1024*1024:
		return fmt.Sprintf("%.2f MB/s", rate/1024/1024)
	default:
		return fmt.Sprintf("%.2f GB/s", rate/1024/1024/1024)
	}
}

// HumanBitsPerSec renders a byte rate as bps, Kbps, Mbps or Gbps.
func HumanBitsPerSec(rate float64) string {
	bps := rate * 8
	switch {
	case bps < 1024:
		return fmt.Sprintf("%.0f bps", bps)
	case bps < 1024*1024:
		return fmt.Sprintf("%.2f Kbps", bps/1024)
	case bps < 1024*1024*1024:
		return fmt.Sprintf("%.2f Mbps", bps/1024/1024)
	default:
		return fmt.Sprintf("%.2f Gbps", bps/1024/1024/1024)
	}
}
