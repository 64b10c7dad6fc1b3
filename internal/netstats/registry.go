package netstats

import "netgauge/internal/models"

// SelectInterfaces filters the enumerated interface list down to the
// user-chosen selection, preserving enumeration order. Matching is
// case-sensitive and exact. Names in the selection that do not exist on the
// system simply produce no entry.
func SelectInterfaces(all []string, selected models.InterfaceSet) []string {
	if len(selected) == 0 {
		return nil
	}
	var out []string
	for _, name := range all {
		if selected.Contains(name) {
			out = append(out, name)
		}
	}
	return out
}
