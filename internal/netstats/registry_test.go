package netstats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"netgauge/internal/models"
)

func TestSelectInterfaces(t *testing.T) {
	all := []string{"lo", "eth0", "wlan0", "docker0"}

	t.Run("preserves enumeration order", func(t *testing.T) {
		got := SelectInterfaces(all, models.NewInterfaceSet("wlan0", "eth0"))
		assert.Equal(t, []string{"eth0", "wlan0"}, got)
	})

	t.Run("empty selection selects nothing", func(t *testing.T) {
		assert.Nil(t, SelectInterfaces(all, models.InterfaceSet{}))
	})

	t.Run("matching is exact and case-sensitive", func(t *testing.T) {
		got := SelectInterfaces(all, models.NewInterfaceSet("ETH0", "eth", "docker0"))
		assert.Equal(t, []string{"docker0"}, got)
	})
}
