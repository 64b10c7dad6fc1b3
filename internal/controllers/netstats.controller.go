package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"netgauge/internal/models"
	"netgauge/internal/services"
)

// GetInterfaces returns the enumerated interface names
func GetInterfaces(c *gin.Context) {
	names, err := services.GetInterfaces()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interfaces": names})
}

// GetNetStats returns a counter snapshot. Query param: interfaces=eth0,wlan0
// selects a subset; without it the agent's configured selection applies.
// Names that don't exist on the system are silently ignored.
func GetNetStats(c *gin.Context) {
	raw := c.Query("interfaces")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"snapshot": services.GetCachedNetStats()})
		return
	}

	selected := models.InterfaceSet{}
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			selected.Add(name)
		}
	}

	c.JSON(http.StatusOK, gin.H{"snapshot": services.GetNetStats(selected)})
}

// GetStatus returns the latest poll result: snapshot, deltas and the WAN
// sample when one was taken.
func GetStatus(c *gin.Context) {
	status, lastUpdated := services.GetCachedStatus()
	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"last_updated": lastUpdated,
	})
}

// GetRates returns the aggregate throughput across all polled interfaces.
func GetRates(c *gin.Context) {
	rxRate, txRate := services.GetAggregateRates()
	c.JSON(http.StatusOK, gin.H{
		"rx_rate":   rxRate,
		"tx_rate":   txRate,
		"rx_human":  services.HumanBytesPerSec(rxRate),
		"tx_human":  services.HumanBytesPerSec(txRate),
		"timestamp": time.Now(),
	})
}
