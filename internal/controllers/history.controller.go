package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"netgauge/internal/services"
)

// GetHistory returns the throughput time series in a window
// Query params: duration=5m|10m|1h (default: 10m)
func GetHistory(c *gin.Context) {
	durationStr := c.DefaultQuery("duration", "10m")

	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration format"})
		return
	}

	window := services.GetHistory(duration)
	c.JSON(http.StatusOK, gin.H{
		"duration": durationStr,
		"data":     window,
	})
}

// GetDashboard returns simplified data for the main dashboard: the latest
// poll result, aggregate rates and recent history
func GetDashboard(c *gin.Context) {
	status, lastUpdated := services.GetCachedStatus()
	rxRate, txRate := services.GetAggregateRates()
	window := services.GetHistory(10 * time.Minute)

	c.JSON(http.StatusOK, gin.H{
		"current": gin.H{
			"interfaces": status.Interfaces,
			"deltas":     status.Deltas,
			"wan":        status.Wan,
			"rx_rate":    rxRate,
			"tx_rate":    txRate,
			"rx_human":   services.HumanBytesPerSec(rxRate),
			"tx_human":   services.HumanBytesPerSec(txRate),
		},
		"history":      window,
		"last_updated": lastUpdated,
		"timestamp":    time.Now(),
	})
}
