package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"netgauge/internal/services"
)

// GetWanStatus reports whether the configured router answers SNMP and
// which interface index is being polled
func GetWanStatus(c *gin.Context) {
	svc := services.GetWanService()
	if svc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrWanDisabled.Error()})
		return
	}
	c.JSON(http.StatusOK, svc.Status())
}

// DetectWan runs WAN interface discovery with a caller-supplied name
// fragment. Query param: fragment=ppp
func DetectWan(c *gin.Context) {
	svc := services.GetWanService()
	if svc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrWanDisabled.Error()})
		return
	}

	fragment := c.Query("fragment")
	if fragment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing fragment parameter"})
		return
	}

	index, name, found := svc.Detect(fragment)
	if !found {
		// Absence is an expected outcome of discovery, not a server error
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"found":    true,
		"if_index": index,
		"if_name":  name,
	})
}

// GetWanStats fetches the current WAN counters on demand
func GetWanStats(c *gin.Context) {
	svc := services.GetWanService()
	if svc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrWanDisabled.Error()})
		return
	}

	stats, ok := svc.Sample()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no WAN data this interval"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RecheckWan re-probes SNMP availability
func RecheckWan(c *gin.Context) {
	svc := services.GetWanService()
	if svc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrWanDisabled.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": svc.Recheck()})
}
