package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"netgauge/internal/config"
	"netgauge/internal/middleware"
	"netgauge/internal/routes"
	"netgauge/internal/services"
)

func main() {
	cfg := config.Load()

	services.InitAuthService(cfg.JWTSecret, 0)
	middleware.NewSecurityLogger()
	services.InitSelection(cfg.Interfaces)

	if cfg.SnmpEnabled() {
		// A bad SNMP target is a configuration error, not something to
		// limp along with.
		if _, err := services.InitWanService(cfg.SnmpTarget(), cfg.WanFragment, cfg.SnmpTimeout); err != nil {
			log.Fatalf("Invalid SNMP configuration: %v", err)
		}
	}

	// Start the background poller and the WebSocket hub
	services.StartPoller(cfg.Interval)
	services.InitWebSocketHub(cfg.Interval)

	r := gin.Default()
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.IPWhitelistMiddleware(middleware.NewIPWhitelist(cfg.IPWhitelist)))
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter()))

	routes.RegisterNetRoutes(r)
	routes.RegisterWanRoutes(r)
	routes.RegisterAuthRoutes(r, middleware.NewTokenRateLimiter())

	if err := r.Run(cfg.Address); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
