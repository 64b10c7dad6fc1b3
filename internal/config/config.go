// Package config
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"netgauge/internal/models"
)

const defaultSnmpPort = 161

// Config is the agent configuration, read from the environment (a local
// .env file is honored for development).
type Config struct {
	Address        string
	Interval       time.Duration
	Interfaces     []string // empty means "poll everything enumerated"
	SnmpHost       string
	SnmpPort       int
	SnmpCommunity  string
	SnmpTimeout    time.Duration
	WanFragment    string
	JWTSecret      string
	AllowedOrigins []string // empty allows any origin
	IPWhitelist    []string // empty allows any client IP
}

// Load reads the configuration from the environment.
func Load() *Config {
	godotenv.Load()

	addr := os.Getenv("NETGAUGE_ADDR")
	if addr == "" {
		addr = "localhost:8080"
	}

	interval := time.Second
	if raw := os.Getenv("NETGAUGE_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	interfaces := splitList(os.Getenv("NETGAUGE_INTERFACES"))

	host, port := splitSnmpTarget(os.Getenv("NETGAUGE_SNMP_TARGET"))

	community := os.Getenv("NETGAUGE_SNMP_COMMUNITY")
	if community == "" {
		community = "public"
	}

	snmpTimeout := 2 * time.Second
	if raw := os.Getenv("NETGAUGE_SNMP_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			snmpTimeout = parsed
		}
	}

	fragment := os.Getenv("NETGAUGE_WAN_FRAGMENT")
	if fragment == "" {
		fragment = "ppp"
	}

	return &Config{
		Address:        addr,
		Interval:       interval,
		Interfaces:     interfaces,
		SnmpHost:       host,
		SnmpPort:       port,
		SnmpCommunity:  community,
		SnmpTimeout:    snmpTimeout,
		WanFragment:    fragment,
		JWTSecret:      os.Getenv("NETGAUGE_JWT_SECRET"),
		AllowedOrigins: splitList(os.Getenv("NETGAUGE_ALLOWED_ORIGINS")),
		IPWhitelist:    splitList(os.Getenv("NETGAUGE_IP_WHITELIST")),
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SnmpEnabled reports whether a WAN router target is configured at all.
func (c *Config) SnmpEnabled() bool {
	return c.SnmpHost != ""
}

// SnmpTarget builds the SNMP endpoint/credential pair.
func (c *Config) SnmpTarget() models.Target {
	return models.Target{
		Host:      c.SnmpHost,
		Port:      c.SnmpPort,
		Community: c.SnmpCommunity,
	}
}

func splitSnmpTarget(raw string) (string, int) {
	if raw == "" {
		return "", defaultSnmpPort
	}
	host, portStr, err := net.SplitHostPort(raw)
	if err != nil {
		return raw, defaultSnmpPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return host, defaultSnmpPort
	}
	return host, port
}
