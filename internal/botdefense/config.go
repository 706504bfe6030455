package botdefense

import (
	"strings"
	"time"
)

// holds bot defense configuration
type Config struct {
	// whether bot defense is active
	Enabled bool

	// max requests per window on guarded paths before triggering
	RateLimit int

	// time window for rate limiting
	RateLimitWindow time.Duration

	// how long an IP stays trapped
	TrapTTL time.Duration

	// how long to slow-drip responses
	TarpitDuration time.Duration

	// delay between each byte sent during tarpitting
	TarpitChunkDelay time.Duration

	// paths that only bots would access
	HoneypotPaths []string

	// paths where scrapers are fingerprinted and AI crawls are counted
	GuardedPrefixes []string

	// domains for reverse DNS verification
	VerifiedCrawlerDomains []string

	// paths that bypass bot defense (health checks, etc.)
	ExemptPaths []string
}

// returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Enabled:          true,
		RateLimit:        300,
		RateLimitWindow:  time.Minute,
		TrapTTL:          24 * time.Hour,
		TarpitDuration:   60 * time.Second,
		TarpitChunkDelay: time.Second,
		HoneypotPaths: []string{
			// wordpress
			"/wp-admin",
			"/wp-login.php",
			"/xmlrpc.php",

			// config/secrets
			"/.env",
			"/.git",
			"/config.json",
			"/secrets.json",
			"/.aws/credentials",

			// admin panels
			"/admin",
			"/phpmyadmin",

			// backups
			"/backup.zip",
			"/db.sql",

			// api probing
			"/api/internal",
			"/api/admin",
			"/api/v1/internal",

			// bulk media dumps nobody links to
			"/uploads/index.json",
			"/uploads/archive.zip",
			"/api/v1/content/export-all",
			"/api/v1/creators/dump",
		},
		GuardedPrefixes: []string{
			"/uploads",
		},
		VerifiedCrawlerDomains: []string{
			"googlebot.com",
			"google.com",
			"search.msn.com",
			"applebot.apple.com",
			"yandex.ru",
			"yandex.com",
			"duckduckgo.com",
		},
		ExemptPaths: []string{
			"/health",
			"/swagger",
			"/api/v1/ws",   // websocket connections are persistent, not burst requests
			"/api/v1/scan", // detection nodes authenticate with a key
		},
	}
}

// checks if a path is a honeypot (prefix match)
func (c *Config) IsHoneypotPath(path string) bool {
	return matchesAny(c.HoneypotPaths, path)
}

// checks if a path bypasses bot defense
func (c *Config) IsExemptPath(path string) bool {
	return matchesAny(c.ExemptPaths, path)
}

// checks if a path serves creator media
func (c *Config) IsGuardedPath(path string) bool {
	return matchesAny(c.GuardedPrefixes, path)
}

func matchesAny(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}

	return false
}
