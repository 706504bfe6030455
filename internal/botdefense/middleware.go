package botdefense

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/logger"
)

const (
	// minimum score to consider a request as bot-like
	BotScoreThreshold = 40
)

// is told when an AI crawler successfully fetched a guarded file
type CrawlReporter interface {
	RecordCrawl(ctx context.Context, path, model string) error
}

// orchestrates all bot defense components
type Defense struct {
	config   *Config
	store    *Store
	verifier *CrawlerVerifier
	reporter CrawlReporter
}

// creates a new bot defense system
func New(config *Config, store *Store) *Defense {
	return &Defense{
		config:   config,
		store:    store,
		verifier: NewCrawlerVerifier(config.VerifiedCrawlerDomains),
	}
}

// counts AI crawler fetches of guarded files as touches
func (d *Defense) WithCrawlReporter(r CrawlReporter) *Defense {
	d.reporter = r
	return d
}

// swaps the DNS verifier, used by tests
func (d *Defense) WithVerifier(v *CrawlerVerifier) *Defense {
	d.verifier = v
	return d
}

// returns a Gin middleware that implements bot defense
func (d *Defense) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !d.config.Enabled {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ip := c.ClientIP()
		path := c.Request.URL.Path

		if d.config.IsExemptPath(path) {
			c.Next()
			return
		}

		if d.config.IsHoneypotPath(path) {
			d.handleHoneypot(ctx, c, ip, path)
			return
		}

		trapped, reason, err := d.store.IsTrapped(ctx, ip)
		if err != nil {
			logger.ErrorErr(err, "failed to check trapped status", "ip", ip)
		} else if trapped {
			d.handleTrapped(c, ip, reason)
			return
		}

		// the API has its own limiter; only creator media is fingerprinted
		if !d.config.IsGuardedPath(path) {
			c.Next()
			return
		}

		count, err := d.store.IncrementRate(ctx, ip)
		if err != nil {
			logger.ErrorErr(err, "failed to increment rate", "ip", ip)
		} else if count > int64(d.config.RateLimit) {
			d.handleRateLimited(c, ip)
			return
		}

		userAgent := c.Request.Header.Get("User-Agent")

		// declared AI crawlers are served and their fetch is billed
		if model, ok := AICrawler(userAgent); ok {
			c.Next()
			d.recordCrawl(ctx, c, path, model)
			return
		}

		if isCrawler, name := MightBeKnownCrawler(userAgent); isCrawler {
			if d.verifier.IsVerifiedCrawler(ctx, ip) {
				logger.Debug("verified crawler allowed", "ip", ip, "crawler", name)
				c.Next()
				return
			}

			logger.Warn("unverified crawler claim", "ip", ip, "user_agent", userAgent)
			d.trap(ctx, c, ip, ReasonBotPattern)
			return
		}

		if IsSuspiciousPath(path) {
			logger.Warn("suspicious path accessed", "ip", ip, "path", path)
			d.trap(ctx, c, ip, ReasonBotPattern)
			return
		}

		signals := DetectBot(c.Request)
		if signals.Score >= BotScoreThreshold {
			logger.Warn("bot-like request detected",
				"ip", ip,
				"path", path,
				"score", signals.Score,
				"pattern", signals.BotPatternMatch,
				"missing_headers", signals.MissingHeaders,
				"user_agent", userAgent,
			)
			d.trap(ctx, c, ip, ReasonBotPattern)
			return
		}

		c.Next()
	}
}

func (d *Defense) recordCrawl(ctx context.Context, c *gin.Context, path, model string) {
	if d.reporter == nil || c.Writer.Status() != http.StatusOK {
		return
	}

	if err := d.reporter.RecordCrawl(ctx, path, model); err != nil {
		logger.ErrorErr(err, "failed to record crawl", "path", path, "model", model)
		return
	}

	logger.Info("ai crawl recorded", "path", path, "model", model, "ip", c.ClientIP())
}

func (d *Defense) trap(ctx context.Context, c *gin.Context, ip string, reason TrapReason) {
	if err := d.store.TrapIP(ctx, ip, reason); err != nil {
		logger.ErrorErr(err, "failed to trap IP", "ip", ip)
	}

	d.handleTrapped(c, ip, reason)
}

func (d *Defense) handleHoneypot(ctx context.Context, c *gin.Context, ip, path string) {
	logger.Warn("honeypot triggered", "ip", ip, "path", path)

	if err := d.store.TrapIP(ctx, ip, ReasonHoneypot); err != nil {
		logger.ErrorErr(err, "failed to trap IP", "ip", ip)
	}

	if cryptoRandInt(2) == 0 {
		ServePoisonedJSON(c)
	} else {
		Tarpit(c, d.config.TarpitDuration, d.config.TarpitChunkDelay)
	}

	c.Abort()
}

func (d *Defense) handleTrapped(c *gin.Context, ip string, reason TrapReason) {
	logger.Debug("trapped IP request blocked", "ip", ip, "reason", reason)

	switch cryptoRandInt(3) {
	case 0:
		Tarpit(c, d.config.TarpitDuration, d.config.TarpitChunkDelay)
	case 1:
		TarpitJSON(c, d.config.TarpitDuration, d.config.TarpitChunkDelay)
	default:
		ServePoisonedJSON(c)
	}
	c.Abort()
}

func (d *Defense) handleRateLimited(c *gin.Context, ip string) {
	logger.Warn("rate limit exceeded", "ip", ip)

	c.Header("Retry-After", "60")
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":   "rate_limit_exceeded",
		"message": "too many requests. please slow down.",
	})
}

// starts a background goroutine to clean the crawler cache
func (d *Defense) StartCacheCleaner(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.verifier.CleanCache()
			}
		}
	}()
}
